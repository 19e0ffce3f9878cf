package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ember-server/internal/models"
)

// Mock StateRepository
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) SaveLogs(ctx context.Context, logs []models.EmotionLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}
func (m *StateRepository) LoadLogs(ctx context.Context) []models.EmotionLog {
	args := m.Called(ctx)
	logs, _ := args.Get(0).([]models.EmotionLog)
	return logs
}
func (m *StateRepository) SaveCreature(ctx context.Context, state models.CreatureState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}
func (m *StateRepository) LoadCreature(ctx context.Context) models.CreatureState {
	args := m.Called(ctx)
	state, _ := args.Get(0).(models.CreatureState)
	return state
}
func (m *StateRepository) SaveSafetyScore(ctx context.Context, score int64) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}
func (m *StateRepository) LoadSafetyScore(ctx context.Context) int64 {
	args := m.Called(ctx)
	score, _ := args.Get(0).(int64)
	return score
}
func (m *StateRepository) SaveCustomization(ctx context.Context, customization models.CreatureCustomization) error {
	args := m.Called(ctx, customization)
	return args.Error(0)
}
func (m *StateRepository) LoadCustomization(ctx context.Context) models.CreatureCustomization {
	args := m.Called(ctx)
	customization, _ := args.Get(0).(models.CreatureCustomization)
	return customization
}
func (m *StateRepository) SaveTextColorPreference(ctx context.Context, color string) error {
	args := m.Called(ctx, color)
	return args.Error(0)
}
func (m *StateRepository) LoadTextColorPreference(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}
func (m *StateRepository) SaveMicroSentenceIndex(ctx context.Context, index int) error {
	args := m.Called(ctx, index)
	return args.Error(0)
}
func (m *StateRepository) LoadMicroSentenceIndex(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}
func (m *StateRepository) ClearAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *StateRepository) Available() bool {
	args := m.Called()
	return args.Bool(0)
}
func (m *StateRepository) LastError() error {
	args := m.Called()
	return args.Error(0)
}
func (m *StateRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
