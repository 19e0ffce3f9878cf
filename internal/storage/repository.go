package storage

import (
	"context"

	"ember-server/internal/models"
)

// StateRepository описывает долговременное хранилище состояния дневника.
// Каждая сущность лежит под собственным независимым ключом, поэтому
// повреждение одного ключа не затрагивает остальные.
//
// Методы Load* не возвращают ошибку: при любом сбое чтения вызывающему
// отдаётся документированное значение по умолчанию, а повреждение
// фиксируется в журнале. Методы Save* возвращают классифицированную
// ошибку и запоминают её для LastError.
type StateRepository interface {
	SaveLogs(ctx context.Context, logs []models.EmotionLog) error
	LoadLogs(ctx context.Context) []models.EmotionLog

	SaveCreature(ctx context.Context, state models.CreatureState) error
	LoadCreature(ctx context.Context) models.CreatureState

	SaveSafetyScore(ctx context.Context, score int64) error
	LoadSafetyScore(ctx context.Context) int64

	SaveCustomization(ctx context.Context, customization models.CreatureCustomization) error
	LoadCustomization(ctx context.Context) models.CreatureCustomization

	SaveTextColorPreference(ctx context.Context, color string) error
	LoadTextColorPreference(ctx context.Context) string

	SaveMicroSentenceIndex(ctx context.Context, index int) error
	LoadMicroSentenceIndex(ctx context.Context) int

	// ClearAll стирает все ключи состояния одной транзакцией.
	ClearAll(ctx context.Context) error

	// Available выполняет пробную запись и сообщает, доступно ли хранилище.
	Available() bool

	// LastError возвращает последнюю ошибку записи этого экземпляра.
	// После успешной записи сбрасывается в nil.
	LastError() error

	Close() error
}
