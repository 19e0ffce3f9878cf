package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ember-server/internal/models"
	"ember-server/internal/service"
	"ember-server/internal/storage"
)

// Интеграционный сценарий на настоящем файле bbolt: сессия наполняет
// состояние, процесс "перезапускается" (новый репозиторий на том же файле),
// следующая сессия продолжает с того же места.
func TestStateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	// --- Первая сессия ---
	repo, err := storage.NewBoltStateRepository(path, zap.NewNop())
	require.NoError(t, err)

	stateService := service.NewStateService(repo, zap.NewNop())
	snapshot := stateService.Initialize(ctx)
	require.Empty(t, snapshot.Logs)
	require.Equal(t, models.DefaultCreatureState(), snapshot.Creature)

	_, err = stateService.AddLog(ctx, service.AddLogInput{Text: "spoke my mind", Action: models.ActionExpressed})
	require.NoError(t, err)
	suppressed, err := stateService.AddLog(ctx, service.AddLogInput{Text: "swallowed it", Action: models.ActionSuppressed})
	require.NoError(t, err)
	snapshot, err = stateService.AddLog(ctx, service.AddLogInput{Text: "asked for help", Action: models.ActionExpressed, QuickEmotion: "fear"})
	require.NoError(t, err)

	// 60 -> 50 -> 60, счётчик растёт только на выраженных
	require.Equal(t, 60, snapshot.Creature.Brightness)
	require.Equal(t, models.AnimationGrow, snapshot.Creature.Animation)
	require.Equal(t, int64(2), snapshot.SafetyScore)

	// Удаление подавленной записи не возвращает потерянную яркость
	snapshot = stateService.DeleteLog(ctx, suppressed.Logs[1].ID)
	require.Len(t, snapshot.Logs, 2)
	require.Equal(t, 60, snapshot.Creature.Brightness)
	require.Equal(t, int64(2), snapshot.SafetyScore)

	_, err = stateService.SetCustomization(ctx, models.CreatureCustomization{Name: "Луми", Color: "purple", HasBow: true})
	require.NoError(t, err)
	_, err = stateService.SetTextColorPreference(ctx, "blue")
	require.NoError(t, err)
	sentence, snapshot := stateService.NextMicroSentence(ctx)
	require.Equal(t, models.MicroSentences[0], sentence)
	require.Equal(t, 1, snapshot.MicroSentenceIndex)

	require.NoError(t, repo.Close())

	// --- Вторая сессия на том же файле ---
	repo, err = storage.NewBoltStateRepository(path, zap.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	restored := service.NewStateService(repo, zap.NewNop()).Initialize(ctx)

	require.Len(t, restored.Logs, 2)
	assert.Equal(t, "spoke my mind", restored.Logs[0].Text)
	assert.Equal(t, "asked for help", restored.Logs[1].Text)
	assert.Equal(t, "fear", restored.Logs[1].QuickEmotion)
	// Смена предпочтения цвета задним числом не перекрашивает старые записи
	assert.Equal(t, models.DefaultTextColor, restored.Logs[0].TextColor)
	assert.Equal(t, models.DefaultTextColor, restored.Logs[1].TextColor)

	assert.Equal(t, int64(2), restored.SafetyScore)
	assert.Equal(t, 60, restored.Creature.Brightness)
	assert.Equal(t, 60, restored.Creature.Size)
	// Переходная анимация не переживает перезапуск
	assert.Equal(t, models.AnimationIdle, restored.Creature.Animation)

	assert.Equal(t, "Луми", restored.Customization.Name)
	assert.True(t, restored.Customization.HasBow)
	assert.Equal(t, "blue", restored.TextColorPreference)
	assert.Equal(t, 1, restored.MicroSentenceIndex)
	assert.True(t, restored.Storage.Available)
}

// Состояние, добавленное после отказа хранилища, живёт в памяти текущей
// сессии, но не доживает до следующей: диск отстаёт от памяти, и это
// ожидаемая цена плавной деградации.
func TestMemoryOutlivesBrokenStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	repo, err := storage.NewBoltStateRepository(path, zap.NewNop())
	require.NoError(t, err)

	stateService := service.NewStateService(repo, zap.NewNop())
	stateService.Initialize(ctx)

	_, err = stateService.AddLog(ctx, service.AddLogInput{Text: "made it to disk", Action: models.ActionExpressed})
	require.NoError(t, err)

	// Хранилище умирает под работающим сервисом
	require.NoError(t, repo.Close())

	snapshot, err := stateService.AddLog(ctx, service.AddLogInput{Text: "memory only", Action: models.ActionExpressed})
	require.NoError(t, err)
	require.Len(t, snapshot.Logs, 2)
	assert.Equal(t, int64(2), snapshot.SafetyScore)
	assert.False(t, snapshot.Storage.Available)
	assert.NotEmpty(t, snapshot.Storage.LastError)

	// Следующая сессия видит только то, что успело записаться
	repo, err = storage.NewBoltStateRepository(path, zap.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	restored := service.NewStateService(repo, zap.NewNop()).Initialize(ctx)
	require.Len(t, restored.Logs, 1)
	assert.Equal(t, "made it to disk", restored.Logs[0].Text)
	assert.Equal(t, int64(1), restored.SafetyScore)
	assert.True(t, restored.Storage.Available)
}

func TestClearAllSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	repo, err := storage.NewBoltStateRepository(path, zap.NewNop())
	require.NoError(t, err)

	stateService := service.NewStateService(repo, zap.NewNop())
	stateService.Initialize(ctx)

	_, err = stateService.AddLog(ctx, service.AddLogInput{Text: "to be erased", Action: models.ActionExpressed})
	require.NoError(t, err)
	_, err = stateService.SetTextColorPreference(ctx, "red")
	require.NoError(t, err)

	cleared := stateService.ClearAll(ctx)
	require.Empty(t, cleared.Logs)
	require.NoError(t, repo.Close())

	repo, err = storage.NewBoltStateRepository(path, zap.NewNop())
	require.NoError(t, err)
	defer repo.Close()

	restored := service.NewStateService(repo, zap.NewNop()).Initialize(ctx)
	assert.Empty(t, restored.Logs)
	assert.Equal(t, int64(0), restored.SafetyScore)
	assert.Equal(t, models.DefaultCreatureState(), restored.Creature)
	assert.Equal(t, models.DefaultCustomization(), restored.Customization)
	assert.Equal(t, models.DefaultTextColor, restored.TextColorPreference)
	assert.Equal(t, 0, restored.MicroSentenceIndex)
}

func TestExportImportRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	sourceRepo, err := storage.NewBoltStateRepository(filepath.Join(dir, "source.db"), zap.NewNop())
	require.NoError(t, err)
	defer sourceRepo.Close()

	source := service.NewStateService(sourceRepo, zap.NewNop())
	source.Initialize(ctx)
	_, err = source.AddLog(ctx, service.AddLogInput{Text: "carried over", Action: models.ActionExpressed})
	require.NoError(t, err)
	_, err = source.SetCustomization(ctx, models.CreatureCustomization{Name: "Искра", Color: "orange", HasBow: false})
	require.NoError(t, err)

	bundle := source.Export(ctx)

	targetRepo, err := storage.NewBoltStateRepository(filepath.Join(dir, "target.db"), zap.NewNop())
	require.NoError(t, err)
	defer targetRepo.Close()

	target := service.NewStateService(targetRepo, zap.NewNop())
	target.Initialize(ctx)
	snapshot, err := target.Import(ctx, bundle)
	require.NoError(t, err)

	require.Len(t, snapshot.Logs, 1)
	assert.Equal(t, "carried over", snapshot.Logs[0].Text)
	assert.Equal(t, bundle.SafetyScore, snapshot.SafetyScore)
	assert.Equal(t, "Искра", snapshot.Customization.Name)
}
