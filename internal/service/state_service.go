package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ember-server/internal/creature"
	"ember-server/internal/metrics"
	"ember-server/internal/models"
	"ember-server/internal/storage"
)

// AddLogInput - входные данные операции добавления записи.
type AddLogInput struct {
	Text         string
	Action       models.EmotionAction
	TextColor    string // Пусто: берётся текущее предпочтение цвета
	QuickEmotion string // Пусто: запись введена свободным текстом
}

// StateService определяет операции движка состояния дневника. Все операции синхронны:
// к моменту возврата изменение применено в памяти и либо сохранено,
// либо сбой сохранения зафиксирован в снимке.
type StateService interface {
	Initialize(ctx context.Context) models.Snapshot
	Snapshot(ctx context.Context) models.Snapshot
	AddLog(ctx context.Context, input AddLogInput) (models.Snapshot, error)
	DeleteLog(ctx context.Context, id uuid.UUID) models.Snapshot
	SetCustomization(ctx context.Context, customization models.CreatureCustomization) (models.Snapshot, error)
	SetTextColorPreference(ctx context.Context, color string) (models.Snapshot, error)
	SetMicroSentenceIndex(ctx context.Context, index int) (models.Snapshot, error)
	NextMicroSentence(ctx context.Context) (string, models.Snapshot)
	AcknowledgeAnimation(ctx context.Context) models.Snapshot
	ClearAll(ctx context.Context) models.Snapshot
	StorageStatus(ctx context.Context) models.StorageStatus
	Export(ctx context.Context) models.ExportBundle
	Import(ctx context.Context, bundle models.ExportBundle) (models.Snapshot, error)
}

// stateServiceImpl держит авторитетный снимок состояния в памяти и синхронно
// зеркалирует каждое изменение в хранилище. Мьютекс пропускает операции
// строго по одной: кооперативная однопоточность исходной модели выполнения
// сохраняется внутри конкурентного HTTP-сервера.
//
// Сбой записи в хранилище не откатывает память: снимок в памяти остаётся
// источником истины текущей сессии, даже если долговременная копия отстала.
type stateServiceImpl struct {
	repo   storage.StateRepository
	logger *zap.Logger
	now    func() time.Time // Подменяемые часы для тестов

	mu            sync.Mutex
	logs          []models.EmotionLog
	creatureState models.CreatureState
	safetyScore   int64
	customization models.CreatureCustomization
	textColorPref string
	microIndex    int
}

// NewStateService создаёт движок с пустым состоянием по умолчанию.
// Наполнение из хранилища выполняет Initialize.
func NewStateService(repo storage.StateRepository, logger *zap.Logger) StateService {
	return &stateServiceImpl{
		repo:          repo,
		logger:        logger,
		now:           time.Now,
		logs:          []models.EmotionLog{},
		creatureState: models.DefaultCreatureState(),
		customization: models.DefaultCustomization(),
		textColorPref: models.DefaultTextColor,
	}
}

// Initialize загружает все сущности из хранилища и наполняет снимок в
// памяти. Сбой загрузки любой сущности не прерывает инициализацию: её
// место занимает значение по умолчанию. Анимация при старте сессии
// всегда выводится заново как idle, что бы ни лежало в хранилище.
func (s *stateServiceImpl) Initialize(ctx context.Context) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := s.repo.LoadLogs(ctx)
	if logs == nil {
		logs = []models.EmotionLog{}
	}
	s.logs = logs
	s.creatureState = creature.Idle(s.repo.LoadCreature(ctx))
	s.safetyScore = s.repo.LoadSafetyScore(ctx)
	s.customization = s.repo.LoadCustomization(ctx)
	s.textColorPref = s.repo.LoadTextColorPreference(ctx)
	s.microIndex = normalizeIndex(s.repo.LoadMicroSentenceIndex(ctx))

	s.publishGauges()
	s.logger.Info("State initialized",
		zap.Int("logs", len(s.logs)),
		zap.Int64("safety_score", s.safetyScore))
	return s.snapshotLocked()
}

// Snapshot возвращает копию текущего состояния без изменений.
func (s *stateServiceImpl) Snapshot(ctx context.Context) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// AddLog проверяет вход, создаёт запись и применяет правила вывода.
// Валидация выполняется до любого изменения состояния: отклонённый вход
// не оставляет следов ни в памяти, ни в хранилище. Затронутые срезы
// (записи, питомец, счётчик) сохраняются тремя независимыми записями.
func (s *stateServiceImpl) AddLog(ctx context.Context, input AddLogInput) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return s.snapshotLocked(), fmt.Errorf("%w: log text is empty", models.ErrValidation)
	}
	if utf8.RuneCountInString(text) > models.LogTextMaxLen {
		return s.snapshotLocked(), fmt.Errorf("%w: log text exceeds %d characters", models.ErrValidation, models.LogTextMaxLen)
	}
	if !input.Action.IsValid() {
		return s.snapshotLocked(), fmt.Errorf("%w: unknown action %q", models.ErrValidation, string(input.Action))
	}
	textColor := input.TextColor
	if textColor == "" {
		textColor = s.textColorPref
	}
	if !models.IsPaletteColor(textColor) {
		return s.snapshotLocked(), fmt.Errorf("%w: unknown text color %q", models.ErrValidation, textColor)
	}
	if input.QuickEmotion != "" && !models.IsQuickEmotion(input.QuickEmotion) {
		return s.snapshotLocked(), fmt.Errorf("%w: unknown quick emotion %q", models.ErrValidation, input.QuickEmotion)
	}

	entry := models.EmotionLog{
		ID:           uuid.New(),
		Text:         text,
		Action:       input.Action,
		Timestamp:    s.now().UTC(),
		TextColor:    textColor,
		QuickEmotion: input.QuickEmotion,
	}
	s.logs = append(s.logs, entry)
	s.creatureState, s.safetyScore = creature.Apply(s.creatureState, s.safetyScore, input.Action)

	s.persist("logs", func() error { return s.repo.SaveLogs(ctx, s.logs) })
	s.persist("creature", func() error { return s.repo.SaveCreature(ctx, s.creatureState) })
	s.persist("safety", func() error { return s.repo.SaveSafetyScore(ctx, s.safetyScore) })

	metrics.LogsTotal.WithLabelValues(string(input.Action)).Inc()
	s.publishGauges()
	s.logger.Info("Log added",
		zap.String("log_id", entry.ID.String()),
		zap.String("action", string(input.Action)))
	return s.snapshotLocked(), nil
}

// DeleteLog удаляет запись по идентификатору, если она есть. Отсутствующий
// идентификатор не считается ошибкой. Удаление не пересчитывает счётчик
// безопасности и параметры питомца: питомец помнит, что уже вырос.
func (s *stateServiceImpl) DeleteLog(ctx context.Context, id uuid.UUID) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, entry := range s.logs {
		if entry.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return s.snapshotLocked()
	}
	s.logs = append(s.logs[:index], s.logs[index+1:]...)
	s.persist("logs", func() error { return s.repo.SaveLogs(ctx, s.logs) })

	metrics.LogsDeletedTotal.Inc()
	s.logger.Info("Log deleted", zap.String("log_id", id.String()))
	return s.snapshotLocked()
}

// SetCustomization заменяет настройки питомца целиком и сразу сохраняет их.
func (s *stateServiceImpl) SetCustomization(ctx context.Context, customization models.CreatureCustomization) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customization.Name = strings.TrimSpace(customization.Name)
	if err := customization.Validate(); err != nil {
		return s.snapshotLocked(), err
	}
	s.customization = customization
	s.persist("customization", func() error { return s.repo.SaveCustomization(ctx, customization) })

	s.logger.Info("Customization updated",
		zap.String("name", customization.Name),
		zap.String("color", customization.Color))
	return s.snapshotLocked(), nil
}

// SetTextColorPreference запоминает последний использованный цвет текста.
func (s *stateServiceImpl) SetTextColorPreference(ctx context.Context, color string) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.IsPaletteColor(color) {
		return s.snapshotLocked(), fmt.Errorf("%w: unknown text color %q", models.ErrValidation, color)
	}
	s.textColorPref = color
	s.persist("text_color_pref", func() error { return s.repo.SaveTextColorPreference(ctx, color) })
	return s.snapshotLocked(), nil
}

// SetMicroSentenceIndex выставляет курсор ротации фраз. Отрицательный индекс
// отклоняется, значение сверх длины списка приводится по модулю.
func (s *stateServiceImpl) SetMicroSentenceIndex(ctx context.Context, index int) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 {
		return s.snapshotLocked(), fmt.Errorf("%w: micro sentence index is negative", models.ErrValidation)
	}
	s.microIndex = normalizeIndex(index)
	s.persist("micro_index", func() error { return s.repo.SaveMicroSentenceIndex(ctx, s.microIndex) })
	return s.snapshotLocked(), nil
}

// NextMicroSentence возвращает текущую фразу поддержки и сдвигает курсор на
// следующую по кругу. Курсор сохраняется, чтобы ротация продолжилась после
// перезапуска с того же места.
func (s *stateServiceImpl) NextMicroSentence(ctx context.Context) (string, models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentence := models.MicroSentences[s.microIndex]
	s.microIndex = normalizeIndex(s.microIndex + 1)
	s.persist("micro_index", func() error { return s.repo.SaveMicroSentenceIndex(ctx, s.microIndex) })
	return sentence, s.snapshotLocked()
}

// AcknowledgeAnimation вызывается слоем отображения после показа переходной
// анимации: движок возвращает анимацию в idle. Таймеры показа целиком
// остаются на стороне отображения, движок с часами не работает.
func (s *stateServiceImpl) AcknowledgeAnimation(ctx context.Context) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creatureState.Animation == models.AnimationIdle {
		return s.snapshotLocked()
	}
	s.creatureState = creature.Idle(s.creatureState)
	s.persist("creature", func() error { return s.repo.SaveCreature(ctx, s.creatureState) })
	return s.snapshotLocked()
}

// ClearAll сбрасывает каждую сущность к значению по умолчанию и стирает все
// сохранённые ключи. Единственный способ уменьшить счётчик безопасности.
func (s *stateServiceImpl) ClearAll(ctx context.Context) models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = []models.EmotionLog{}
	s.creatureState = models.DefaultCreatureState()
	s.safetyScore = 0
	s.customization = models.DefaultCustomization()
	s.textColorPref = models.DefaultTextColor
	s.microIndex = 0

	if err := s.repo.ClearAll(ctx); err != nil {
		metrics.StoreWriteFailures.WithLabelValues(failureKind(err)).Inc()
		s.logger.Error("Store clear failed", zap.Error(err))
	}
	s.publishGauges()
	s.logger.Info("State cleared")
	return s.snapshotLocked()
}

// StorageStatus выполняет живую пробную запись и возвращает текущую
// картину хранилища. В отличие от снимка, где статус выводится из
// последней известной ошибки, здесь хранилище действительно опрашивается.
func (s *stateServiceImpl) StorageStatus(ctx context.Context) models.StorageStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.StorageStatus{Available: s.repo.Available()}
	if err := s.repo.LastError(); err != nil {
		status.LastError = err.Error()
	}
	return status
}

// Export собирает переносимый дамп всех сущностей.
func (s *stateServiceImpl) Export(ctx context.Context) models.ExportBundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]models.EmotionLog, len(s.logs))
	copy(logs, s.logs)
	return models.ExportBundle{
		Logs:                logs,
		Creature:            s.creatureState,
		SafetyScore:         s.safetyScore,
		Customization:       s.customization,
		TextColorPreference: s.textColorPref,
		MicroSentenceIndex:  s.microIndex,
		ExportedAt:          s.now().UTC(),
	}
}

// Import проверяет дамп целиком и, только если каждая сущность корректна,
// замещает им текущее состояние. Частичное применение исключено.
func (s *stateServiceImpl) Import(ctx context.Context, bundle models.ExportBundle) (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range bundle.Logs {
		if err := entry.Validate(); err != nil {
			return s.snapshotLocked(), fmt.Errorf("log %d: %w", i, err)
		}
	}
	if err := bundle.Creature.Validate(); err != nil {
		return s.snapshotLocked(), err
	}
	if bundle.SafetyScore < 0 {
		return s.snapshotLocked(), fmt.Errorf("%w: safety score is negative", models.ErrValidation)
	}
	customization := bundle.Customization
	customization.Name = strings.TrimSpace(customization.Name)
	if err := customization.Validate(); err != nil {
		return s.snapshotLocked(), err
	}
	if !models.IsPaletteColor(bundle.TextColorPreference) {
		return s.snapshotLocked(), fmt.Errorf("%w: unknown text color %q", models.ErrValidation, bundle.TextColorPreference)
	}
	if bundle.MicroSentenceIndex < 0 {
		return s.snapshotLocked(), fmt.Errorf("%w: micro sentence index is negative", models.ErrValidation)
	}

	logs := make([]models.EmotionLog, len(bundle.Logs))
	copy(logs, bundle.Logs)
	s.logs = logs
	s.creatureState = creature.Idle(bundle.Creature)
	s.safetyScore = bundle.SafetyScore
	s.customization = customization
	s.textColorPref = bundle.TextColorPreference
	s.microIndex = normalizeIndex(bundle.MicroSentenceIndex)

	s.persist("logs", func() error { return s.repo.SaveLogs(ctx, s.logs) })
	s.persist("creature", func() error { return s.repo.SaveCreature(ctx, s.creatureState) })
	s.persist("safety", func() error { return s.repo.SaveSafetyScore(ctx, s.safetyScore) })
	s.persist("customization", func() error { return s.repo.SaveCustomization(ctx, s.customization) })
	s.persist("text_color_pref", func() error { return s.repo.SaveTextColorPreference(ctx, s.textColorPref) })
	s.persist("micro_index", func() error { return s.repo.SaveMicroSentenceIndex(ctx, s.microIndex) })

	s.publishGauges()
	s.logger.Info("State imported", zap.Int("logs", len(s.logs)))
	return s.snapshotLocked(), nil
}

// snapshotLocked собирает копию состояния. Вызывается только под мьютексом.
func (s *stateServiceImpl) snapshotLocked() models.Snapshot {
	logs := make([]models.EmotionLog, len(s.logs))
	copy(logs, s.logs)

	status := models.StorageStatus{Available: true}
	if err := s.repo.LastError(); err != nil {
		status.LastError = err.Error()
		if errors.Is(err, models.ErrStoreUnavailable) {
			status.Available = false
		}
	}
	return models.Snapshot{
		Logs:                logs,
		Creature:            s.creatureState,
		SafetyScore:         s.safetyScore,
		Customization:       s.customization,
		TextColorPreference: s.textColorPref,
		MicroSentenceIndex:  s.microIndex,
		Storage:             status,
	}
}

// persist выполняет одну независимую запись среза. Ошибка уходит в журнал
// и метрики, но не наружу: снимок в памяти остаётся источником истины.
func (s *stateServiceImpl) persist(slice string, write func() error) {
	if err := write(); err != nil {
		metrics.StoreWriteFailures.WithLabelValues(failureKind(err)).Inc()
		s.logger.Error("Slice persistence failed", zap.String("slice", slice), zap.Error(err))
	}
}

func (s *stateServiceImpl) publishGauges() {
	metrics.SafetyScore.Set(float64(s.safetyScore))
	metrics.CreatureBrightness.Set(float64(s.creatureState.Brightness))
	metrics.CreatureSize.Set(float64(s.creatureState.Size))
}

// failureKind переводит классифицированную ошибку записи в метку метрики.
func failureKind(err error) string {
	switch {
	case errors.Is(err, models.ErrStoreFull):
		return "full"
	case errors.Is(err, models.ErrStoreUnavailable):
		return "unavailable"
	default:
		return "write"
	}
}

// normalizeIndex приводит курсор ротации к допустимому диапазону списка фраз.
func normalizeIndex(index int) int {
	n := len(models.MicroSentences)
	if n == 0 {
		return 0
	}
	index %= n
	if index < 0 {
		index += n
	}
	return index
}
