package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ember-server/internal/models"
)

// Дисковые формы записей. Поля указательные, чтобы отличать отсутствующее
// поле от нулевого значения: на этом основаны и миграция textColor, и
// проверка обязательных полей.

type storedEmotionLog struct {
	ID           *string    `json:"id"`
	Text         *string    `json:"text"`
	Action       *string    `json:"action"`
	Timestamp    *time.Time `json:"timestamp"`
	TextColor    *string    `json:"textColor"`
	QuickEmotion *string    `json:"quickEmotion"`
}

type storedCreatureState struct {
	Brightness *int    `json:"brightness"`
	Size       *int    `json:"size"`
	Animation  *string `json:"animation"`
}

type storedCustomization struct {
	Name   *string `json:"name"`
	Color  *string `json:"color"`
	HasBow *bool   `json:"hasBow"`
}

// decodeLogs разбирает сохранённый список записей и приводит каждую к
// текущей схеме. Записи без textColor получают значение по умолчанию,
// записи без обязательных полей отбрасываются; второй возвращаемый
// результат содержит число отброшенных. Миграция идемпотентна:
// повторный прогон уже мигрированных данных ничего не меняет.
func decodeLogs(raw []byte) ([]models.EmotionLog, int, error) {
	var stored []storedEmotionLog
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, 0, fmt.Errorf("parse logs: %w", err)
	}
	logs := make([]models.EmotionLog, 0, len(stored))
	dropped := 0
	for _, s := range stored {
		entry, err := migrateLogRecord(s)
		if err != nil {
			dropped++
			continue
		}
		logs = append(logs, entry)
	}
	return logs, dropped, nil
}

// migrateLogRecord проверяет обязательные поля одной записи и заполняет
// отсутствующий textColor значением по умолчанию. quickEmotion остаётся
// пустым, если отсутствует: это необязательное поле без умолчания.
func migrateLogRecord(s storedEmotionLog) (models.EmotionLog, error) {
	if s.ID == nil || s.Text == nil || s.Action == nil || s.Timestamp == nil {
		return models.EmotionLog{}, errors.New("required field missing")
	}
	id, err := uuid.Parse(*s.ID)
	if err != nil {
		return models.EmotionLog{}, fmt.Errorf("bad id: %w", err)
	}
	text := strings.TrimSpace(*s.Text)
	if text == "" || utf8.RuneCountInString(text) > models.LogTextMaxLen {
		return models.EmotionLog{}, errors.New("bad text length")
	}
	action := models.EmotionAction(*s.Action)
	if !action.IsValid() {
		return models.EmotionLog{}, errors.New("unknown action")
	}
	if s.Timestamp.IsZero() {
		return models.EmotionLog{}, errors.New("zero timestamp")
	}

	textColor := models.DefaultTextColor
	if s.TextColor != nil && *s.TextColor != "" {
		// Сохранённое значение не сверяется с палитрой: что записано, то и отдаём.
		textColor = *s.TextColor
	}
	quickEmotion := ""
	if s.QuickEmotion != nil {
		quickEmotion = *s.QuickEmotion
	}

	return models.EmotionLog{
		ID:           id,
		Text:         text,
		Action:       action,
		Timestamp:    *s.Timestamp,
		TextColor:    textColor,
		QuickEmotion: quickEmotion,
	}, nil
}

// decodeCreature разбирает сохранённое состояние питомца. Пополевой
// миграции нет: запись без любого обязательного поля или с недопустимым
// значением считается повреждённой целиком.
func decodeCreature(raw []byte) (models.CreatureState, error) {
	var stored storedCreatureState
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.CreatureState{}, fmt.Errorf("parse creature: %w", err)
	}
	if stored.Brightness == nil || stored.Size == nil || stored.Animation == nil {
		return models.CreatureState{}, errors.New("required field missing")
	}
	state := models.CreatureState{
		Brightness: *stored.Brightness,
		Size:       *stored.Size,
		Animation:  models.CreatureAnimation(*stored.Animation),
	}
	if err := state.Validate(); err != nil {
		return models.CreatureState{}, err
	}
	return state, nil
}

// decodeCustomization разбирает сохранённые настройки питомца по той же
// грубой схеме, что и состояние: либо запись корректна целиком, либо
// заменяется умолчанием.
func decodeCustomization(raw []byte) (models.CreatureCustomization, error) {
	var stored storedCustomization
	if err := json.Unmarshal(raw, &stored); err != nil {
		return models.CreatureCustomization{}, fmt.Errorf("parse customization: %w", err)
	}
	if stored.Name == nil || stored.Color == nil || stored.HasBow == nil {
		return models.CreatureCustomization{}, errors.New("required field missing")
	}
	customization := models.CreatureCustomization{
		Name:   *stored.Name,
		Color:  *stored.Color,
		HasBow: *stored.HasBow,
	}
	if err := customization.Validate(); err != nil {
		return models.CreatureCustomization{}, err
	}
	return customization, nil
}

// decodeCounter разбирает целое, сохранённое десятичным текстом.
// Отрицательные значения недопустимы для обоих счётчиков.
func decodeCounter(raw []byte) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter: %w", err)
	}
	if value < 0 {
		return 0, errors.New("negative counter")
	}
	return value, nil
}
