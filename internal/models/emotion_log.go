package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// EmotionAction определяет, что пользователь сделал с эмоцией.
type EmotionAction string

const (
	ActionExpressed  EmotionAction = "expressed"  // Эмоция выражена
	ActionSuppressed EmotionAction = "suppressed" // Эмоция подавлена
)

// IsValid проверяет, что действие принадлежит известному набору.
func (a EmotionAction) IsValid() bool {
	return a == ActionExpressed || a == ActionSuppressed
}

// EmotionLog представляет одну запись эмоционального дневника.
// Запись неизменяема после создания: её можно только удалить целиком.
type EmotionLog struct {
	ID           uuid.UUID     `json:"id"`
	Text         string        `json:"text"`
	Action       EmotionAction `json:"action"`
	Timestamp    time.Time     `json:"timestamp"`
	TextColor    string        `json:"textColor"`              // Цвет отображения, по умолчанию "white"
	QuickEmotion string        `json:"quickEmotion,omitempty"` // Метка быстрой эмоции, пусто для свободного текста
}

// Validate проверяет обязательные поля записи. Необязательные поля
// (textColor, quickEmotion) здесь не сверяются со справочниками:
// уже сохранённые значения принимаются как есть.
func (l EmotionLog) Validate() error {
	if l.ID == uuid.Nil {
		return fmt.Errorf("%w: log id is required", ErrValidation)
	}
	text := strings.TrimSpace(l.Text)
	if text == "" {
		return fmt.Errorf("%w: log text is empty", ErrValidation)
	}
	if utf8.RuneCountInString(text) > LogTextMaxLen {
		return fmt.Errorf("%w: log text exceeds %d characters", ErrValidation, LogTextMaxLen)
	}
	if !l.Action.IsValid() {
		return fmt.Errorf("%w: unknown action %q", ErrValidation, string(l.Action))
	}
	if l.Timestamp.IsZero() {
		return fmt.Errorf("%w: log timestamp is required", ErrValidation)
	}
	return nil
}

// ChronologicalLogs возвращает копию списка, устойчиво отсортированную по
// времени создания. Порядок хранения не обязан совпадать с хронологией,
// поэтому сортировка выполняется при чтении, а не при записи.
func ChronologicalLogs(logs []EmotionLog) []EmotionLog {
	sorted := make([]EmotionLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
