package handler

import "ember-server/internal/models"

// AddLogRequest - тело запроса добавления записи.
type AddLogRequest struct {
	Text         string `json:"text" binding:"required"`
	Action       string `json:"action" binding:"required"`
	TextColor    string `json:"textColor"`
	QuickEmotion string `json:"quickEmotion"`
}

// CustomizationRequest - тело запроса обновления настроек питомца.
type CustomizationRequest struct {
	Name   string `json:"name" binding:"required"`
	Color  string `json:"color" binding:"required"`
	HasBow bool   `json:"hasBow"`
}

// TextColorRequest - тело запроса смены предпочитаемого цвета текста.
type TextColorRequest struct {
	Color string `json:"color" binding:"required"`
}

// MicroSentenceIndexRequest - тело запроса установки курсора ротации.
// Индекс указателем, чтобы ноль проходил проверку required.
type MicroSentenceIndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// LogListResponse - записи дневника в хронологическом порядке.
type LogListResponse struct {
	Logs []models.EmotionLog `json:"logs"`
}

// MicroSentenceResponse - фраза поддержки и свежий снимок состояния.
type MicroSentenceResponse struct {
	Sentence string          `json:"sentence"`
	Snapshot models.Snapshot `json:"snapshot"`
}

// ReferenceResponse - справочные данные для слоя отображения.
type ReferenceResponse struct {
	Palette            []string `json:"palette"`
	QuickEmotions      []string `json:"quickEmotions"`
	MicroSentenceCount int      `json:"microSentenceCount"`
	LogTextMaxLen      int      `json:"logTextMaxLen"`
	NameMaxLen         int      `json:"nameMaxLen"`
	DefaultTextColor   string   `json:"defaultTextColor"`
}
