package models

import "time"

// StorageStatus отражает последнюю известную картину работы хранилища.
// Available гаснет, когда последняя запись упала из-за недоступности стора.
type StorageStatus struct {
	Available bool   `json:"available"`
	LastError string `json:"lastError,omitempty"`
}

// Snapshot представляет полный снимок состояния, возвращаемый движком после
// каждой операции. Это копия: её изменение не затрагивает внутреннее состояние.
type Snapshot struct {
	Logs                []EmotionLog          `json:"logs"`
	Creature            CreatureState         `json:"creature"`
	SafetyScore         int64                 `json:"safetyScore"`
	Customization       CreatureCustomization `json:"customization"`
	TextColorPreference string                `json:"textColorPreference"`
	MicroSentenceIndex  int                   `json:"microSentenceIndex"`
	Storage             StorageStatus         `json:"storage"`
}

// ExportBundle - переносимый дамп всех сохраняемых сущностей.
type ExportBundle struct {
	Logs                []EmotionLog          `json:"logs"`
	Creature            CreatureState         `json:"creature"`
	SafetyScore         int64                 `json:"safetyScore"`
	Customization       CreatureCustomization `json:"customization"`
	TextColorPreference string                `json:"textColorPreference"`
	MicroSentenceIndex  int                   `json:"microSentenceIndex"`
	ExportedAt          time.Time             `json:"exportedAt"`
}
