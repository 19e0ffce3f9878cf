package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CreatureAnimation определяет текущую анимацию питомца.
type CreatureAnimation string

const (
	AnimationIdle      CreatureAnimation = "idle"      // Спокойное состояние
	AnimationGrow      CreatureAnimation = "grow"      // Рост после выраженной эмоции
	AnimationCurl      CreatureAnimation = "curl"      // Сворачивание после подавленной эмоции
	AnimationCelebrate CreatureAnimation = "celebrate" // Праздник при максимальной яркости
)

// IsValid проверяет, что анимация принадлежит известному набору.
func (a CreatureAnimation) IsValid() bool {
	switch a {
	case AnimationIdle, AnimationGrow, AnimationCurl, AnimationCelebrate:
		return true
	}
	return false
}

// Границы и стартовые значения визуальных параметров питомца.
const (
	CreatureMin       = 0
	CreatureMax       = 100
	DefaultBrightness = 50
	DefaultSize       = 50
)

// CreatureState описывает производное визуальное состояние питомца.
// Состояние не редактируется напрямую: его выводят правила из потока событий.
type CreatureState struct {
	Brightness int               `json:"brightness"`
	Size       int               `json:"size"`
	Animation  CreatureAnimation `json:"animation"`
}

// DefaultCreatureState возвращает состояние свежей сессии.
func DefaultCreatureState() CreatureState {
	return CreatureState{
		Brightness: DefaultBrightness,
		Size:       DefaultSize,
		Animation:  AnimationIdle,
	}
}

// Validate проверяет границы числовых параметров и анимацию.
func (s CreatureState) Validate() error {
	if s.Brightness < CreatureMin || s.Brightness > CreatureMax {
		return fmt.Errorf("%w: brightness %d out of range", ErrValidation, s.Brightness)
	}
	if s.Size < CreatureMin || s.Size > CreatureMax {
		return fmt.Errorf("%w: size %d out of range", ErrValidation, s.Size)
	}
	if !s.Animation.IsValid() {
		return fmt.Errorf("%w: unknown animation %q", ErrValidation, string(s.Animation))
	}
	return nil
}

// CreatureCustomization содержит пользовательские настройки питомца.
// Меняется всегда целиком одной операцией настроек.
type CreatureCustomization struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	HasBow bool   `json:"hasBow"`
}

// DefaultCustomization возвращает настройки питомца по умолчанию.
func DefaultCustomization() CreatureCustomization {
	return CreatureCustomization{
		Name:   DefaultCreatureName,
		Color:  DefaultCreatureColor,
		HasBow: false,
	}
}

// Validate проверяет имя и цвет питомца.
func (c CreatureCustomization) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: creature name is empty", ErrValidation)
	}
	if utf8.RuneCountInString(name) > NameMaxLen {
		return fmt.Errorf("%w: creature name exceeds %d characters", ErrValidation, NameMaxLen)
	}
	if !IsPaletteColor(c.Color) {
		return fmt.Errorf("%w: unknown creature color %q", ErrValidation, c.Color)
	}
	return nil
}
