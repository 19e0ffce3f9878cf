// Package creature содержит чистые правила вывода состояния питомца из
// потока событий дневника. Функции не обращаются к часам, хранилищу и
// логгеру: одинаковый вход всегда дает одинаковый выход.
package creature

import "ember-server/internal/models"

// Шаги изменения визуальных параметров на одно событие.
const (
	BrightnessStep = 10
	SizeStep       = 10
)

// Apply применяет событие дневника к предыдущему состоянию и возвращает
// новое состояние питомца вместе с обновлённым счётчиком безопасности.
// Яркость и размер всегда зажаты в [0, 100] независимо от величины шага.
// Счётчик растёт только на выраженных эмоциях и верхней границы не имеет.
func Apply(prev models.CreatureState, safety int64, action models.EmotionAction) (models.CreatureState, int64) {
	next := prev
	switch action {
	case models.ActionExpressed:
		safety++
		next.Brightness = clamp(prev.Brightness + BrightnessStep)
		next.Size = clamp(prev.Size + SizeStep)
		// При максимальной яркости праздник важнее роста.
		if next.Brightness == models.CreatureMax {
			next.Animation = models.AnimationCelebrate
		} else {
			next.Animation = models.AnimationGrow
		}
	case models.ActionSuppressed:
		next.Brightness = clamp(prev.Brightness - BrightnessStep)
		next.Size = clamp(prev.Size - SizeStep)
		next.Animation = models.AnimationCurl
	}
	return next, safety
}

// Idle переводит анимацию в спокойное состояние, не меняя числовых
// параметров. Так выглядит свежая сессия, перезагрузка и состояние после
// того, как слой отображения подтвердил показ переходной анимации.
func Idle(prev models.CreatureState) models.CreatureState {
	prev.Animation = models.AnimationIdle
	return prev
}

func clamp(v int) int {
	if v < models.CreatureMin {
		return models.CreatureMin
	}
	if v > models.CreatureMax {
		return models.CreatureMax
	}
	return v
}
