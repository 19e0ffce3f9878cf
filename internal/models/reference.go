package models

// Ограничения пользовательского ввода.
const (
	LogTextMaxLen = 100 // Максимальная длина текста записи в символах
	NameMaxLen    = 50  // Максимальная длина имени питомца
)

// Значения по умолчанию.
const (
	DefaultTextColor     = "white"
	DefaultCreatureName  = "Ember"
	DefaultCreatureColor = "green"
)

// Palette задаёт фиксированную палитру из восьми цветов. Используется и для
// цвета текста записей, и для цвета питомца.
var Palette = []string{"white", "red", "orange", "yellow", "green", "blue", "purple", "pink"}

// QuickEmotions задаёт фиксированный набор меток быстрых эмоций. Запись,
// введённая свободным текстом, метки не имеет.
var QuickEmotions = []string{"joy", "calm", "gratitude", "sadness", "anger", "fear", "anxiety", "fatigue"}

// MicroSentences содержит упорядоченный список коротких фраз поддержки.
// Порядок значим: курсор ротации сохраняется между сессиями.
var MicroSentences = []string{
	"You showed up for yourself today.",
	"Naming a feeling is already taming it.",
	"Small honest words count double.",
	"Your pace is the right pace.",
	"Feelings pass, kindness stays.",
	"One breath, then the next.",
	"It is safe to feel this.",
	"You are allowed to take up space.",
	"Noticing is the bravest first step.",
	"Today's entry is enough.",
}

// IsPaletteColor сообщает, входит ли цвет в палитру.
func IsPaletteColor(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

// IsQuickEmotion сообщает, входит ли метка в набор быстрых эмоций.
func IsQuickEmotion(label string) bool {
	for _, e := range QuickEmotions {
		if e == label {
			return true
		}
	}
	return false
}
