// Package i18n holds the user-facing fallback messages shown when the API
// does not supply its own error detail.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	AuthFailed     = "Authentication failed"
	LoadFailed     = "Failed to load"
	SaveFailed     = "Failed to save"
	UploadFailed   = "Failed to upload photo"
	CreateFailed   = "Failed to create event (you may lack permission)"
	NetworkFailed  = "No connection. Actions are unavailable."
	NoteEmpty      = "Enter the note text"
	RequiredFields = "Fill in the required fields: title, city, address, date and time"
	EventPast      = "already over"
	EventFull      = "no seats left"
	EventOpen      = "open for sign-up"
	GenderMale     = "men"
	GenderFemale   = "women"
	GenderAll      = "everyone"
)

var russian = map[string]string{
	AuthFailed:     "Ошибка аутентификации",
	LoadFailed:     "Ошибка загрузки",
	SaveFailed:     "Ошибка сохранения",
	UploadFailed:   "Ошибка загрузки фото",
	CreateFailed:   "Ошибка создания (возможно, недостаточно прав)",
	NetworkFailed:  "Нет соединения. Действия недоступны.",
	NoteEmpty:      "Введите текст заметки",
	RequiredFields: "Заполните обязательные поля: название, город, адрес, дату и время",
	EventPast:      "уже прошло",
	EventFull:      "мест нет",
	EventOpen:      "запись",
	GenderMale:     "мужчины",
	GenderFemale:   "девушки",
	GenderAll:      "все",
}

var supported = language.NewMatcher([]language.Tag{
	language.Russian, // default: the app ships in Russian
	language.English,
})

func init() {
	for key, msg := range russian {
		if err := message.SetString(language.Russian, key, msg); err != nil {
			panic("registering message " + key + ": " + err.Error())
		}
		if err := message.SetString(language.English, key, key); err != nil {
			panic("registering message " + key + ": " + err.Error())
		}
	}
}

// NewPrinter returns a printer for the closest supported language to lang
// (a BCP 47 tag or POSIX locale such as "en_US.UTF-8"). Empty, "C", "POSIX",
// unparsable or unsupported input falls back to Russian.
func NewPrinter(lang string) *message.Printer {
	if idx := strings.IndexAny(lang, ".@"); idx != -1 {
		lang = lang[:idx]
	}
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")

	switch lang {
	case "", "C", "POSIX":
		return message.NewPrinter(language.Russian)
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return message.NewPrinter(language.Russian)
	}
	matched, _, confidence := supported.Match(tag)
	if confidence <= language.Low {
		return message.NewPrinter(language.Russian)
	}
	base, _ := matched.Base()
	if base.String() == "en" {
		return message.NewPrinter(language.English)
	}
	return message.NewPrinter(language.Russian)
}

// Default is the printer used when callers don't supply one.
func Default() *message.Printer {
	return NewPrinter("")
}

// Text returns the translation of key for p, or the key itself when p is nil.
func Text(p *message.Printer, key string) string {
	if p == nil {
		p = Default()
	}
	return p.Sprintf(key)
}
