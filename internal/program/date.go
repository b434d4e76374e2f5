package program

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{
	language.English, // first entry is the fallback
	language.German,
	language.French,
	language.Spanish,
	language.Russian,
}

var localeMatcher = language.NewMatcher(supportedLocales)

var monthNames = map[language.Tag][12]string{
	language.German: {"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
	language.French: {"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	language.Spanish: {"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	// genitive forms, as used in dates
	language.Russian: {"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря"},
}

// MatchLocale returns the supported locale closest to the given BCP 47 tag.
func MatchLocale(locale string) language.Tag {
	_, idx := language.MatchStrings(localeMatcher, locale)
	return supportedLocales[idx]
}

// FormatLongDate renders t as a long-form date for locale, e.g.
// "January 2, 2006" for en or "2. Januar 2006" for de. The zero time renders
// as an empty string.
func FormatLongDate(t time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	tag := MatchLocale(locale)
	if tag == language.English {
		return t.Format("January 2, 2006")
	}
	month := monthNames[tag][t.Month()-1]
	switch tag {
	case language.German:
		return fmt.Sprintf("%d. %s %d", t.Day(), month, t.Year())
	case language.Spanish:
		return fmt.Sprintf("%d de %s de %d", t.Day(), month, t.Year())
	case language.Russian:
		return fmt.Sprintf("%d %s %d г.", t.Day(), month, t.Year())
	default:
		return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
	}
}
