package annotator

import (
	"errors"
	"fmt"
)

// Locales understood by the annotation service.
const (
	LocaleEnglishUS = "en_US"
	LocaleFrench    = "fr"
	LocaleGerman    = "de"
)

// ErrUnsupportedLocale is returned for locales outside Locales().
var ErrUnsupportedLocale = errors.New("unsupported locale")

var localeNames = map[string]string{
	LocaleEnglishUS: "(US) English",
	LocaleFrench:    "French",
	LocaleGerman:    "German",
}

// Locales returns the supported locales.
func Locales() []string {
	return []string{LocaleEnglishUS, LocaleFrench, LocaleGerman}
}

// LocaleName returns a human readable name for locale.
func LocaleName(locale string) string {
	if name, ok := localeNames[locale]; ok {
		return name
	}
	return locale
}

// ValidateLocale checks that locale is supported.
func ValidateLocale(locale string) error {
	if _, ok := localeNames[locale]; !ok {
		return fmt.Errorf("%w: %q (supported: en_US, fr, de)", ErrUnsupportedLocale, locale)
	}
	return nil
}
