package enums

import "fmt"

// Language is the UI language stored in settings.
type Language string

const (
	LanguageFrench Language = "fr"
	LanguageArabic Language = "ar"
)

var validLanguages = []Language{
	LanguageFrench,
	LanguageArabic,
}

// String implements fmt.Stringer.
func (v Language) String() string {
	return string(v)
}

// IsValid reports whether the value is a known Language.
func (v Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseLanguage converts raw input into a Language.
func ParseLanguage(value string) (Language, error) {
	for _, candidate := range validLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid language %q", value)
}
