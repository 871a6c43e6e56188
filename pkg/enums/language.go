package enums

import "fmt"

// Language is a supported UI language.
type Language string

// Direction is the text direction derived from a language.
type Direction string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"

	DirectionLTR Direction = "ltr"
	DirectionRTL Direction = "rtl"
)

var validLanguages = []Language{
	LanguageEnglish,
	LanguageArabic,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the value is known.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// Direction returns the text direction for the language. Arabic is the
// only right-to-left language supported; direction is never stored
// independently of the language.
func (l Language) Direction() Direction {
	if l == LanguageArabic {
		return DirectionRTL
	}
	return DirectionLTR
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
