package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
)

//go:embed locales
var localesFS embed.FS

// Translator resolves message keys for one language.
type Translator struct {
	language     enums.Language
	translations map[string]string
}

// NewTranslator loads the embedded message table for the language.
func NewTranslator(fsys fs.FS, language enums.Language) (*Translator, error) {
	if !language.IsValid() {
		return nil, fmt.Errorf("unsupported language %q", language)
	}
	filePath := path.Join("locales", fmt.Sprintf("%s.yaml", language))
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("reading translation file %s: %w", filePath, err)
	}

	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("parsing translation file %s: %w", filePath, err)
	}

	return &Translator{language: language, translations: translations}, nil
}

// T resolves a message key, falling back to the key itself when unknown.
func (t *Translator) T(key string, args ...any) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// Language returns the translator's language.
func (t *Translator) Language() enums.Language {
	return t.language
}

// Direction returns the text direction derived from the language.
func (t *Translator) Direction() enums.Direction {
	return t.language.Direction()
}

// Bundle holds one translator per supported language.
type Bundle map[enums.Language]*Translator

// LoadBundle loads every supported language from the embedded tables.
func LoadBundle() (Bundle, error) {
	bundle := Bundle{}
	for _, language := range []enums.Language{enums.LanguageEnglish, enums.LanguageArabic} {
		translator, err := NewTranslator(localesFS, language)
		if err != nil {
			return nil, err
		}
		bundle[language] = translator
	}
	return bundle, nil
}

// For returns the translator for the language, defaulting to English.
func (b Bundle) For(language enums.Language) *Translator {
	if translator, ok := b[language]; ok {
		return translator
	}
	return b[enums.LanguageEnglish]
}
