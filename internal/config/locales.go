package config

import (
	"context"

	"github.com/gitwhisper/gitwhisper/internal/logger"
)

const (
	LangEN = "en"
	LangES = "es"
)

func SupportedLanguages() []string {
	return []string{LangEN, LangES}
}

func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages() {
		if l == lang {
			return true
		}
	}
	return false
}

// GetLocaleConfig maps lang to a supported interface language, falling back to English.
func GetLocaleConfig(ctx context.Context, lang string) string {
	if IsSupportedLanguage(lang) {
		return lang
	}
	logger.Warn(ctx, "unsupported language, falling back to english", "lang", lang)
	return LangEN
}
