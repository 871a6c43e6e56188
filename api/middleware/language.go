package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sofiabenali/lunchwise-backend/pkg/enums"
	"github.com/sofiabenali/lunchwise-backend/pkg/logger"
)

type contextKey string

const ctxLanguage contextKey = "language"

// Language resolves the request language from the lang query parameter
// or the Accept-Language header and attaches it to the context. Unknown
// values fall back to the configured default.
func Language(fallback enums.Language, logg *logger.Logger) func(http.Handler) http.Handler {
	if !fallback.IsValid() {
		fallback = enums.LanguageEnglish
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := resolveLanguage(r, fallback)

			ctx := context.WithValue(r.Context(), ctxLanguage, lang)
			if logg != nil {
				ctx = logg.WithLanguage(ctx, lang.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveLanguage(r *http.Request, fallback enums.Language) enums.Language {
	if raw := r.URL.Query().Get("lang"); raw != "" {
		if lang, err := enums.ParseLanguage(raw); err == nil {
			return lang
		}
	}
	header := r.Header.Get("Accept-Language")
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if len(tag) >= 2 {
			if lang, err := enums.ParseLanguage(strings.ToLower(tag[:2])); err == nil {
				return lang
			}
		}
	}
	return fallback
}

// LanguageFromContext returns the language resolved for the request.
func LanguageFromContext(ctx context.Context) enums.Language {
	if ctx == nil {
		return enums.LanguageEnglish
	}
	if lang, ok := ctx.Value(ctxLanguage).(enums.Language); ok {
		return lang
	}
	return enums.LanguageEnglish
}
