package polyglot

import (
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return "polyglot/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// LanguageToContext adds the preferred languages to the supplied context.
func LanguageToContext(ctx context.Context, languages []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, languages)
}

// LanguageFromContext extracts the preferred languages from the supplied
// context if any exist.
func LanguageFromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}
