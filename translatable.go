package polyglot

import (
	"github.com/pitabwire/polyglot/cache"
)

// Translatable is the embeddable per-instance extension point. It carries
// the instance's active language, an optional default-language override and
// the translation cache. All fields are unexported so gorm never persists
// them; embed with a `gorm:"-"` tag.
type Translatable struct {
	language        string
	defaultLanguage string
	translations    *cache.Translations
}

// TranslationState exposes the embedded state, letting any embedding struct
// satisfy the Model interface.
func (t *Translatable) TranslationState() *Translatable {
	return t
}

// TranslationCache returns the instance cache, creating it on first use.
func (t *Translatable) TranslationCache() *cache.Translations {
	if t.translations == nil {
		t.translations = cache.New()
	}
	return t.translations
}

// ActivateLanguage switches the language subsequent reads and writes apply
// to. The cache is untouched, so switching back and forth is free.
func (t *Translatable) ActivateLanguage(language string) {
	t.language = language
}

// Language returns the explicitly activated language, or empty when reads
// follow the default resolution chain.
func (t *Translatable) Language() string {
	return t.language
}

// ActiveLanguage returns the instance's active language, or the given
// fallback when none has been activated.
func (t *Translatable) ActiveLanguage(fallback string) string {
	if t.language != "" {
		return t.language
	}
	if t.defaultLanguage != "" {
		return t.defaultLanguage
	}
	return fallback
}

// DefaultLanguage returns the per-instance default language override.
func (t *Translatable) DefaultLanguage() string {
	return t.defaultLanguage
}

// SetDefaultLanguage overrides the instance's default language and activates
// it.
func (t *Translatable) SetDefaultLanguage(language string) {
	t.defaultLanguage = language
	t.language = language
}

// CachedTranslationCount reports how many (field, language) pairs this
// instance has cached.
func (t *Translatable) CachedTranslationCount() int {
	return t.TranslationCache().Count()
}

// ClearTranslationCache drops every cached value, including pending edits.
func (t *Translatable) ClearTranslationCache() {
	t.TranslationCache().Clear()
}
