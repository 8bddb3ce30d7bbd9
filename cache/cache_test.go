package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/polyglot/cache"
)

func TestPrimeAndValue(t *testing.T) {
	translations := cache.New()

	_, ok := translations.Value("title", "en")
	require.False(t, ok, "empty cache should miss")

	translations.Prime("title", "en", "Hello")

	value, ok := translations.Value("title", "en")
	require.True(t, ok)
	require.Equal(t, "Hello", value)
	require.Equal(t, 1, translations.Count())
}

func TestPrimeCachesEmptyMiss(t *testing.T) {
	translations := cache.New()

	// A known database miss is cached as an empty value so it is not
	// re-queried.
	translations.Prime("title", "fr", "")

	value, ok := translations.Value("title", "fr")
	require.True(t, ok)
	require.Empty(t, value)
}

func TestPrimeDoesNotOverwrite(t *testing.T) {
	translations := cache.New()

	translations.Stage("title", "fr", "Bonjour, brouillon")
	translations.Prime("title", "fr", "Bonjour")

	value, ok := translations.Value("title", "fr")
	require.True(t, ok)
	require.Equal(t, "Bonjour, brouillon", value, "pending edits win over loaded rows")
	require.Len(t, translations.Pending(), 1)
}

func TestStageUpdatesInPlace(t *testing.T) {
	translations := cache.New()

	translations.Prime("title", "en", "Hello")
	translations.Stage("title", "en", "Hello again")

	value, ok := translations.Value("title", "en")
	require.True(t, ok)
	require.Equal(t, "Hello again", value)
	require.Equal(t, 1, translations.Count(), "one entry per (field, language) pair")
}

func TestPendingOrderAndMarkClean(t *testing.T) {
	translations := cache.New()

	translations.Stage("title", "fr", "Bonjour")
	translations.Stage("body", "en", "Body")
	translations.Stage("title", "en", "Hello")

	pending := translations.Pending()
	require.Len(t, pending, 3)
	require.Equal(t, "body", pending[0].FieldName)
	require.Equal(t, cache.Key{FieldName: "title", Language: "en"}, pending[1].Key())

	translations.MarkClean("title", "en")
	translations.MarkClean("body", "en")
	translations.MarkClean("title", "fr")

	require.Empty(t, translations.Pending())
	require.Equal(t, 3, translations.Count(), "clean entries stay cached")
}

func TestClear(t *testing.T) {
	translations := cache.New()
	translations.Prime("title", "en", "Hello")
	translations.Stage("title", "fr", "Bonjour")

	translations.Clear()

	require.Equal(t, 0, translations.Count())
	require.Empty(t, translations.Pending())
}

func TestDropLanguages(t *testing.T) {
	translations := cache.New()
	translations.Prime("title", "en", "Hello")
	translations.Prime("body", "en", "Body")
	translations.Prime("title", "fr", "Bonjour")

	translations.DropLanguages("en")

	require.Equal(t, 1, translations.Count())
	_, ok := translations.Value("title", "fr")
	require.True(t, ok)

	translations.DropLanguages()
	require.Equal(t, 0, translations.Count())
}
