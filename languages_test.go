package polyglot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/polyglot"
	"github.com/pitabwire/polyglot/config"
)

func TestLanguagesResolve(t *testing.T) {
	testCases := []struct {
		name      string
		supported []string
		requested []string
		expected  string
	}{
		{
			name:      "exact match",
			supported: []string{"en", "sw"},
			requested: []string{"sw"},
			expected:  "sw",
		},
		{
			name:      "regional variant resolves to base",
			supported: []string{"en", "fr"},
			requested: []string{"en-US"},
			expected:  "en",
		},
		{
			name:      "first preference wins",
			supported: []string{"en", "fr", "de"},
			requested: []string{"fr", "de"},
			expected:  "fr",
		},
		{
			name:      "unsupported request falls back to first supported",
			supported: []string{"en", "sw"},
			requested: []string{"ja"},
			expected:  "en",
		},
		{
			name:      "empty request falls back to first supported",
			supported: []string{"de", "en"},
			requested: nil,
			expected:  "de",
		},
		{
			name:      "unparseable tags are skipped",
			supported: []string{"en", "sw"},
			requested: []string{"!!", "sw"},
			expected:  "sw",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			languages := polyglot.NewLanguages(tc.supported...)
			require.Equal(t, tc.expected, languages.Resolve(tc.requested...))
		})
	}
}

func TestLanguagesEmptySupportedSet(t *testing.T) {
	languages := polyglot.NewLanguages()
	require.Empty(t, languages.Supported())
	require.Empty(t, languages.Resolve("en"))
}

func TestLanguagesSupportedIsACopy(t *testing.T) {
	languages := polyglot.NewLanguages("en", "sw")

	supported := languages.Supported()
	supported[0] = "xx"
	require.Equal(t, []string{"en", "sw"}, languages.Supported())
}

func TestNewLanguagesFromConfig(t *testing.T) {
	t.Setenv("TRANSLATION_LANGUAGES", "en,sw,fr")

	cfg, err := config.FromEnv[config.Translation]()
	require.NoError(t, err)

	languages := polyglot.NewLanguagesFromConfig(&cfg)
	require.Equal(t, []string{"en", "sw", "fr"}, languages.Supported())
	require.Equal(t, "sw", languages.Resolve("sw-TZ"))
}
