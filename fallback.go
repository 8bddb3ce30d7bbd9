package polyglot

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// NewFallbackBundle loads static message files that answer reads for which
// no translation row exists. Message ids follow "<identifier>.<field>", so a
// messages.fr.toml carrying an "article.title" entry backs the title field
// of the article model.
func NewFallbackBundle(messagesFolder string, languages ...string) *i18n.Bundle {
	if messagesFolder == "" {
		messagesFolder = "localization"
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, lang := range languages {
		bundle.MustLoadMessageFile(fmt.Sprintf("%s/messages.%v.toml", messagesFolder, lang))
	}

	return bundle
}

// fallbackValue resolves a static fallback for an untranslated field, or the
// empty string when no bundle is configured or the bundle has no message.
func (s *Store) fallbackValue(descriptor Descriptor, fieldName, lang string) string {
	if s.fallback == nil {
		return ""
	}

	localizer := i18n.NewLocalizer(s.fallback, lang)
	message, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: descriptor.Identifier + "." + fieldName,
	})
	if err != nil {
		return ""
	}

	return message
}
