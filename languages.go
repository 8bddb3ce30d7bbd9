package polyglot

import (
	"golang.org/x/text/language"

	"github.com/pitabwire/polyglot/config"
)

// Languages resolves requested language tags against the supported set,
// falling back sensibly (e.g. "en-US" resolves to a supported "en"). The
// first supported language is the match fallback.
type Languages struct {
	supported []string
	tags      []language.Tag
	matcher   language.Matcher
}

// NewLanguages builds a resolver for the supported set. An empty set yields
// a resolver that answers every request with the empty string, letting the
// caller fall through to descriptor defaults.
func NewLanguages(supported ...string) *Languages {
	l := &Languages{}
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		l.supported = append(l.supported, s)
		l.tags = append(l.tags, tag)
	}

	if len(l.tags) > 0 {
		l.matcher = language.NewMatcher(l.tags)
	}
	return l
}

// NewLanguagesFromConfig builds a resolver from configuration.
func NewLanguagesFromConfig(cfg config.ConfigurationLanguages) *Languages {
	supported := cfg.SupportedLanguages()
	if len(supported) == 0 {
		supported = []string{cfg.DefaultLanguage()}
	}
	return NewLanguages(supported...)
}

// Supported lists the languages the resolver was built with.
func (l *Languages) Supported() []string {
	return append([]string(nil), l.supported...)
}

// Resolve maps the requested tags to the best supported language. With no
// usable request it returns the first supported language; with no supported
// set at all it returns the empty string.
func (l *Languages) Resolve(requested ...string) string {
	if l.matcher == nil {
		return ""
	}

	var tags []language.Tag
	for _, r := range requested {
		tag, err := language.Parse(r)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	_, index, confidence := l.matcher.Match(tags...)
	if confidence == language.No {
		return l.supported[0]
	}
	return l.supported[index]
}
