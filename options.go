package polyglot

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/pitabwire/polyglot/datastore"
	"github.com/pitabwire/polyglot/datastore/pool"
	"github.com/pitabwire/polyglot/workerpool"
)

// Option configures a Store during construction.
type Option func(*Store)

// WithDatastore points the store at an existing connection pool.
func WithDatastore(dbPool pool.Pool) Option {
	return func(s *Store) {
		s.dbPool = dbPool
	}
}

// WithRepository supplies the translation repository directly, bypassing
// pool construction. Mostly useful for tests and custom storage wiring.
func WithRepository(repo datastore.TranslationRepository) Option {
	return func(s *Store) {
		s.repo = repo
	}
}

// WithWorkerManager supplies the worker pool used by bulk preloads.
func WithWorkerManager(workMan workerpool.Manager) Option {
	return func(s *Store) {
		s.workMan = workMan
	}
}

// WithLanguages supplies the supported-language resolver used when a
// request's preferred languages are carried in context.
func WithLanguages(languages *Languages) Option {
	return func(s *Store) {
		s.languages = languages
	}
}

// WithFallbackBundle supplies static messages answering reads for which no
// translation row exists.
func WithFallbackBundle(bundle *i18n.Bundle) Option {
	return func(s *Store) {
		s.fallback = bundle
	}
}

// WithPreloadChunkSize caps how many object ids a single preload query
// covers.
func WithPreloadChunkSize(chunkSize int) Option {
	return func(s *Store) {
		if chunkSize > 0 {
			s.chunkSize = chunkSize
		}
	}
}

// PreloadOption narrows a bulk preload.
type PreloadOption func(*preloadOptions)

type preloadOptions struct {
	fieldNames []string
	languages  []string
}

// PreloadFields restricts the preload to the given translatable fields.
func PreloadFields(fieldNames ...string) PreloadOption {
	return func(o *preloadOptions) {
		o.fieldNames = fieldNames
	}
}

// PreloadLanguages restricts the preload to the given languages.
func PreloadLanguages(languages ...string) PreloadOption {
	return func(o *preloadOptions) {
		o.languages = languages
	}
}
