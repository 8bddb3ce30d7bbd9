package polyglot

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/pitabwire/polyglot/config"
	"github.com/pitabwire/polyglot/data"
	"github.com/pitabwire/polyglot/datastore"
	"github.com/pitabwire/polyglot/datastore/pool"
	"github.com/pitabwire/polyglot/workerpool"
)

const defaultPreloadChunkSize = 500

// Store is the manager-level extension point: it loads, preloads, lists,
// deletes and flushes translation rows on behalf of model instances. All
// reads go through the instance cache; only misses touch the database.
type Store struct {
	dbPool    pool.Pool
	repo      datastore.TranslationRepository
	workMan   workerpool.Manager
	languages *Languages
	fallback  *i18n.Bundle
	chunkSize int
}

// NewStore assembles a store from options. A datastore pool is required;
// a worker manager is created with default sizing when none is supplied.
func NewStore(ctx context.Context, opts ...Option) (*Store, error) {
	s := &Store{chunkSize: defaultPreloadChunkSize}

	for _, opt := range opts {
		opt(s)
	}

	if s.repo == nil {
		if s.dbPool == nil {
			return nil, errors.New("polyglot store requires a datastore pool")
		}
		s.repo = datastore.NewTranslationRepository(s.dbPool)
	}

	if s.workMan == nil {
		cfg := &config.Translation{
			WorkerPoolCPUFactorForWorkerCount: 2,
			WorkerPoolCapacity:                100,
			WorkerPoolExpiryDuration:          "1s",
		}
		s.workMan = workerpool.NewManager(ctx, cfg)
	}

	return s, nil
}

// NewStoreFromConfig wires a store end to end from environment-driven
// configuration: connection pool, replicas, supported languages, fallback
// messages and preload sizing.
func NewStoreFromConfig(ctx context.Context, cfg *config.Translation) (*Store, error) {
	if cfg.GetDatabaseURL() == "" {
		return nil, errors.New("polyglot store requires DATABASE_URL to be set")
	}

	dbPool := pool.NewPool(ctx)
	err := dbPool.AddConnection(ctx, cfg.GetDatabaseURL(), false, pool.WithTraceConfig(cfg))
	if err != nil {
		return nil, err
	}

	for _, replicaURL := range cfg.GetReplicaDatabaseURL() {
		err = dbPool.AddConnection(ctx, replicaURL, true, pool.WithTraceConfig(cfg))
		if err != nil {
			dbPool.Close(ctx)
			return nil, err
		}
	}

	opts := []Option{
		WithDatastore(dbPool),
		WithWorkerManager(workerpool.NewManager(ctx, cfg)),
		WithLanguages(NewLanguagesFromConfig(cfg)),
		WithPreloadChunkSize(cfg.PreloadChunkSize()),
	}

	if cfg.FallbackMessagesFolder != "" {
		opts = append(opts, WithFallbackBundle(
			NewFallbackBundle(cfg.FallbackMessagesFolder, cfg.SupportedLanguages()...)))
	}

	return NewStore(ctx, opts...)
}

// Migrate ensures the translation table exists.
func (s *Store) Migrate(ctx context.Context) error {
	return s.dbPool.Migrate(ctx, &data.Translation{})
}

// Close releases the store's connections and worker pool.
func (s *Store) Close(ctx context.Context) {
	if s.workMan != nil {
		_ = s.workMan.Shutdown(ctx)
	}
	if s.dbPool != nil {
		s.dbPool.Close(ctx)
	}
}

// Repository exposes the underlying translation repository.
func (s *Store) Repository() datastore.TranslationRepository {
	return s.repo
}

// languageFor resolves the language a read or write applies to: an activated
// instance language wins, then context-preferred languages resolved against
// the supported set, then the instance's default, then the descriptor's.
func (s *Store) languageFor(ctx context.Context, instance Model, descriptor Descriptor) string {
	fallback := descriptor.DefaultLanguage
	if requested := LanguageFromContext(ctx); len(requested) > 0 && s.languages != nil {
		if resolved := s.languages.Resolve(requested...); resolved != "" {
			fallback = resolved
		}
	}

	return instance.TranslationState().ActiveLanguage(fallback)
}

// Value returns the instance's value for the field in its active language.
func (s *Store) Value(ctx context.Context, instance Model, fieldName string) (string, error) {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return "", err
	}

	return s.valueIn(ctx, instance, descriptor, fieldName, s.languageFor(ctx, instance, descriptor))
}

// ValueIn returns the instance's value for the field in an explicit
// language, regardless of what is activated.
func (s *Store) ValueIn(ctx context.Context, instance Model, fieldName, lang string) (string, error) {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return "", err
	}

	return s.valueIn(ctx, instance, descriptor, fieldName, lang)
}

func (s *Store) valueIn(
	ctx context.Context,
	instance Model,
	descriptor Descriptor,
	fieldName, lang string,
) (string, error) {
	if !descriptor.HasField(fieldName) {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownField, descriptor.Identifier, fieldName)
	}

	translations := instance.TranslationState().TranslationCache()

	if value, ok := translations.Value(fieldName, lang); ok {
		if value == "" {
			return s.fallbackValue(descriptor, fieldName, lang), nil
		}
		return value, nil
	}

	// Unsaved instances have nothing persisted; never hit the database.
	if instance.GetID() == "" {
		return s.fallbackValue(descriptor, fieldName, lang), nil
	}

	row, err := s.repo.GetBy(ctx, descriptor.Identifier, instance.GetID(), lang, fieldName)
	if err != nil {
		if !data.ErrorIsNoRows(err) {
			return "", err
		}

		// A known miss is cached empty so it is not re-queried.
		translations.Prime(fieldName, lang, "")
		return s.fallbackValue(descriptor, fieldName, lang), nil
	}

	translations.Prime(fieldName, lang, row.FieldValue)
	return row.FieldValue, nil
}

// SetValue stages a value for the field in the instance's active language.
// Nothing is written until the host row is saved or SaveTranslations runs.
func (s *Store) SetValue(ctx context.Context, instance Model, fieldName, value string) error {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return err
	}

	return s.setValueIn(instance, descriptor, fieldName, s.languageFor(ctx, instance, descriptor), value)
}

// SetValueIn stages a value for the field in an explicit language.
func (s *Store) SetValueIn(_ context.Context, instance Model, fieldName, lang, value string) error {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return err
	}

	return s.setValueIn(instance, descriptor, fieldName, lang, value)
}

func (s *Store) setValueIn(instance Model, descriptor Descriptor, fieldName, lang, value string) error {
	if !descriptor.HasField(fieldName) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, descriptor.Identifier, fieldName)
	}

	instance.TranslationState().TranslationCache().Stage(fieldName, lang, value)
	return nil
}

// SaveTranslations upserts every pending edit for the instance and marks
// them clean. It is a no-op when nothing is pending, and fails when edits
// exist but the host row has never been saved.
func (s *Store) SaveTranslations(ctx context.Context, instance Model) error {
	translations := instance.TranslationState().TranslationCache()

	pending := translations.Pending()
	if len(pending) == 0 {
		return nil
	}

	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return err
	}

	if instance.GetID() == "" {
		return fmt.Errorf("%w: cannot save translations for %s", ErrNotPersisted, descriptor.Identifier)
	}

	rows := make([]*data.Translation, 0, len(pending))
	for _, entry := range pending {
		rows = append(rows, &data.Translation{
			Identifier: descriptor.Identifier,
			ObjectID:   instance.GetID(),
			Language:   entry.Language,
			FieldName:  entry.FieldName,
			FieldValue: entry.Value,
		})
	}

	if err = s.repo.Upsert(ctx, rows); err != nil {
		return err
	}

	for _, entry := range pending {
		translations.MarkClean(entry.FieldName, entry.Language)
	}
	return nil
}

// AvailableLanguages lists the distinct languages the instance has persisted
// translations in, ordered by language.
func (s *Store) AvailableLanguages(ctx context.Context, instance Model) ([]string, error) {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return nil, err
	}

	if instance.GetID() == "" {
		return nil, nil
	}

	return s.repo.DistinctLanguages(ctx, descriptor.Identifier, instance.GetID())
}

// Translations returns the instance's persisted rows, optionally narrowed to
// the given languages. Unsaved instances have none.
func (s *Store) Translations(ctx context.Context, instance Model, languages ...string) ([]*data.Translation, error) {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return nil, err
	}

	if instance.GetID() == "" {
		return nil, nil
	}

	return s.repo.List(ctx, datastore.Lookup{
		Identifier: descriptor.Identifier,
		ObjectIDs:  []string{instance.GetID()},
		Languages:  languages,
	})
}

// DeleteTranslations removes the instance's persisted rows, optionally
// narrowed to the given languages, and drops the matching cache entries.
func (s *Store) DeleteTranslations(ctx context.Context, instance Model, languages ...string) error {
	descriptor, err := DescriptorOf(instance)
	if err != nil {
		return err
	}

	if instance.GetID() != "" {
		err = s.repo.DeleteByObject(ctx, descriptor.Identifier, instance.GetID(), languages...)
		if err != nil {
			return err
		}
	}

	instance.TranslationState().TranslationCache().DropLanguages(languages...)
	return nil
}

// PreloadTranslations bulk fetches translation rows for a whole result set
// and primes each instance's cache, without overwriting entries already
// cached. Large sets are chunked and fanned out through the worker pool so
// a preload is one query per chunk rather than one per value read.
func PreloadTranslations[T Model](ctx context.Context, s *Store, instances []T, opts ...PreloadOption) error {
	if len(instances) == 0 {
		return nil
	}

	descriptor, err := DescriptorOf(instances[0])
	if err != nil {
		return err
	}

	popts := &preloadOptions{}
	for _, opt := range opts {
		opt(popts)
	}

	byID := make(map[string][]T, len(instances))
	ids := make([]string, 0, len(instances))
	for _, instance := range instances {
		id := instance.GetID()
		if id == "" {
			continue
		}
		if _, ok := byID[id]; !ok {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], instance)
	}

	if len(ids) == 0 {
		return nil
	}

	job := workerpool.NewJob(func(ctx context.Context, result workerpool.JobResultPipe[[]*data.Translation]) error {
		for start := 0; start < len(ids); start += s.chunkSize {
			end := min(start+s.chunkSize, len(ids))

			rows, listErr := s.repo.List(ctx, datastore.Lookup{
				Identifier: descriptor.Identifier,
				ObjectIDs:  ids[start:end],
				FieldNames: popts.fieldNames,
				Languages:  popts.languages,
			})
			if listErr != nil {
				return result.WriteError(ctx, listErr)
			}

			if writeErr := result.WriteResult(ctx, rows); writeErr != nil {
				return writeErr
			}
		}
		return nil
	})

	if err = workerpool.SubmitJob(ctx, s.workMan, job); err != nil {
		return err
	}

	return workerpool.ConsumeResultStream(ctx, job, func(rows []*data.Translation) error {
		for _, row := range rows {
			for _, instance := range byID[row.ObjectID] {
				instance.TranslationState().TranslationCache().
					Prime(row.FieldName, row.Language, row.FieldValue)
			}
		}
		return nil
	})
}
