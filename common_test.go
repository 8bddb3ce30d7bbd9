package polyglot_test

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/pitabwire/polyglot"
	"github.com/pitabwire/polyglot/data"
	"github.com/pitabwire/polyglot/datastore"
	"github.com/pitabwire/polyglot/datastore/pool"
)

type testArticle struct {
	data.BaseModel
	polyglot.Translatable `gorm:"-"`

	Title string `gorm:"type:varchar(255)"`
}

func (a *testArticle) TableName() string {
	return "test_articles"
}

func init() {
	err := polyglot.Register[*testArticle](polyglot.Descriptor{
		Identifier:      "test_article",
		Fields:          []string{"title", "body"},
		DefaultLanguage: "en",
	})
	if err != nil {
		panic(err)
	}
}

// fakeTranslationRepository is an in-memory TranslationRepository that counts
// read traffic so tests can assert the cache absorbed repeat lookups.
type fakeTranslationRepository struct {
	mu         sync.Mutex
	rows       map[string]*data.Translation
	getByCalls int
	listCalls  int
	upsertErr  error
}

func newFakeRepository() *fakeTranslationRepository {
	return &fakeTranslationRepository{rows: map[string]*data.Translation{}}
}

func rowKey(identifier, objectID, language, fieldName string) string {
	return fmt.Sprintf("%s|%s|%s|%s", identifier, objectID, language, fieldName)
}

func (f *fakeTranslationRepository) seed(translations ...*data.Translation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range translations {
		f.rows[rowKey(t.Identifier, t.ObjectID, t.Language, t.FieldName)] = t
	}
}

func (f *fakeTranslationRepository) Svc() pool.Pool {
	return nil
}

func (f *fakeTranslationRepository) GetBy(
	_ context.Context,
	identifier, objectID, language, fieldName string,
) (*data.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getByCalls++
	row, ok := f.rows[rowKey(identifier, objectID, language, fieldName)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeTranslationRepository) List(
	_ context.Context,
	lookup datastore.Lookup,
) ([]*data.Translation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	var matched []*data.Translation
	for _, row := range f.rows {
		if row.Identifier != lookup.Identifier {
			continue
		}
		if len(lookup.ObjectIDs) > 0 && !slices.Contains(lookup.ObjectIDs, row.ObjectID) {
			continue
		}
		if len(lookup.FieldNames) > 0 && !slices.Contains(lookup.FieldNames, row.FieldName) {
			continue
		}
		if len(lookup.Languages) > 0 && !slices.Contains(lookup.Languages, row.Language) {
			continue
		}
		matched = append(matched, row)
	}
	return matched, nil
}

func (f *fakeTranslationRepository) DistinctLanguages(
	_ context.Context,
	identifier, objectID string,
) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seen := map[string]bool{}
	for _, row := range f.rows {
		if row.Identifier == identifier && row.ObjectID == objectID {
			seen[row.Language] = true
		}
	}

	var languages []string
	for language := range seen {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages, nil
}

func (f *fakeTranslationRepository) CountBy(ctx context.Context, lookup datastore.Lookup) (int64, error) {
	rows, err := f.List(ctx, lookup)
	return int64(len(rows)), err
}

func (f *fakeTranslationRepository) Upsert(_ context.Context, translations []*data.Translation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.upsertErr != nil {
		return f.upsertErr
	}

	for _, t := range translations {
		f.rows[rowKey(t.Identifier, t.ObjectID, t.Language, t.FieldName)] = t
	}
	return nil
}

func (f *fakeTranslationRepository) DeleteByObject(
	_ context.Context,
	identifier, objectID string,
	languages ...string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for key, row := range f.rows {
		if row.Identifier != identifier || row.ObjectID != objectID {
			continue
		}
		if len(languages) > 0 && !slices.Contains(languages, row.Language) {
			continue
		}
		delete(f.rows, key)
	}
	return nil
}

func newTestStore(ctx context.Context, repo datastore.TranslationRepository, opts ...polyglot.Option) (*polyglot.Store, error) {
	return polyglot.NewStore(ctx, append([]polyglot.Option{polyglot.WithRepository(repo)}, opts...)...)
}
