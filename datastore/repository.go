package datastore

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/pitabwire/polyglot/data"
	"github.com/pitabwire/polyglot/datastore/pool"
)

// Lookup narrows translation queries. Identifier is mandatory; every other
// field is optional and ANDed in when present.
type Lookup struct {
	Identifier string
	ObjectIDs  []string
	FieldNames []string
	Languages  []string
}

// TranslationRepository provides the persistence operations the store needs
// for translation records.
type TranslationRepository interface {
	Svc() pool.Pool

	// GetBy fetches the single row for one (object, language, field)
	// association. Missing rows surface as gorm.ErrRecordNotFound.
	GetBy(ctx context.Context, identifier, objectID, language, fieldName string) (*data.Translation, error)
	List(ctx context.Context, lookup Lookup) ([]*data.Translation, error)
	DistinctLanguages(ctx context.Context, identifier, objectID string) ([]string, error)
	CountBy(ctx context.Context, lookup Lookup) (int64, error)
	Upsert(ctx context.Context, translations []*data.Translation) error
	DeleteByObject(ctx context.Context, identifier, objectID string, languages ...string) error
}

type translationRepository struct {
	dbPool pool.Pool
}

// NewTranslationRepository creates a repository bound to the supplied pool.
func NewTranslationRepository(dbPool pool.Pool) TranslationRepository {
	return &translationRepository{dbPool: dbPool}
}

func (tr *translationRepository) Svc() pool.Pool {
	return tr.dbPool
}

func (tr *translationRepository) GetBy(
	ctx context.Context,
	identifier, objectID, language, fieldName string,
) (*data.Translation, error) {
	translation := &data.Translation{}
	err := tr.Svc().DB(ctx, true).
		Where("identifier = ? AND object_id = ? AND language = ? AND field_name = ?",
			identifier, objectID, language, fieldName).
		First(translation).Error
	if err != nil {
		return nil, err
	}
	return translation, nil
}

func (tr *translationRepository) List(ctx context.Context, lookup Lookup) ([]*data.Translation, error) {
	if lookup.Identifier == "" {
		return nil, fmt.Errorf("translation lookup requires an identifier")
	}

	query := tr.Svc().DB(ctx, true).Where("identifier = ?", lookup.Identifier)

	if len(lookup.ObjectIDs) > 0 {
		query = query.Where("object_id IN ?", lookup.ObjectIDs)
	}
	if len(lookup.FieldNames) > 0 {
		query = query.Where("field_name IN ?", lookup.FieldNames)
	}
	if len(lookup.Languages) > 0 {
		query = query.Where("language IN ?", lookup.Languages)
	}

	var translations []*data.Translation
	err := query.Find(&translations).Error
	return translations, err
}

func (tr *translationRepository) DistinctLanguages(
	ctx context.Context,
	identifier, objectID string,
) ([]string, error) {
	var languages []string
	err := tr.Svc().DB(ctx, true).
		Model(&data.Translation{}).
		Where("identifier = ? AND object_id = ?", identifier, objectID).
		Distinct("language").
		Order("language").
		Pluck("language", &languages).Error
	return languages, err
}

func (tr *translationRepository) CountBy(ctx context.Context, lookup Lookup) (int64, error) {
	if lookup.Identifier == "" {
		return 0, fmt.Errorf("translation lookup requires an identifier")
	}

	query := tr.Svc().DB(ctx, true).Model(&data.Translation{}).
		Where("identifier = ?", lookup.Identifier)

	if len(lookup.ObjectIDs) > 0 {
		query = query.Where("object_id IN ?", lookup.ObjectIDs)
	}
	if len(lookup.Languages) > 0 {
		query = query.Where("language IN ?", lookup.Languages)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// Upsert writes translation rows, updating the value when the unique
// (identifier, object, language, field) association already exists.
func (tr *translationRepository) Upsert(ctx context.Context, translations []*data.Translation) error {
	if len(translations) == 0 {
		return nil
	}

	return tr.Svc().DB(ctx, false).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "identifier"},
				{Name: "object_id"},
				{Name: "language"},
				{Name: "field_name"},
			},
			// Resurrect soft-deleted rows too, the association is unique.
			DoUpdates: clause.AssignmentColumns([]string{"field_value", "modified_at", "deleted_at"}),
		}).
		Create(translations).Error
}

func (tr *translationRepository) DeleteByObject(
	ctx context.Context,
	identifier, objectID string,
	languages ...string,
) error {
	query := tr.Svc().DB(ctx, false).
		Where("identifier = ? AND object_id = ?", identifier, objectID)

	if len(languages) > 0 {
		query = query.Where("language IN ?", languages)
	}

	return query.Delete(&data.Translation{}).Error
}
