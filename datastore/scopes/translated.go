// Package scopes holds reusable gorm scopes for querying host models by
// their translated values.
package scopes

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// allowed comparison operators for translated-value filters. Anything else
// is rejected before reaching the database.
var allowedOperators = map[string]string{
	"=":     "=",
	"!=":    "!=",
	"LIKE":  "LIKE",
	"ILIKE": "ILIKE",
}

// Translated filters host rows on a translated field value with an EXISTS
// subquery against the translation table. The host table's primary key is
// matched against the translation's object id, so the scope works on any
// model whose rows carry translations under the given identifier.
//
//	db.Scopes(scopes.Translated("article", "title", "fr", "=", "Bonjour")).Find(&articles)
func Translated(identifier, fieldName, language, operator, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		op, ok := allowedOperators[strings.TrimSpace(strings.ToUpper(operator))]
		if !ok {
			_ = db.AddError(fmt.Errorf("invalid translated-value operator: %s", operator))
			return db
		}

		// Safely retrieve the table name (fallback to bare column if unset)
		table := db.Statement.Table
		if table != "" {
			table += "."
		}

		subquery := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM polyglot_translations pt"+
				" WHERE pt.identifier = ? AND pt.object_id = %sid"+
				" AND pt.language = ? AND pt.field_name = ? AND pt.field_value %s ? AND pt.deleted_at IS NULL)",
			table, op,
		)

		return db.Where(subquery, identifier, language, fieldName, value)
	}
}

// TranslatedIn keeps host rows that have any translation in one of the given
// languages, useful for narrowing listings to content available in a locale.
func TranslatedIn(identifier string, languages ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(languages) == 0 {
			return db
		}

		table := db.Statement.Table
		if table != "" {
			table += "."
		}

		subquery := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM polyglot_translations pt"+
				" WHERE pt.identifier = ? AND pt.object_id = %sid"+
				" AND pt.language IN ? AND pt.deleted_at IS NULL)",
			table,
		)

		return db.Where(subquery, identifier, languages)
	}
}
