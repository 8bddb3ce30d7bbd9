package scopes_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pitabwire/polyglot/datastore/scopes"
)

func TestTranslatedRejectsUnknownOperator(t *testing.T) {
	testCases := []struct {
		name     string
		operator string
	}{
		{name: "sql injection attempt", operator: "= '' ; DROP TABLE"},
		{name: "unsupported comparison", operator: ">"},
		{name: "empty operator", operator: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := &gorm.DB{Config: &gorm.Config{}, Statement: &gorm.Statement{}}
			result := scopes.Translated("article", "title", "fr", tc.operator, "x")(db)
			require.Error(t, result.Error)
		})
	}
}

func TestTranslatedInWithoutLanguagesIsANoop(t *testing.T) {
	db := &gorm.DB{Statement: &gorm.Statement{}}
	result := scopes.TranslatedIn("article")(db)
	require.NoError(t, result.Error)
	require.Same(t, db, result)
}
