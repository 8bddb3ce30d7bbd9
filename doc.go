// Package polyglot lets gorm models carry per-language field values.
//
// Translated values live in a side table, one row per translated field per
// language per object. Each model instance owns a small cache keyed by
// (field, language): reads are answered from the cache, falling back to a
// single lazy database load, and writes are staged in the cache until the
// host row is saved. A gorm plugin couples the flush to the host model's
// save lifecycle, and a bulk preload primes the caches of whole result sets
// in one query per chunk.
//
// Models opt in by embedding Translatable and registering a descriptor:
//
//	type Article struct {
//		data.BaseModel
//		Slug string
//		polyglot.Translatable `gorm:"-"`
//	}
//
//	polyglot.Register[*Article](polyglot.Descriptor{
//		Identifier:      "article",
//		Fields:          []string{"title", "body"},
//		DefaultLanguage: "en",
//	})
package polyglot
