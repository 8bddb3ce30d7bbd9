// Package cache holds the per-instance translation cache. Every translatable
// model instance owns one Translations map for the lifetime of that instance;
// it is populated lazily on first read or eagerly by a bulk preload, and is
// only ever emptied explicitly.
package cache

import (
	"sort"
	"sync"
)

// Key identifies one cached value: a cache holds at most one entry per
// (field name, language) pair.
type Key struct {
	FieldName string
	Language  string
}

func (k Key) String() string {
	return k.FieldName + "/" + k.Language
}

// Entry is one cached field value. Pending entries hold edits that have not
// been written to the translation table yet; primed entries mirror what is
// persisted.
type Entry struct {
	FieldName string
	Language  string
	Value     string
	Pending   bool
}

func (e Entry) Key() Key {
	return Key{FieldName: e.FieldName, Language: e.Language}
}

// Translations is the instance-local cache, a mapping from (field name,
// language) to a cached value. Entries are mutated in place when an edit is
// staged over an existing key, so access is guarded by a mutex rather than
// relying on the host's single-request execution.
type Translations struct {
	mu      sync.RWMutex
	entries map[Key]*Entry
}

func New() *Translations {
	return &Translations{entries: make(map[Key]*Entry)}
}

// Value returns the cached value for the key, reporting whether any entry is
// present. A primed empty value counts as present, which is what stops a
// known database miss from being re-queried.
func (t *Translations) Value(fieldName, language string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entry, ok := t.entries[Key{FieldName: fieldName, Language: language}]
	if !ok {
		return "", false
	}
	return entry.Value, true
}

// Prime records a persisted value unless the key is already cached. Pending
// edits always win over freshly loaded rows.
func (t *Translations) Prime(fieldName, language, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := Key{FieldName: fieldName, Language: language}
	if _, ok := t.entries[key]; ok {
		return
	}
	t.entries[key] = &Entry{FieldName: fieldName, Language: language, Value: value}
}

// Stage records an unsaved edit. An existing entry for the key is updated in
// place and becomes pending regardless of where it came from.
func (t *Translations) Stage(fieldName, language, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := Key{FieldName: fieldName, Language: language}
	if entry, ok := t.entries[key]; ok {
		entry.Value = value
		entry.Pending = true
		return
	}
	t.entries[key] = &Entry{FieldName: fieldName, Language: language, Value: value, Pending: true}
}

// Pending returns copies of all entries holding unsaved edits, ordered by key
// so flush writes are deterministic.
func (t *Translations) Pending() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var pending []Entry
	for _, entry := range t.entries {
		if entry.Pending {
			pending = append(pending, *entry)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Key().String() < pending[j].Key().String()
	})
	return pending
}

// MarkClean flags the entry for the key as persisted, keeping its value.
func (t *Translations) MarkClean(fieldName, language string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.entries[Key{FieldName: fieldName, Language: language}]; ok {
		entry.Pending = false
	}
}

// Count reports how many (field, language) pairs are cached.
func (t *Translations) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Clear drops every entry, pending or not.
func (t *Translations) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[Key]*Entry)
}

// DropLanguages removes all entries for the given languages. With no
// languages supplied the whole cache is dropped.
func (t *Translations) DropLanguages(languages ...string) {
	if len(languages) == 0 {
		t.Clear()
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, language := range languages {
		for key := range t.entries {
			if key.Language == language {
				delete(t.entries, key)
			}
		}
	}
}
