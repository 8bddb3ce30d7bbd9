package polyglot

import (
	"context"
	"reflect"

	"gorm.io/gorm"
)

const (
	pluginName            = "polyglot"
	flushCallbackName     = "polyglot:flush_translations"
	afterCreateTargetName = "gorm:after_create"
	afterUpdateTargetName = "gorm:after_update"
)

// Plugin couples translation flushing to the host model's save lifecycle:
// once a translatable row is created or updated, its pending translations
// are written in the same callback chain, so a plain db.Save on the host
// model persists its staged per-language values too.
type Plugin struct {
	store *Store
}

// NewPlugin builds a gorm plugin backed by the given store. Register it with
// db.Use(polyglot.NewPlugin(store)).
func NewPlugin(store *Store) *Plugin {
	return &Plugin{store: store}
}

func (p *Plugin) Name() string {
	return pluginName
}

func (p *Plugin) Initialize(db *gorm.DB) error {
	err := db.Callback().Create().After(afterCreateTargetName).Register(flushCallbackName, p.flush)
	if err != nil {
		return err
	}

	return db.Callback().Update().After(afterUpdateTargetName).Register(flushCallbackName, p.flush)
}

func (p *Plugin) flush(db *gorm.DB) {
	if db.Error != nil || db.Statement == nil {
		return
	}

	ctx := db.Statement.Context

	switch value := db.Statement.ReflectValue; value.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range value.Len() {
			p.flushOne(ctx, db, value.Index(i))
		}
	case reflect.Struct:
		p.flushOne(ctx, db, value)
	default:
	}
}

func (p *Plugin) flushOne(ctx context.Context, db *gorm.DB, value reflect.Value) {
	if value.Kind() == reflect.Struct {
		if !value.CanAddr() {
			return
		}
		value = value.Addr()
	}

	instance, ok := value.Interface().(Model)
	if !ok {
		return
	}

	if err := p.store.SaveTranslations(ctx, instance); err != nil {
		_ = db.AddError(err)
	}
}
