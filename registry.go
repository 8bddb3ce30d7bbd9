package polyglot

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Descriptor declares how a model type participates in translation: the
// identifier its rows are stored under, the set of translatable fields and
// the language used when none has been activated.
type Descriptor struct {
	Identifier      string
	Fields          []string
	DefaultLanguage string
}

// HasField reports whether the field is part of the translatable set.
func (d Descriptor) HasField(fieldName string) bool {
	return slices.Contains(d.Fields, fieldName)
}

// Model is satisfied by any struct embedding Translatable alongside a
// persisted id, which is what data.BaseModel provides.
type Model interface {
	GetID() string
	TranslationState() *Translatable
}

type registry struct {
	mu           sync.RWMutex
	byType       map[reflect.Type]Descriptor
	byIdentifier map[string]reflect.Type
}

var models = &registry{
	byType:       make(map[reflect.Type]Descriptor),
	byIdentifier: make(map[string]reflect.Type),
}

// Register records the descriptor for the model type T. Registering a type
// again replaces its previous descriptor.
func Register[T Model](descriptor Descriptor) error {
	if descriptor.Identifier == "" {
		return fmt.Errorf("register translation model: identifier is required")
	}
	if len(descriptor.Fields) == 0 {
		return fmt.Errorf("register translation model %q: at least one field is required", descriptor.Identifier)
	}
	if descriptor.DefaultLanguage == "" {
		return fmt.Errorf("register translation model %q: a default language is required", descriptor.Identifier)
	}

	modelType := reflect.TypeOf((*T)(nil)).Elem()

	models.mu.Lock()
	defer models.mu.Unlock()
	models.byType[modelType] = descriptor
	models.byIdentifier[descriptor.Identifier] = modelType
	return nil
}

// DescriptorOf resolves the descriptor for an instance's concrete type.
func DescriptorOf(instance Model) (Descriptor, error) {
	modelType := reflect.TypeOf(instance)

	models.mu.RLock()
	defer models.mu.RUnlock()

	descriptor, ok := models.byType[modelType]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotRegistered, modelType)
	}
	return descriptor, nil
}

// DescriptorFor resolves a descriptor by its registered identifier.
func DescriptorFor(identifier string) (Descriptor, bool) {
	models.mu.RLock()
	defer models.mu.RUnlock()

	modelType, ok := models.byIdentifier[identifier]
	if !ok {
		return Descriptor{}, false
	}
	return models.byType[modelType], true
}
