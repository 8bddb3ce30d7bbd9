package polyglot

import "errors"

var (
	// ErrNotRegistered is returned when an instance's type has no descriptor.
	ErrNotRegistered = errors.New("model type is not registered for translation")

	// ErrUnknownField is returned when a field outside the registered
	// translatable set is read or written.
	ErrUnknownField = errors.New("field is not registered as translatable")

	// ErrNotPersisted is returned when an operation needs the host row to
	// exist but the instance has no id yet.
	ErrNotPersisted = errors.New("instance has not been persisted yet")
)
