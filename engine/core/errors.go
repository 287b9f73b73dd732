package core

import (
	"errors"
)

var (
	// A lifecycle hook was invoked in a state that does not permit it,
	// e.g. update before init or draw before the first update.
	ErrInvalidLifecycle = errors.New("invalid lifecycle transition")
	// A node's parameters violate its descriptor table: a required field
	// is unset or a reference holds a disallowed node type.
	ErrSchemaViolation = errors.New("schema violation")
	// An animated field required keyframes but its curve is empty.
	ErrEmptyCurve = errors.New("animation curve has no keyframes")
	// A device or host allocation failed during init. Fatal to the
	// enclosing subtree, never retried.
	ErrResourceAllocation = errors.New("resource allocation failed")
	// The external sink rejected or truncated a captured frame.
	ErrSinkWrite = errors.New("sink write failed")
)
