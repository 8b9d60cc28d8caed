package sandbox

import "fmt"

// ErrorKind classifies a sandbox-level failure: bad module/missing
// imports, a runtime trap (including deadline interruption), a
// guest-returned error, or host-resource-table misuse.
type ErrorKind string

const (
	ErrInstantiation ErrorKind = "instantiation"
	ErrWasmtime      ErrorKind = "wasmtime"
	ErrComponent     ErrorKind = "component"
	ErrResource      ErrorKind = "resource"
)

// Error is the classified error type sandbox implementations return.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewInstantiationError wraps msg as an instantiation-classified Error.
func NewInstantiationError(msg string) error { return &Error{Kind: ErrInstantiation, Message: msg} }

// NewWasmtimeError wraps msg as a runtime-trap-classified Error.
func NewWasmtimeError(msg string) error { return &Error{Kind: ErrWasmtime, Message: msg} }

// NewComponentError wraps msg as a guest-returned-error-classified Error.
func NewComponentError(msg string) error { return &Error{Kind: ErrComponent, Message: msg} }
