package sapling

import "errors"

// ErrNotFound is matched by every *NotFoundError.
var ErrNotFound = errors.New("sapling: not found")

// ErrForgottenNode is the panic value (wrapped) raised when a wrapper is
// used after an edit invalidated it.
var ErrForgottenNode = errors.New("sapling: node was forgotten after its source file changed")

// NotFoundError is returned by the ...OrErr accessors when the requested
// child does not exist.
type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return "sapling: expected to find " + e.What
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
