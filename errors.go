package slabarena

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgs is the class all argument-validation errors
	// unwrap to.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrNoMemory indicates the backing store could not reserve a
	// region. The underlying store error is attached via errors.Is /
	// errors.Unwrap.
	ErrNoMemory = errors.New("no memory")
)

// ErrInvalidObjectSize indicates an object size of zero or one larger
// than the backing store's page size.
type ErrInvalidObjectSize struct {
	ObjectSize int
	PageSize   int
}

func (e *ErrInvalidObjectSize) Error() string {
	return fmt.Sprintf("invalid object size %d (page size %d)", e.ObjectSize, e.PageSize)
}

func (e *ErrInvalidObjectSize) Unwrap() error { return ErrInvalidArgs }

// ErrInvalidCount indicates a non-positive slot capacity.
type ErrInvalidCount struct {
	Count int
}

func (e *ErrInvalidCount) Error() string {
	return fmt.Sprintf("invalid slot count %d", e.Count)
}

func (e *ErrInvalidCount) Unwrap() error { return ErrInvalidArgs }
