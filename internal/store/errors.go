package store

import (
	"errors"
	"fmt"
)

var ErrClosed = errors.New("store closed")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func errTaskNotFound(id string) error {
	return NotFoundError{Kind: "task", ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
