package chunk

import "github.com/pkg/errors"

var (
	// ErrCapacityExceeded is returned from List.Insert when the list already holds as many
	// entries as it was created to hold
	ErrCapacityExceeded error = errors.New("chunk list is at capacity")
	// ErrIndexOutOfRange is the panic value used by List.Remove when it receives an index that
	// does not refer to an entry
	ErrIndexOutOfRange error = errors.New("chunk list index out of range")
)
