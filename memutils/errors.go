package memutils

import "github.com/pkg/errors"

// ErrInvalidLayout is the error returned from Validate methods when a chunk layout is no longer
// sorted, overlaps itself, or fails to cover the memory it claims to manage
var ErrInvalidLayout error = errors.New("chunk layout failed validation")
