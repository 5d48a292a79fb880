package errors

import (
	"fmt"
)

type EmptyKeyError struct{}

func (e *EmptyKeyError) Error() string {
	return "key cannot be empty"
}

type WALAppendError struct {
	Op  string
	Err error
}

func (e *WALAppendError) Error() string {
	return fmt.Sprintf("wal append failed for %s: %v", e.Op, e.Err)
}

func (e *WALAppendError) Unwrap() error {
	return e.Err
}

type ClosedError struct{}

func (e *ClosedError) Error() string {
	return "engine is closed"
}
