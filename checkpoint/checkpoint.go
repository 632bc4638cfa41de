// Package checkpoint attaches the file and line of the calling code to
// errors as they travel up the call stack. The result reads like a
// lightweight stacktrace while all wrapped errors stay checkable with
// errors.Is and retrievable with errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
)

// From records the position of the caller on err.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil {
		return nil
	}

	return &checkpoint{
		prev:     err,
		position: callerPosition(),
	}
}

// Wrap records the position of the caller on prev and additionally
// attaches note, which is typically a predefined sentinel error naming
// the failure class:
//
//	var ErrReadImage = errors.New("could not read the image")
//
//	func read() error {
//		err := somethingThatFails()
//		return checkpoint.Wrap(err, ErrReadImage)
//	}
//
// Both prev and note are matched by errors.Is on the returned error.
// Wrap returns nil if prev is nil; a note alone does not create a
// checkpoint.
func Wrap(prev, note error) error {
	if prev == nil {
		return nil
	}

	return &checkpoint{
		prev:     prev,
		note:     note,
		position: callerPosition(),
	}
}

type checkpoint struct {
	// prev is the wrapped error, never nil.
	prev error
	// note further describes the checkpoint, may be nil.
	note error

	position string
}

// callerPosition returns "file.go:line" of the code that called From or
// Wrap. Skips two frames: this function and the exported wrapper.
func callerPosition() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func (c *checkpoint) Error() string {
	if c.note != nil {
		return fmt.Sprintf("%s: %v: %v", c.position, c.note, c.prev)
	}

	return fmt.Sprintf("%s: %v", c.position, c.prev)
}

func (c *checkpoint) Unwrap() error {
	return c.prev
}

func (c *checkpoint) Is(target error) bool {
	return c.note != nil && errors.Is(c.note, target)
}

func (c *checkpoint) As(target interface{}) bool {
	return c.note != nil && errors.As(c.note, target)
}
