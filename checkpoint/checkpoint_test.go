package checkpoint

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

var (
	errBase = errors.New("the underlying failure")
	errNote = errors.New("a failure class")
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantNil bool
	}{
		{
			name:    "nil stays nil",
			err:     nil,
			wantNil: true,
		},
		{
			name: "an error gets decorated",
			err:  errBase,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if (got == nil) != tt.wantNil {
				t.Fatalf("From() = %v, wantNil %v", got, tt.wantNil)
			}
			if got == nil {
				return
			}

			if !errors.Is(got, tt.err) {
				t.Errorf("From() lost the original error: %v", got)
			}
			if !strings.Contains(got.Error(), "checkpoint_test.go") {
				t.Errorf("From() did not record the caller: %v", got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		prev    error
		note    error
		wantNil bool
	}{
		{
			name:    "nil prev stays nil even with a note",
			prev:    nil,
			note:    errNote,
			wantNil: true,
		},
		{
			name: "prev and note are both attached",
			prev: errBase,
			note: errNote,
		},
		{
			name: "nil note is allowed",
			prev: errBase,
			note: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.prev, tt.note)
			if (got == nil) != tt.wantNil {
				t.Fatalf("Wrap() = %v, wantNil %v", got, tt.wantNil)
			}
			if got == nil {
				return
			}

			if !errors.Is(got, tt.prev) {
				t.Errorf("Wrap() lost the wrapped error: %v", got)
			}
			if tt.note != nil && !errors.Is(got, tt.note) {
				t.Errorf("Wrap() lost the note: %v", got)
			}
		})
	}
}

// TestWrap_Chain decorates an error on several levels and checks that
// every sentinel on the way stays visible to errors.Is.
func TestWrap_Chain(t *testing.T) {
	inner := Wrap(errBase, errNote)
	outer := From(fmt.Errorf("reading sector 5: %w", inner))

	if !errors.Is(outer, errBase) {
		t.Errorf("chain lost the base error: %v", outer)
	}
	if !errors.Is(outer, errNote) {
		t.Errorf("chain lost the note: %v", outer)
	}
}

type typedError struct {
	code int
}

func (e *typedError) Error() string {
	return fmt.Sprintf("typed error %d", e.code)
}

func TestWrap_As(t *testing.T) {
	err := Wrap(errBase, &typedError{code: 7})

	var typed *typedError
	if !errors.As(err, &typed) {
		t.Fatalf("errors.As() did not find the typed note in %v", err)
	}
	if typed.code != 7 {
		t.Errorf("errors.As() found %v, want code 7", typed)
	}
}
