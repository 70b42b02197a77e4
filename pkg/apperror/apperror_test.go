package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	conflict := New(KindSlotConflict, "slot already booked")

	if got := KindOf(conflict); got != KindSlotConflict {
		t.Errorf("expected %s, got %s", KindSlotConflict, got)
	}

	wrapped := fmt.Errorf("book: %w", conflict)
	if got := KindOf(wrapped); got != KindSlotConflict {
		t.Errorf("expected kind to survive wrapping, got %s", got)
	}
	if !errors.Is(wrapped, conflict) {
		t.Error("expected errors.Is to match the sentinel")
	}

	if got := KindOf(errors.New("connection reset")); got != KindInternal {
		t.Errorf("expected untagged error to be internal, got %s", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("expected empty kind for nil, got %s", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(KindSlotConflict, "slot already booked", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if MessageOf(err) != "slot already booked" {
		t.Errorf("unexpected message %q", MessageOf(err))
	}
	if MessageOf(cause) != "internal server error" {
		t.Errorf("expected generic message for untagged error, got %q", MessageOf(cause))
	}
}
