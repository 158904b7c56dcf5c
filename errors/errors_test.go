package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := &Error{
		Phase:  PhaseSchedule,
		Kind:   KindRejected,
		Path:   []string{"pool", "queue"},
		Detail: "work queue closed",
	}

	msg := err.Error()
	if !strings.Contains(msg, "[schedule]") {
		t.Errorf("Expected phase in message, got %q", msg)
	}
	if !strings.Contains(msg, "rejected") {
		t.Errorf("Expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "pool.queue") {
		t.Errorf("Expected path in message, got %q", msg)
	}
	if !strings.Contains(msg, "work queue closed") {
		t.Errorf("Expected detail in message, got %q", msg)
	}
}

func TestError_CauseChain(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Rejected(PhaseSchedule, cause, "queue async work")

	if !strings.Contains(err.Error(), "caused by: underlying failure") {
		t.Errorf("Expected cause in message, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("Expected errors.Is to match cause")
	}
	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return cause")
	}
}

func TestError_Is(t *testing.T) {
	a := TornDown(PhaseDispatch, "threadsafe call")
	b := TornDown(PhaseDispatch, "different detail")
	c := TornDown(PhaseRelease, "threadsafe call")

	if !stderrors.Is(a, b) {
		t.Error("Same phase/kind should match regardless of detail")
	}
	if stderrors.Is(a, c) {
		t.Error("Different phase should not match")
	}
}

func TestBuilder(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New(PhaseComplete, KindContract).
		Path("task").
		Value(42).
		Cause(cause).
		Detail("output missing for status %s", "ok").
		Build()

	if err.Phase != PhaseComplete || err.Kind != KindContract {
		t.Fatalf("Unexpected phase/kind: %s/%s", err.Phase, err.Kind)
	}
	if err.Value != 42 {
		t.Errorf("Expected value 42, got %v", err.Value)
	}
	if err.Cause != cause {
		t.Error("Expected cause to be set")
	}
	if err.Detail != "output missing for status ok" {
		t.Errorf("Unexpected detail: %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Contract(PhaseExecute, "input taken %d times", 2), KindContract},
		{Rejected(PhaseSchedule, nil, "queue"), KindRejected},
		{TornDown(PhaseDispatch, "call"), KindTornDown},
		{Released(PhaseDispatch, "threadsafe function"), KindReleased},
		{NotInitialized(PhaseInit, "instance data"), KindNotInitialized},
		{InvalidInput(PhaseGuest, "empty module"), KindInvalidInput},
		{NotFound(PhaseGuest, []string{"exports"}, "function add"), KindNotFound},
		{Wrap(PhaseGuest, KindInvalidInput, fmt.Errorf("x"), "wrap"), KindInvalidInput},
	}

	for _, c := range cases {
		if c.err.Kind != c.kind {
			t.Errorf("Expected kind %s, got %s (%s)", c.kind, c.err.Kind, c.err.Error())
		}
		if c.err.Error() == "" {
			t.Error("Expected non-empty message")
		}
	}
}
