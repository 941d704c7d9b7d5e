package validation

import (
	"errors"
	"testing"
)

type priority string

const (
	priorityHigh priority = "high"
	priorityLow  priority = "low"
)

func TestFormatValidValues(t *testing.T) {
	if got := FormatValidValues([]priority{priorityHigh, priorityLow}); got != "high, low" {
		t.Fatalf("expected %q, got %q", "high, low", got)
	}
	if got := FormatValidValues([]priority{}); got != "" {
		t.Fatalf("expected empty string for no values, got %q", got)
	}
}

func TestFormatInvalidValueError(t *testing.T) {
	base := errors.New("invalid priority")

	err := FormatInvalidValueError(base, priority("asap"), []priority{priorityHigh, priorityLow})
	if !errors.Is(err, base) {
		t.Fatalf("expected error to wrap %v", base)
	}

	want := `invalid priority: "asap" (valid: high, low)`
	if got := err.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
