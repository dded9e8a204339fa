package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Kind: KindNotFound, Message: "Entry not found"}

	expected := "NOT_FOUND: Entry not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	err := NewStoreUnavailable("Failed to fetch entries", fmt.Errorf("connection refused"))

	expected := "STORE_UNAVAILABLE: Failed to fetch entries: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestKindStatusAndSeverity(t *testing.T) {
	tests := []struct {
		kind     Kind
		status   int
		severity Severity
	}{
		{KindValidation, 400, SeverityWarn},
		{KindNotFound, 404, SeverityWarn},
		{KindStoreUnavailable, 500, SeverityCritical},
		{KindRemoteBlob, 500, SeverityCritical},
		{KindInternal, 500, SeverityCritical},
		{KindTransport, 502, SeverityCritical},
		{KindBadResponse, 502, SeverityWarn},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Status(); got != tt.status {
				t.Errorf("Status() = %d, want %d", got, tt.status)
			}
			if got := tt.kind.Severity(); got != tt.severity {
				t.Errorf("Severity() = %q, want %q", got, tt.severity)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	err := NewValidation("Empty or invalid input")

	if err.Kind != KindValidation {
		t.Errorf("Kind = %q, want %q", err.Kind, KindValidation)
	}
	if err.Status() != 400 {
		t.Errorf("Status() = %d, want 400", err.Status())
	}
	if err.Message != "Empty or invalid input" {
		t.Errorf("Message = %q, want %q", err.Message, "Empty or invalid input")
	}
}

func TestNewInternal_DefaultMessage(t *testing.T) {
	err := NewInternal("", nil)

	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("drive: 503")
	err := NewRemoteBlob("Failed to load file", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("Entry not found")

	if !Is(err, KindNotFound) {
		t.Error("Is(err, KindNotFound) = false, want true")
	}
	if Is(err, KindValidation) {
		t.Error("Is(err, KindValidation) = true, want false")
	}

	wrapped := fmt.Errorf("delete: %w", err)
	if !Is(wrapped, KindNotFound) {
		t.Error("Is should see through wrapping")
	}

	if Is(fmt.Errorf("plain"), KindInternal) {
		t.Error("Is on a plain error should be false")
	}
}

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Error("From(nil) should be nil")
	}

	orig := NewValidation("bad")
	if From(fmt.Errorf("ctx: %w", orig)) != orig {
		t.Error("From should return the wrapped *Error")
	}

	plain := fmt.Errorf("boom")
	got := From(plain)
	if got.Kind != KindInternal {
		t.Errorf("Kind = %q, want %q", got.Kind, KindInternal)
	}
	if !stderrors.Is(got, plain) {
		t.Error("From should keep the foreign error as cause")
	}
}
