package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsFindsWrappedError(t *testing.T) {
	base := New(CodeConfiguration, "unit missing").With("attribute_id", int64(7))
	wrapped := fmt.Errorf("price item 0: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatalf("expected typed error in chain")
	}
	if typed.Code() != CodeConfiguration {
		t.Fatalf("code=%s, want %s", typed.Code(), CodeConfiguration)
	}
	if typed.Details()["attribute_id"] != int64(7) {
		t.Fatalf("details=%v, want attribute_id=7", typed.Details())
	}
	if !Is(wrapped, CodeConfiguration) || Is(wrapped, CodeValidation) {
		t.Fatalf("Is reported wrong code for %v", wrapped)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeDependency, cause, "save quotation")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable via errors.Is")
	}
	if got, want := err.Error(), "DEPENDENCY_ERROR: save quotation: disk full"; got != want {
		t.Fatalf("Error()=%q, want %q", got, want)
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	if got := MetadataFor(Code("NOPE")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("status=%d, want %d", got, http.StatusInternalServerError)
	}
	if got := MetadataFor(CodeConfiguration).HTTPStatus; got != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want %d", got, http.StatusUnprocessableEntity)
	}
}

func TestNilErrorIsSafe(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal || e.Message() != "" || e.Details() != nil || e.Unwrap() != nil {
		t.Fatalf("nil *Error accessors should return zero values")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should be nil")
	}
}
