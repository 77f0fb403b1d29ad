package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeDocumentNotFound, "document not found")
	want := "[DOC_001] document not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	withDetail := err.WithDetail("id=7f3a12bc")
	want = "[DOC_001] document not found: id=7f3a12bc"
	if withDetail.Error() != want {
		t.Errorf("Error() = %q, want %q", withDetail.Error(), want)
	}
	// Original is unchanged.
	if err.Detail != "" {
		t.Errorf("WithDetail mutated the receiver: %q", err.Detail)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	base := stderrors.New("connection refused")
	wrapped := Wrap(base, ErrCodeDatabaseError, "failed to load document")

	if !stderrors.Is(wrapped, base) {
		t.Error("errors.Is failed to find the base error in the chain")
	}
	if wrapped.Code != ErrCodeDatabaseError {
		t.Errorf("Code = %s, want %s", wrapped.Code, ErrCodeDatabaseError)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, ErrCodeInternal, "whatever"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrapUnknownPreservesOriginalCode(t *testing.T) {
	inner := New(ErrCodeSectionNotFound, "no termination provision")
	outer := Wrap(fmt.Errorf("service: %w", inner), ErrCodeUnknown, "analysis failed")
	if outer.Code != ErrCodeSectionNotFound {
		t.Errorf("Code = %s, want %s", outer.Code, ErrCodeSectionNotFound)
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeVectorStoreFailed, "milvus unreachable"))
	if !IsCode(err, ErrCodeVectorStoreFailed) {
		t.Error("IsCode should traverse wrapped chains")
	}
	if IsCode(err, ErrCodeCacheError) {
		t.Error("IsCode matched an unrelated code")
	}
	if IsCode(nil, ErrCodeInternal) {
		t.Error("IsCode(nil) should be false")
	}
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"document not found", New(ErrCodeDocumentNotFound, "x"), true},
		{"section not found", New(ErrCodeSectionNotFound, "x"), true},
		{"provision not found", New(ErrCodeProvisionNotFound, "x"), true},
		{"generic not found", NotFound("x"), true},
		{"internal", Internal("x"), false},
		{"plain error", stderrors.New("x"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotFound(tc.err); got != tc.want {
				t.Errorf("IsNotFound = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(nil); got != ErrCodeOK {
		t.Errorf("GetCode(nil) = %s, want %s", got, ErrCodeOK)
	}
	if got := GetCode(stderrors.New("plain")); got != ErrCodeUnknown {
		t.Errorf("GetCode(plain) = %s, want %s", got, ErrCodeUnknown)
	}
	if got := GetCode(New(ErrCodeLLMRequestFailed, "x")); got != ErrCodeLLMRequestFailed {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeLLMRequestFailed)
	}
}

func TestHTTPStatus(t *testing.T) {
	if got := ErrCodeDocumentNotFound.HTTPStatus(); got != 404 {
		t.Errorf("HTTPStatus = %d, want 404", got)
	}
	if got := ErrCodeAnalysisFailed.HTTPStatus(); got != 500 {
		t.Errorf("HTTPStatus fallback = %d, want 500", got)
	}
	if got := ErrCodeDocumentTooLarge.HTTPStatus(); got != 413 {
		t.Errorf("HTTPStatus = %d, want 413", got)
	}
}

func TestStackCaptured(t *testing.T) {
	err := New(ErrCodeInternal, "boom")
	if err.Stack == "" {
		t.Error("expected a captured stack")
	}
}
