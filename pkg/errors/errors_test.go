package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		exposed   bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", exposed: true, detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required", exposed: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied", exposed: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", exposed: true, detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", exposed: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", exposed: true, detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded", exposed: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error"},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.ExposeMessage != tt.exposed {
			t.Fatalf("code %s expected expose message %v got %v", tt.code, tt.exposed, meta.ExposeMessage)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "CONFLICT: ctx: boom" {
		t.Fatalf("expected cause in error string, got %q", wrapped.Error())
	}

	formatted := Newf(CodeNotFound, "table %q not found", "widgets")
	if formatted.Message() != `table "widgets" not found` {
		t.Fatalf("unexpected formatted message %q", formatted.Message())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeForbidden, "no entry")
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	err := fmt.Errorf("redeem: %w", New(CodeStateConflict, "invite already used"))
	if !Is(err, CodeStateConflict) {
		t.Fatalf("expected state conflict in chain")
	}
	if Is(err, CodeNotFound) {
		t.Fatalf("did not expect not found code")
	}
	if Is(stdErrors.New("plain"), CodeInternal) {
		t.Fatalf("untyped errors carry no code")
	}
}

func TestLogFieldsWalksChain(t *testing.T) {
	cause := stdErrors.New("no such table: widgets")
	err := Wrap(CodeInternal, fmt.Errorf("list rows: %w", cause), "list records")

	fields := LogFields(err)
	if fields["error_code"] != CodeInternal {
		t.Fatalf("expected internal code, got %v", fields["error_code"])
	}
	chain, _ := fields["error_chain"].([]string)
	if len(chain) != 3 || chain[0] != "*errors.Error" {
		t.Fatalf("expected 3 chain entries led by the typed error, got %v", chain)
	}
	if fields["error_root"] != "no such table: widgets" {
		t.Fatalf("expected innermost cause, got %v", fields["error_root"])
	}
	if _, ok := fields["sqlite_code"]; ok {
		t.Fatal("expected no sqlite code for plain errors")
	}
	if len(LogFields(nil)) != 0 {
		t.Fatal("expected no fields for nil")
	}
}
