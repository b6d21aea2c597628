package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeExtractor(t *testing.T) {
	err := New(CodeInsufficientFunds, "no funds")
	if Code(err) != CodeInsufficientFunds {
		t.Fatalf("got %q; want %q", Code(err), CodeInsufficientFunds)
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if Code(wrapped) != CodeInsufficientFunds {
		t.Fatalf("wrapped: got %q; want %q", Code(wrapped), CodeInsufficientFunds)
	}

	if Code(errors.New("plain")) != ErrCode("") {
		t.Fatal("plain error should have empty code")
	}
	if Code(nil) != ErrCode("") {
		t.Fatal("nil error should have empty code")
	}
}
