package handler

import (
	"errors"
	"strings"
	"testing"

	"github.com/challengehub/challenge-api/internal/core/domain"
)

func TestValidator_UsesJSONNames(t *testing.T) {
	err := NewValidator().Validate(&submitRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "challenge_id is required") || !strings.Contains(msg, "submission_text is required") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestValidator_Passes(t *testing.T) {
	if err := NewValidator().Validate(&loginRequest{Identifier: "alice"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
