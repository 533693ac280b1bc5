package validation

import (
	"testing"

	apperrors "github.com/skillsenselab/prodman/internal/errors"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"max=100"`
}

func TestStructValid(t *testing.T) {
	in := registerInput{Email: "a@example.com", Password: "longenough", Name: "Ada"}
	if err := Struct(in); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestStructInvalid(t *testing.T) {
	in := registerInput{Email: "not-an-email", Password: "short"}
	err := Struct(in)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.ErrCodeInvalidInput, err.Code)
	}
	if _, ok := err.Details["email"]; !ok {
		t.Errorf("expected detail for 'email' field, got %v", err.Details)
	}
	if _, ok := err.Details["password"]; !ok {
		t.Errorf("expected detail for 'password' field, got %v", err.Details)
	}
}

func TestFieldNamesFromJSONTags(t *testing.T) {
	type input struct {
		UserEmail string `json:"user_email" validate:"required"`
	}
	err := Struct(input{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := err.Details["user_email"]; !ok {
		t.Errorf("expected json tag name 'user_email' in details, got %v", err.Details)
	}
}
