package handler

import (
	"errors"
	"testing"
)

func TestValidator_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{Email: "bad"})
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	want := map[string]string{
		"name":     "Field is required",
		"email":    "Must be a valid email",
		"password": "Field is required",
	}
	for k, msg := range want {
		if fe[k] != msg {
			t.Errorf("%s: got %q, want %q", k, fe[k], msg)
		}
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&registerRequest{Name: "A", Email: "a@x.com", Password: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	fe := FieldErrors{"password": "b", "email": "a"}
	if got := fe.Error(); got != "email: a; password: b" {
		t.Fatalf("Error() = %q", got)
	}
}
