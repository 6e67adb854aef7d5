package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestSignupValidation(t *testing.T) {
	valid := SignupForm{
		Username:        "jane_voter",
		Email:           "jane@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AgreeToTerms:    true,
	}

	tests := []struct {
		name    string
		mutate  func(*SignupForm)
		field   string
		message string
	}{
		{"missing username", func(f *SignupForm) { f.Username = "  " }, "username", "Username is required"},
		{"missing email", func(f *SignupForm) { f.Email = "" }, "email", "Email is required"},
		{"missing password", func(f *SignupForm) { f.Password = "" }, "password", "Password is required"},
		{"password mismatch", func(f *SignupForm) { f.ConfirmPassword = "other" }, "confirmPassword", "Passwords do not match"},
		{"terms not accepted", func(f *SignupForm) { f.AgreeToTerms = false }, "agreeToTerms", "You must agree to the terms and conditions"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := NewMockGateway()
			flow := NewSignupFlow(gw)

			form := valid
			tc.mutate(&form)

			_, err := flow.Submit(context.Background(), form)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if validation.Field != tc.field {
				t.Fatalf("field = %q, want %q", validation.Field, tc.field)
			}
			if validation.Message != tc.message {
				t.Fatalf("message = %q, want %q", validation.Message, tc.message)
			}
			if gw.SignupCalls != 0 {
				t.Fatalf("validation failure must not reach the backend")
			}
		})
	}
}

func TestSignupSubmitRedirectsToLogin(t *testing.T) {
	gw := NewMockGateway()
	flow := NewSignupFlow(gw)

	result, err := flow.Submit(context.Background(), SignupForm{
		Username:        " jane_voter ",
		Email:           "jane@example.com",
		Phone:           "555-0101",
		Address:         "12 Main St",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AgreeToTerms:    true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.RedirectTo != LoginPath {
		t.Fatalf("redirect = %q, want %q", result.RedirectTo, LoginPath)
	}
	if result.Notice == "" {
		t.Fatalf("expected a pending-approval notice")
	}
	if gw.SignupCalls != 1 {
		t.Fatalf("expected one backend call, got %d", gw.SignupCalls)
	}
}

func TestSignupSubmitSurfacesBackendRejection(t *testing.T) {
	gw := NewMockGateway()
	gw.SignupErr = &RejectedError{StatusCode: http.StatusConflict, Message: "username already exists"}
	flow := NewSignupFlow(gw)

	_, err := flow.Submit(context.Background(), SignupForm{
		Username:        "taken",
		Email:           "taken@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		AgreeToTerms:    true,
	})

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected *RejectedError, got %v", err)
	}
	if rejected.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rejected.StatusCode, http.StatusConflict)
	}
}
