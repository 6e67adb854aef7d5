package client

import (
	"context"
	"strings"
)

// SignupForm holds the raw registration form values, including the fields
// that never leave the client (confirmation, terms checkbox).
type SignupForm struct {
	Username        string
	Email           string
	Phone           string
	Address         string
	Password        string
	ConfirmPassword string
	AgreeToTerms    bool
}

// SignupResult tells the view where to go after a successful registration.
type SignupResult struct {
	RedirectTo string
	Notice     string
}

// SignupFlow validates the form locally and only then calls the backend.
// A *ValidationError means no network call was made.
type SignupFlow struct {
	gateway Gateway
}

func NewSignupFlow(gateway Gateway) *SignupFlow {
	return &SignupFlow{gateway: gateway}
}

// Validate checks the form without touching the network.
func (f *SignupFlow) Validate(form SignupForm) error {
	if strings.TrimSpace(form.Username) == "" {
		return &ValidationError{Field: "username", Message: "Username is required"}
	}
	if strings.TrimSpace(form.Email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	if form.Password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if form.Password != form.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if !form.AgreeToTerms {
		return &ValidationError{Field: "agreeToTerms", Message: "You must agree to the terms and conditions"}
	}
	return nil
}

// Submit validates and registers. On success the caller is redirected to the
// login view with a pending-approval notice; the new account holds no
// session until it is approved and logs in.
func (f *SignupFlow) Submit(ctx context.Context, form SignupForm) (SignupResult, error) {
	if err := f.Validate(form); err != nil {
		return SignupResult{}, err
	}

	data := SignupData{
		Username: strings.TrimSpace(form.Username),
		Email:    strings.TrimSpace(form.Email),
		Phone:    strings.TrimSpace(form.Phone),
		Address:  strings.TrimSpace(form.Address),
		Password: form.Password,
	}
	if _, err := f.gateway.Signup(ctx, data); err != nil {
		return SignupResult{}, err
	}

	return SignupResult{
		RedirectTo: LoginPath,
		Notice:     "Registration successful! Please wait for admin approval.",
	}, nil
}
