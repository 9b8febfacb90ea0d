// Package auth delegates sign-in and sign-up to an identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// User is an authenticated account.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	IDToken      string `json:"-"`
	RefreshToken string `json:"-"`
}

// Provider signs users in and registers new ones.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
}

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	KindInvalidPassword    ErrorKind = "INVALID_PASSWORD"
	KindEmailNotFound      ErrorKind = "EMAIL_NOT_FOUND"
	KindUserDisabled       ErrorKind = "USER_DISABLED"
	KindWeakPassword       ErrorKind = "WEAK_PASSWORD"
	KindEmailExists        ErrorKind = "EMAIL_EXISTS"
	KindInvalidEmail       ErrorKind = "INVALID_EMAIL"
	KindMissingCredentials ErrorKind = "MISSING_CREDENTIALS"
	KindOther              ErrorKind = "OTHER"
)

var messages = map[ErrorKind]string{
	KindInvalidPassword:    "Incorrect password. Please try again.",
	KindEmailNotFound:      "No account found with that email.",
	KindUserDisabled:       "This account has been disabled.",
	KindWeakPassword:       "Password should be at least 6 characters.",
	KindEmailExists:        "An account with that email already exists.",
	KindInvalidEmail:       "Please enter a valid email address.",
	KindMissingCredentials: "Email and password must not be empty.",
	KindOther:              "Something went wrong. Please try again.",
}

// Message returns the user-facing text for kind.
func Message(kind ErrorKind) string {
	if m, ok := messages[kind]; ok {
		return m
	}
	return messages[KindOther]
}

// Error is returned by every Provider. Op is "signin" or "signup".
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: [%s] %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Op, e.Kind, Message(e.Kind))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the user-facing text for the error.
func (e *Error) Message() string {
	return Message(e.Kind)
}

// KindOf returns the kind of err, or KindOther when err is not an *Error.
func KindOf(err error) ErrorKind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindOther
}

const (
	OpSignIn = "signin"
	OpSignUp = "signup"
)

// checkCredentials rejects blank input before any backend is called.
func checkCredentials(op, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return &Error{Kind: KindMissingCredentials, Op: op}
	}
	return nil
}
