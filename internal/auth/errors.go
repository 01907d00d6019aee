// ABOUTME: Authentication error codes and their user-facing messages.
// ABOUTME: Every auth failure is an *Error carrying a provider code and a sentinel.
package auth

import (
	"errors"
	"fmt"
)

// Code identifies an authentication failure.
type Code string

const (
	CodeEmailInUse            Code = "auth/email-already-in-use"
	CodeInvalidEmail          Code = "auth/invalid-email"
	CodeWeakPassword          Code = "auth/weak-password"
	CodeUserNotFound          Code = "auth/user-not-found"
	CodeWrongPassword         Code = "auth/wrong-password"
	CodeTooManyRequests       Code = "auth/too-many-requests"
	CodeNetworkRequestFailed  Code = "auth/network-request-failed"
	CodeConfigurationNotFound Code = "auth/configuration-not-found"
)

var (
	ErrEmailInUse            = errors.New("email already in use")
	ErrInvalidEmail          = errors.New("invalid email")
	ErrWeakPassword          = errors.New("weak password")
	ErrUserNotFound          = errors.New("user not found")
	ErrWrongPassword         = errors.New("wrong password")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrNetworkRequestFailed  = errors.New("network request failed")
	ErrConfigurationNotFound = errors.New("configuration not found")
)

var sentinels = map[Code]error{
	CodeEmailInUse:            ErrEmailInUse,
	CodeInvalidEmail:          ErrInvalidEmail,
	CodeWeakPassword:          ErrWeakPassword,
	CodeUserNotFound:          ErrUserNotFound,
	CodeWrongPassword:         ErrWrongPassword,
	CodeTooManyRequests:       ErrTooManyRequests,
	CodeNetworkRequestFailed:  ErrNetworkRequestFailed,
	CodeConfigurationNotFound: ErrConfigurationNotFound,
}

var messages = map[Code]string{
	CodeConfigurationNotFound: "Authentication is not configured. Set auth.google_client_id and auth.google_client_secret in the config file.",
	CodeEmailInUse:            "This email is already registered. Try signing in instead.",
	CodeInvalidEmail:          "Please enter a valid email address.",
	CodeWeakPassword:          "Password should be at least 6 characters.",
	CodeUserNotFound:          "No account found with this email. Please sign up first.",
	CodeWrongPassword:         "Incorrect password. Please try again.",
	CodeTooManyRequests:       "Too many failed attempts. Please try again later.",
	CodeNetworkRequestFailed:  "Network error. Please check your connection.",
}

// GenericMessage is shown for failures without a known code.
const GenericMessage = "An error occurred. Please try again."

// Error is an authentication failure with a provider code.
type Error struct {
	Code Code
	// Err is the underlying cause, if any, beyond the code's sentinel.
	Err error
}

func newError(code Code, cause error) *Error {
	return &Error{Code: code, Err: cause}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

// Unwrap exposes both the code's sentinel and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	var errs []error
	if s, ok := sentinels[e.Code]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// CodeOf returns the auth code carried by err, or "" if there is none.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Message maps err to a user-facing sentence.
func Message(err error) string {
	if msg, ok := messages[CodeOf(err)]; ok {
		return msg
	}
	return GenericMessage
}
