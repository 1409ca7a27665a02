// Package apperr defines the error taxonomy shared across credential,
// pipeline, registry, executor, platform, plugin and control-plane code. It
// exists so the control-plane gRPC facade can map any internal failure to a
// status code with one switch, instead of every caller re-deriving intent
// from an opaque error string.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of control-plane status mapping
// and retry policy. It is not a replacement for Go's error wrapping — Err()
// always unwraps to the underlying cause via errors.Is/As.
type Kind string

const (
	KindAuth                Kind = "auth"
	KindInvalidCredential   Kind = "invalid_credential_type"
	KindPlatform            Kind = "platform"
	KindConfig              Kind = "config"
	KindDecryption          Kind = "decryption"
	KindEncryption          Kind = "encryption"
	KindKeyDerivation       Kind = "key_derivation"
	KindRepository          Kind = "repository"
	KindTimeout             Kind = "timeout"
	KindUnauthorized        Kind = "unauthorized"
	KindNotFound            Kind = "not_found"
	KindInvalidInput        Kind = "invalid_input"
	KindInternal            Kind = "internal"
)

// Error is a structured, typed error carrying a Kind plus a human message and
// an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err if it (or something it wraps) is an
// *Error; otherwise returns KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
