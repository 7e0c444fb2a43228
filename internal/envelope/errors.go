// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package envelope implements the secure envelope subsystem: authenticated
// encryption of structured configurations behind a multi-recipient sealed
// keyring, bound to an on-chain asset through associated data.
package envelope

import "errors"

// Kind is the stable error taxonomy from the envelope engine's failure
// semantics. Names are advisory; callers should switch on Kind, not on the
// error string.
type Kind int

const (
	// KindInvalidParameter reports an input that failed a structural check
	// (malformed recipient id, malformed asset id, oversized payload).
	KindInvalidParameter Kind = iota + 1
	// KindKeyDerivationFailure reports that an Ed25519->X25519 conversion
	// rejected a recipient's key material.
	KindKeyDerivationFailure
	// KindEncryptionFailure reports that a primitive returned an error the
	// engine did not expect; treat the operation as fatally failed.
	KindEncryptionFailure
	// KindAuthenticationFailure reports that an AEAD or sealed-box tag did
	// not validate. The envelope or key material is corrupted or mismatched.
	KindAuthenticationFailure
	// KindNotAuthorized reports that the requested recipient identity has
	// no entry in the envelope's keyring.
	KindNotAuthorized
	// KindAssociatedDataMismatch reports that the envelope's associated
	// data does not match the caller's expected asset id.
	KindAssociatedDataMismatch
	// KindUnsupportedEnvelope reports a version or algorithm outside the
	// accepted set.
	KindUnsupportedEnvelope
	// KindInternalError reports any other unexpected condition, such as a
	// CSPRNG outage.
	KindInternalError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindKeyDerivationFailure:
		return "KeyDerivationFailure"
	case KindEncryptionFailure:
		return "EncryptionFailure"
	case KindAuthenticationFailure:
		return "AuthenticationFailure"
	case KindNotAuthorized:
		return "NotAuthorized"
	case KindAssociatedDataMismatch:
		return "AssociatedDataMismatch"
	case KindUnsupportedEnvelope:
		return "UnsupportedEnvelope"
	case KindInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// Error is the envelope subsystem's error type. Its message never includes
// plaintext, content-key material, or the identity of a specific keyring
// entry that failed to open.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, envelope.ErrNotAuthorized) ergonomically through the
// sentinel wrappers below.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

var (
	errBadKeySize          = errors.New("invalid key length")
	errBadNonceSize        = errors.New("invalid nonce length")
	errMissingBase64Prefix = errors.New(`expected "base64:" prefix`)
	errMissingField        = errors.New("missing mandatory envelope field")
	errDuplicateRecipient  = errors.New("duplicate recipient id")
	errEmptyRecipients     = errors.New("recipient set must not be empty")
	errPayloadTooLarge     = errors.New("payload exceeds maximum size")
)

// Sentinel instances for errors.Is comparisons, e.g.:
//
//	if errors.Is(err, envelope.ErrNotAuthorized) { ... }
var (
	ErrInvalidParameter       = &Error{Kind: KindInvalidParameter}
	ErrKeyDerivationFailure   = &Error{Kind: KindKeyDerivationFailure}
	ErrEncryptionFailure      = &Error{Kind: KindEncryptionFailure}
	ErrAuthenticationFailure  = &Error{Kind: KindAuthenticationFailure}
	ErrNotAuthorized          = &Error{Kind: KindNotAuthorized}
	ErrAssociatedDataMismatch = &Error{Kind: KindAssociatedDataMismatch}
	ErrUnsupportedEnvelope    = &Error{Kind: KindUnsupportedEnvelope}
	ErrInternalError          = &Error{Kind: KindInternalError}
)
