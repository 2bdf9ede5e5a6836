// Package opc implements the OaldresPuzzle-Cryptic block cipher family:
// the 128-bit "OPC" main cipher and its 64-bit reduced sibling, Little-OPC.
//
// Every EncryptWith*/DecryptWith* call permanently mutates the instance's
// internal key schedule. Two such calls against the same instance, even with
// identical input, do not invert one another; round-tripping requires a
// fresh instance built from the same Config, or a Reset in between. Encrypt
// and Decrypt reset the instance before returning.
package opc

import "github.com/pkg/errors"

// Kind classifies the error taxonomy surfaced at the package boundary.
type Kind int

const (
	// KindConfigInvalid means a Config invariant was violated at construction.
	KindConfigInvalid Kind = iota
	// KindSizeMismatch means a key or data buffer did not satisfy a required block alignment.
	KindSizeMismatch
	// KindStateCorruption means a diagnostic zero-wipe verification failed
	// or the internal key derivation failed.
	KindStateCorruption
	// KindPaddingInvalid means decrypted padding could not be removed safely.
	KindPaddingInvalid
)

func (k Kind) String() string {
	switch k {
	case KindConfigInvalid:
		return "ConfigInvalid"
	case KindSizeMismatch:
		return "SizeMismatch"
	case KindStateCorruption:
		return "StateCorruption"
	case KindPaddingInvalid:
		return "PaddingInvalid"
	default:
		return "Unknown"
	}
}

// Error is the structured error type surfaced at every public call boundary.
// Nothing is retried internally; callers must discard the cipher instance
// on any error.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.msg
}

func newError(kind Kind, msg string) error {
	return errors.WithStack(&Error{Kind: kind, msg: msg})
}

// IsKind reports whether err carries the given Kind, unwrapping github.com/pkg/errors
// stack annotations along the way.
func IsKind(err error, kind Kind) bool {
	type causer interface{ Cause() error }
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}
