package identity

import "errors"

var (
	// ErrInvalidPublicKey indicates raw bytes that do not form a valid
	// Ed25519 verification key.
	ErrInvalidPublicKey = errors.New("identity: invalid public key")

	// ErrDecode indicates text that is not a well-formed encoded public key.
	ErrDecode = errors.New("identity: invalid encoded public key")

	// ErrInvalidSignature indicates a signature that does not verify
	// against the given message and key.
	ErrInvalidSignature = errors.New("identity: invalid signature")
)
