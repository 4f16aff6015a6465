// Package identity implements the Ed25519 identity layer: keypair
// generation, the PublicKey value type, and signature creation and
// verification. Public keys travel on the wire as their z-base-32 text
// encoding (see encode.go).
package identity

import (
	"crypto/ed25519"
	"crypto/rand"

	"filippo.io/edwards25519"
)

const (
	// PublicKeySize is the length of an Ed25519 verification key.
	PublicKeySize = 32

	// SignatureSize is the length of an Ed25519 signature.
	SignatureSize = 64
)

// Keypair is an Ed25519 signing keypair. The private half never leaves
// the owning process; only the derived PublicKey crosses the storage
// boundary.
type Keypair struct {
	priv ed25519.PrivateKey
}

// Generate creates a new keypair from the system random source. A failing
// random source is unrecoverable, so Generate panics rather than
// returning an error.
func Generate() Keypair {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic("identity: system random source failed: " + err.Error())
	}
	return Keypair{priv: priv}
}

// PublicKey returns the verification half of the keypair.
func (k Keypair) PublicKey() PublicKey {
	var pub PublicKey
	copy(pub[:], k.priv.Public().(ed25519.PublicKey))
	return pub
}

// Sign signs message with the private half. Ed25519 signing is
// deterministic: the same keypair and message always produce the same
// signature.
func (k Keypair) Sign(message []byte) Signature {
	var sig Signature
	copy(sig[:], ed25519.Sign(k.priv, message))
	return sig
}

// PublicKey is an Ed25519 verification key. It is an immutable value
// type: equality, map keys, and byte ordering are all defined over the
// raw 32 bytes. Every PublicKey in existence is a valid curve point;
// FromBytes and Decode are the only fallible constructors.
type PublicKey [PublicKeySize]byte

// Signature is a detached Ed25519 signature.
type Signature [SignatureSize]byte

// FromBytes constructs a PublicKey from raw bytes. It returns
// ErrInvalidPublicKey when the bytes are not a canonical encoding of a
// curve point.
func FromBytes(b [PublicKeySize]byte) (PublicKey, error) {
	if _, err := new(edwards25519.Point).SetBytes(b[:]); err != nil {
		return PublicKey{}, ErrInvalidPublicKey
	}
	return PublicKey(b), nil
}

// Bytes returns the raw key bytes.
func (p PublicKey) Bytes() [PublicKeySize]byte { return p }

// Verify checks sig over message. It returns ErrInvalidSignature for any
// failure; a malformed signature and a valid signature by another key are
// deliberately indistinguishable to the caller.
func (p PublicKey) Verify(message []byte, sig Signature) error {
	if !ed25519.Verify(ed25519.PublicKey(p[:]), message, sig[:]) {
		return ErrInvalidSignature
	}
	return nil
}

// String implements fmt.Stringer using the z-base-32 encoding.
func (p PublicKey) String() string { return p.Encode() }
