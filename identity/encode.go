package identity

import (
	"encoding/base32"
	"fmt"
)

// zbase32Alphabet is the z-base-32 character set. The bit packing is
// conventional RFC 4648; only the alphabet differs. Encoded keys are a
// wire contract shared with existing deployments, so the alphabet and the
// no-padding rule must not change.
const zbase32Alphabet = "ybndrfg8ejkmcpqxot1uwisza345h769"

// EncodedLen is the text length of an encoded public key: 32 bytes at
// 5 bits per character, rounded up.
const EncodedLen = 52

var zbase32 = base32.NewEncoding(zbase32Alphabet).WithPadding(base32.NoPadding)

// Encode returns the z-base-32 text form of the key, always EncodedLen
// lowercase characters.
func (p PublicKey) Encode() string {
	return zbase32.EncodeToString(p[:])
}

// Decode parses a z-base-32 encoded public key. It returns ErrDecode when
// s contains characters outside the alphabet, when the decoded material
// is not exactly PublicKeySize bytes, or when those bytes are not a valid
// verification key.
func Decode(s string) (PublicKey, error) {
	raw, err := zbase32.DecodeString(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(raw) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: decoded %d bytes, want %d",
			ErrDecode, len(raw), PublicKeySize)
	}

	var b [PublicKeySize]byte
	copy(b[:], raw)
	pub, err := FromBytes(b)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return pub, nil
}
