package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Encode tests ---

func TestEncode_Length(t *testing.T) {
	enc := Generate().PublicKey().Encode()
	assert.Len(t, enc, EncodedLen)
}

func TestEncode_Alphabet(t *testing.T) {
	enc := Generate().PublicKey().Encode()
	for _, r := range enc {
		assert.Contains(t, zbase32Alphabet, string(r))
	}
}

func TestEncode_ZeroKeyVector(t *testing.T) {
	// The all-zero key is a valid point encoding (y = 0) and maps every
	// 5-bit group to the first alphabet character.
	pub, err := FromBytes([PublicKeySize]byte{})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("y", EncodedLen), pub.Encode())
}

func TestString_MatchesEncode(t *testing.T) {
	pub := Generate().PublicKey()
	assert.Equal(t, pub.Encode(), pub.String())
}

// --- Decode tests ---

func TestDecode_RoundTrip(t *testing.T) {
	for i := 0; i < 16; i++ {
		pub := Generate().PublicKey()

		decoded, err := Decode(pub.Encode())
		require.NoError(t, err)
		assert.Equal(t, pub, decoded)
	}
}

func TestDecode_Rejects(t *testing.T) {
	valid := Generate().PublicKey().Encode()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad_char_l", strings.Repeat("l", EncodedLen)},
		{"bad_char_v", valid[:EncodedLen-1] + "v"},
		{"bad_char_0", valid[:EncodedLen-1] + "0"},
		{"bad_char_2", valid[:EncodedLen-1] + "2"},
		{"uppercase", strings.ToUpper(valid)},
		{"too_short", strings.Repeat("y", 50)},
		{"too_long", strings.Repeat("y", 56)},
		{"truncated", valid[:EncodedLen-4]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.input)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecode_InvalidPoint(t *testing.T) {
	// Encode 32 bytes of 0xFF directly; the text is well-formed z-base-32
	// but the decoded bytes are not a canonical point encoding.
	var raw PublicKey
	for i := range raw {
		raw[i] = 0xFF
	}

	_, err := Decode(raw.Encode())
	assert.ErrorIs(t, err, ErrDecode)
}
