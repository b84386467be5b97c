package msgcrypt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := New("test-secret")

	cases := []string{
		"hello",
		"",
		"exactly sixteen!",  // one full block, forces a whole padding block
		"héllo wörld 💬 末端", // multi-byte runes
		strings.Repeat("x", 4096),
	}

	for _, plain := range cases {
		encoded, err := codec.Encode(plain)
		require.NoError(t, err)
		assert.Contains(t, encoded, ":")

		decoded, err := codec.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, plain, decoded)
	}
}

func TestEncodeFreshIVPerCall(t *testing.T) {
	codec := New("test-secret")

	first, err := codec.Encode("same content")
	require.NoError(t, err)
	second, err := codec.Encode("same content")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	// Both still decode to the same plaintext.
	d1, err := codec.Decode(first)
	require.NoError(t, err)
	d2, err := codec.Decode(second)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestKeyDerivation(t *testing.T) {
	// Short secrets are zero-padded, long ones truncated at 32 bytes.
	short := New("s")
	long := New(strings.Repeat("a", 32) + "ignored-tail")
	sameAsLong := New(strings.Repeat("a", 32))

	encoded, err := long.Encode("payload")
	require.NoError(t, err)

	decoded, err := sameAsLong.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "payload", decoded)

	// A different key fails to unpad (or produces garbage, never the input).
	wrong, err := short.Decode(encoded)
	if err == nil {
		assert.NotEqual(t, "payload", wrong)
	}
}

func TestDecodeMalformed(t *testing.T) {
	codec := New("test-secret")

	cases := []string{
		"",
		"no separator here",
		"nothex:00112233445566778899aabbccddeeff",
		"00112233445566778899aabbccddeeff:nothex",
		"0011:00112233445566778899aabbccddeeff",                 // short IV
		"00112233445566778899aabbccddeeff:",                     // empty ciphertext
		"00112233445566778899aabbccddeeff:0011223344",           // partial block
		strings.Repeat("0", 34) + ":" + strings.Repeat("0", 32), // IV too long
	}

	for _, encoded := range cases {
		_, err := codec.Decode(encoded)
		assert.Error(t, err, "expected error for %q", encoded)
	}
}

func TestDecodeBadPadding(t *testing.T) {
	codec := New("test-secret")

	encoded, err := codec.Encode("tamper target")
	require.NoError(t, err)

	// Flip the last ciphertext byte; the padding check must reject it.
	tampered := []byte(encoded)
	last := tampered[len(tampered)-1]
	if last == 'f' {
		tampered[len(tampered)-1] = '0'
	} else {
		tampered[len(tampered)-1] = 'f'
	}

	decoded, err := codec.Decode(string(tampered))
	if err == nil {
		// 1-in-16ish chance the tampered padding is still well-formed; at
		// minimum the plaintext cannot survive.
		assert.NotEqual(t, "tamper target", decoded)
	}
}
