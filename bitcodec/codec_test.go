package bitcodec_test

import (
	"testing"

	"pixelcloak/bitcodec"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextToBitsKnownValue(t *testing.T) {
	// 'A' is U+0041, emitted big-endian over 16 bits.
	assert.Equal(t,
		[]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 1},
		bitcodec.TextToBits("A"))
}

func TestTextToBitsSurrogatePair(t *testing.T) {
	// U+1F389 sits outside the BMP and takes two code units.
	bits := bitcodec.TextToBits("🎉")
	assert.Len(t, bits, 32)
}

func TestRoundTrip(t *testing.T) {
	for _, msg := range []string{"A", "Hi", "héllo wörld", "日本語のテキスト", "mixed 密码 🎉 text"} {
		bits := bitcodec.TextToBits(msg)
		require.Zero(t, len(bits)%bitcodec.UnitBits, "message %q", msg)

		got, err := bitcodec.BitsToText(bits)
		require.NoError(t, err, "message %q", msg)
		assert.Equal(t, msg, got)
	}
}

func TestBitsToTextRejectsRaggedInput(t *testing.T) {
	_, err := bitcodec.BitsToText(nil)
	assert.Error(t, err)

	_, err = bitcodec.BitsToText(make([]byte, 15))
	assert.Error(t, err)

	_, err = bitcodec.BitsToText(make([]byte, 17))
	assert.Error(t, err)
}

func TestBuildPayload(t *testing.T) {
	payload, err := bitcodec.BuildPayload("Hi")
	require.NoError(t, err)
	require.Len(t, payload, bitcodec.HeaderBits+2*bitcodec.UnitBits)

	n, err := bitcodec.ParseLength(payload[:bitcodec.HeaderBits])
	require.NoError(t, err)
	assert.Equal(t, 32, n)

	msg, err := bitcodec.BitsToText(payload[bitcodec.HeaderBits:])
	require.NoError(t, err)
	assert.Equal(t, "Hi", msg)
}

func TestParseLengthBigEndian(t *testing.T) {
	header := make([]byte, bitcodec.HeaderBits)
	header[bitcodec.HeaderBits-1] = 1 // ...0001
	header[bitcodec.HeaderBits-6] = 1 // ...100001

	n, err := bitcodec.ParseLength(header)
	require.NoError(t, err)
	assert.Equal(t, 33, n)
}

func TestParseLengthWrongWidth(t *testing.T) {
	_, err := bitcodec.ParseLength(make([]byte, 16))
	assert.Error(t, err)

	_, err = bitcodec.ParseLength(make([]byte, 33))
	assert.Error(t, err)
}
