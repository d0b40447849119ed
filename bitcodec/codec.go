package bitcodec

import (
	"fmt"
	"math"
	"unicode/utf16"
)

// Wire layout: a HeaderBits-wide big-endian count of payload bits,
// then UnitBits per UTF-16 code unit, most significant bit first.
const (
	UnitBits   = 16
	HeaderBits = 32
)

func TextToBits(msg string) []byte {
	units := utf16.Encode([]rune(msg))
	bits := make([]byte, 0, len(units)*UnitBits)
	for _, cu := range units {
		for i := UnitBits - 1; i >= 0; i-- {
			bits = append(bits, byte(cu>>i)&1)
		}
	}
	return bits
}

func BitsToText(bits []byte) (string, error) {
	if len(bits) == 0 || len(bits)%UnitBits != 0 {
		return "", fmt.Errorf("bit count %d is not a positive multiple of %d", len(bits), UnitBits)
	}

	units := make([]uint16, 0, len(bits)/UnitBits)
	for i := 0; i < len(bits); i += UnitBits {
		var cu uint16
		for _, b := range bits[i : i+UnitBits] {
			cu = cu<<1 | uint16(b&1)
		}
		units = append(units, cu)
	}
	return string(utf16.Decode(units)), nil
}

func BuildPayload(msg string) ([]byte, error) {
	body := TextToBits(msg)
	if uint64(len(body)) > math.MaxUint32 {
		return nil, fmt.Errorf("message needs %d bits, more than the header can count", len(body))
	}

	n := uint32(len(body))
	payload := make([]byte, 0, HeaderBits+len(body))
	for i := HeaderBits - 1; i >= 0; i-- {
		payload = append(payload, byte(n>>i)&1)
	}
	return append(payload, body...), nil
}

func ParseLength(header []byte) (int, error) {
	if len(header) != HeaderBits {
		return 0, fmt.Errorf("header is %d bits, want %d", len(header), HeaderBits)
	}

	var n uint32
	for _, b := range header {
		n = n<<1 | uint32(b&1)
	}
	return int(n), nil
}
