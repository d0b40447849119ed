package stego

import (
	"errors"
	"fmt"

	"pixelcloak/bitcodec"
	"pixelcloak/chaos"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrCapacity     = errors.New("message does not fit in image")
	// ErrNoMessage is the routine outcome of a wrong key or an image
	// that carries nothing, not an exceptional failure.
	ErrNoMessage = errors.New("no valid hidden message found")
)

// Encode hides message in a copy of buf; the input is never mutated.
func Encode(buf *PixelBuffer, message, key string) (*PixelBuffer, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidInput)
	}
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}
	if !buf.valid() {
		return nil, fmt.Errorf("%w: %dx%d buffer with %d bytes", ErrInvalidInput, buf.Width, buf.Height, len(buf.Pix))
	}

	payload, err := bitcodec.BuildPayload(message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(payload) > buf.Capacity() {
		return nil, fmt.Errorf("%w: need %d bits, image holds %d", ErrCapacity, len(payload), buf.Capacity())
	}

	// One draw for header and body together keeps uniqueness across the
	// whole payload.
	seq := chaos.NewSequencer(chaos.DeriveSeed(key), buf.Width, buf.Height)
	locs, err := seq.Locations(len(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapacity, err)
	}

	out := buf.Clone()
	for i, loc := range locs {
		out.setLSB(loc, payload[i])
	}
	return out, nil
}

// Decode recovers the message hidden in buf with key.
func Decode(buf *PixelBuffer, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidInput)
	}
	if !buf.valid() {
		return "", fmt.Errorf("%w: %dx%d buffer with %d bytes", ErrInvalidInput, buf.Width, buf.Height, len(buf.Pix))
	}

	seq := chaos.NewSequencer(chaos.DeriveSeed(key), buf.Width, buf.Height)
	headerLocs, err := seq.Locations(bitcodec.HeaderBits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoMessage, err)
	}

	header := make([]byte, 0, bitcodec.HeaderBits)
	for _, loc := range headerLocs {
		header = append(header, buf.lsb(loc))
	}

	n, err := bitcodec.ParseLength(header)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoMessage, err)
	}
	switch {
	case n < 1 || n > buf.Capacity():
		return "", fmt.Errorf("%w: implausible payload length %d", ErrNoMessage, n)
	case n%bitcodec.UnitBits != 0:
		return "", fmt.Errorf("%w: payload length %d is not whole characters", ErrNoMessage, n)
	case bitcodec.HeaderBits+n > buf.Capacity():
		return "", fmt.Errorf("%w: payload length %d overruns the image", ErrNoMessage, n)
	}

	// Continuing the same sequencer keeps body locations distinct from
	// the header's, matching Encode's single draw.
	bodyLocs, err := seq.Locations(n)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoMessage, err)
	}

	bits := make([]byte, 0, n)
	for _, loc := range bodyLocs {
		bits = append(bits, buf.lsb(loc))
	}

	msg, err := bitcodec.BitsToText(bits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoMessage, err)
	}
	return msg, nil
}
