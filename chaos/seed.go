package chaos

import "unicode/utf16"

const (
	r      = 3.9
	burnIn = 100

	keyMult = 17
	keyMod  = 1000
)

// DeriveSeed maps a key to a logistic-map state in (0,1).
func DeriveSeed(key string) float64 {
	v := 0
	for _, cu := range utf16.Encode([]rune(key)) {
		v = ((v + int(cu)) * keyMult) % keyMod
	}

	x := float64(v) / keyMod
	if x <= 0 || x >= 1 {
		x = 0.5
	}

	for range burnIn {
		x = step(x)
	}
	return x
}

func step(x float64) float64 {
	x = r * x * (1 - x)
	// rounding at the boundary would otherwise stick the map at 0
	if x <= 0 || x >= 1 {
		x = 0.5
	}
	return x
}
