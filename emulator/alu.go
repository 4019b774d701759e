package emulator

import (
	"math"
)

// Isqrt returns floor(sqrt(|v|)).
func Isqrt(v int64) int64 {
	var u uint64
	if v < 0 {
		u = uint64(-(v + 1)) + 1
	} else {
		u = uint64(v)
	}

	r := uint64(math.Sqrt(float64(u)))

	// float64 rounding may be off by one either way.
	for r > 0 && r > u/r {
		r--
	}
	for r+1 <= u/(r+1) {
		r++
	}

	return int64(r)
}
