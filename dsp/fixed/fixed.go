// Package fixed provides Q15 fixed-point arithmetic for the effect pipeline.
//
// A Q15 value is a signed 16-bit integer representing [-1, 1) with 15
// fractional bits. Transport sample cells are 32-bit; the working value
// occupies the most-significant 16 bits, the low bits are format padding.
package fixed

const (
	// MaxQ15 is the largest representable Q15 value (just below +1.0).
	MaxQ15 = 32767
	// MinQ15 is the smallest representable Q15 value (-1.0).
	MinQ15 = -32768

	cellShift = 16
)

// Sat16 saturates a 32-bit intermediate to the signed 16-bit range.
func Sat16(x int32) int16 {
	if x > MaxQ15 {
		return MaxQ15
	}
	if x < MinQ15 {
		return MinQ15
	}
	return int16(x)
}

// Mul multiplies two Q15 values, producing a saturated Q15 result.
func Mul(a, b int16) int16 {
	return Sat16(int32(a) * int32(b) >> 15)
}

// SatAdd adds two Q15 values with saturation instead of wraparound.
func SatAdd(a, b int16) int16 {
	return Sat16(int32(a) + int32(b))
}

// FromCell extracts the Q15 working value from a transport sample cell.
func FromCell(cell int32) int16 {
	return Sat16(cell >> cellShift)
}

// ToCell widens a Q15 value back to a transport sample cell.
func ToCell(q int16) int32 {
	return int32(q) << cellShift
}

// Coeff converts a float coefficient in (-1, 1) to Q15 with rounding.
// Values outside the representable range saturate.
func Coeff(x float64) int16 {
	scaled := x * 32767
	if scaled >= 0 {
		scaled += 0.5
	} else {
		scaled -= 0.5
	}
	if scaled > MaxQ15 {
		return MaxQ15
	}
	if scaled < MinQ15 {
		return MinQ15
	}
	return int16(scaled)
}

// CoeffQ12 converts a float gain in (-8, 8) to Q12, saturating.
// Q12 trades three fractional bits for integer headroom, for gains above
// unity such as a master output stage.
func CoeffQ12(x float64) int16 {
	scaled := x * 4096
	if scaled >= 0 {
		scaled += 0.5
	} else {
		scaled -= 0.5
	}
	if scaled > MaxQ15 {
		return MaxQ15
	}
	if scaled < MinQ15 {
		return MinQ15
	}
	return int16(scaled)
}

// MulQ12 multiplies a Q15 value by a Q12 gain, producing a saturated Q15
// result.
func MulQ12(a, gain int16) int16 {
	return Sat16(int32(a) * int32(gain) >> 12)
}

// FromFloat converts a float sample in [-1, 1] to Q15, saturating.
func FromFloat(x float64) int16 {
	return Coeff(x)
}

// ToFloat converts a Q15 value to a float sample in [-1, 1).
func ToFloat(q int16) float64 {
	return float64(q) / 32768
}
