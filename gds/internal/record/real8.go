package record

import (
	"math"

	"github.com/kinimod0/gOASper/errors"
)

// GDSII packed real: sign bit, excess-64 base-16 exponent, 56-bit mantissa.
// value = sign * mantissa/2^56 * 16^(exponent-64), normalized so the mantissa
// lies in [1/16, 1).

// DecodeReal8 converts an 8-byte packed real to float64.
func DecodeReal8(b []byte) float64 {
	exp := int(b[0]&0x7F) - 64
	var mant uint64
	for i := 1; i < 8; i++ {
		mant = mant<<8 | uint64(b[i])
	}
	if mant == 0 {
		return 0
	}
	v := math.Ldexp(float64(mant), 4*exp-56)
	if b[0]&0x80 != 0 {
		v = -v
	}
	return v
}

// EncodeReal8 converts a float64 to the packed representation, rounding to
// the format's 56-bit precision. Values whose base-16 exponent falls outside
// the excess-64 range are unencodable.
func EncodeReal8(v float64) ([8]byte, error) {
	var out [8]byte
	if v == 0 {
		return out, nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return out, errors.New(errors.PhaseEncode, errors.KindUnencodableValue).
			Value(v).
			Detail("non-finite real").
			Build()
	}

	neg := math.Signbit(v)
	a := math.Abs(v)

	_, e2 := math.Frexp(a)
	e16 := e2 / 4
	if e2 > 0 && e2%4 != 0 {
		e16++
	}

	mant := uint64(math.Round(math.Ldexp(a, 56-4*e16)))
	if mant >= 1<<56 {
		mant >>= 4
		e16++
	}

	exp := e16 + 64
	if exp < 0 || exp > 127 {
		return out, errors.New(errors.PhaseEncode, errors.KindUnencodableValue).
			Value(v).
			Detail("exponent outside excess-64 range").
			Build()
	}

	out[0] = byte(exp)
	if neg {
		out[0] |= 0x80
	}
	for i := 7; i >= 1; i-- {
		out[i] = byte(mant)
		mant >>= 8
	}
	return out, nil
}
