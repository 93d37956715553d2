package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrOverflow is returned when a variable-length integer exceeds 64 bits.
var ErrOverflow = errors.New("varint: overflow")

// Real representation type codes.
const (
	RealPositiveWhole      = 0
	RealNegativeWhole      = 1
	RealPositiveReciprocal = 2
	RealNegativeReciprocal = 3
	RealPositiveRatio      = 4
	RealNegativeRatio      = 5
	RealFloat32            = 6
	RealFloat64            = 7
)

// Reader wraps an io.ByteReader with position tracking and OASIS-specific
// read methods.
type Reader struct {
	r   io.ByteReader
	pos int64
}

// NewReader creates a new Reader wrapping the given io.ByteReader.
func NewReader(r io.ByteReader) *Reader {
	return &Reader{r: r}
}

// Position returns the current byte position.
func (r *Reader) Position() int64 {
	return r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, err
	}
	r.pos++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

// ReadUint reads an unsigned integer: 7 bits per byte, least significant
// first, high bit as continuation.
func (r *Reader) ReadUint() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift >= 63 && b > 1 {
			return 0, r.wrapError(ErrOverflow)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, r.wrapError(ErrOverflow)
		}
	}
}

// ReadInt reads a signed integer. The sign lives in the least significant
// bit of the unsigned encoding; the magnitude in the remaining bits.
func (r *Reader) ReadInt() (int64, error) {
	u, err := r.ReadUint()
	if err != nil {
		return 0, err
	}
	mag := int64(u >> 1)
	if u&1 != 0 {
		return -mag, nil
	}
	return mag, nil
}

// ReadReal reads a real number in any of the eight representations.
func (r *Reader) ReadReal() (float64, error) {
	form, err := r.ReadUint()
	if err != nil {
		return 0, err
	}
	switch form {
	case RealPositiveWhole, RealNegativeWhole:
		u, err := r.ReadUint()
		if err != nil {
			return 0, err
		}
		v := float64(u)
		if form == RealNegativeWhole {
			v = -v
		}
		return v, nil
	case RealPositiveReciprocal, RealNegativeReciprocal:
		u, err := r.ReadUint()
		if err != nil {
			return 0, err
		}
		if u == 0 {
			return 0, r.wrapError(errors.New("zero reciprocal"))
		}
		v := 1 / float64(u)
		if form == RealNegativeReciprocal {
			v = -v
		}
		return v, nil
	case RealPositiveRatio, RealNegativeRatio:
		num, err := r.ReadUint()
		if err != nil {
			return 0, err
		}
		den, err := r.ReadUint()
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, r.wrapError(errors.New("zero denominator"))
		}
		v := float64(num) / float64(den)
		if form == RealNegativeRatio {
			v = -v
		}
		return v, nil
	case RealFloat32:
		buf, err := r.ReadBytes(4)
		if err != nil {
			return 0, err
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
	case RealFloat64:
		buf, err := r.ReadBytes(8)
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
	default:
		return 0, r.wrapError(fmt.Errorf("unknown real type %d", form))
	}
}

// ReadString reads a length-prefixed byte string.
func (r *Reader) ReadString() (string, error) {
	length, err := r.ReadUint()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadGDelta reads a g-delta: either the one-integer octangular form or the
// two-integer general form.
func (r *Reader) ReadGDelta() (dx, dy int64, err error) {
	first, err := r.ReadUint()
	if err != nil {
		return 0, 0, err
	}
	if first&1 == 0 {
		mag := int64(first >> 4)
		switch (first >> 1) & 0x7 {
		case 0:
			return mag, 0, nil
		case 1:
			return 0, mag, nil
		case 2:
			return -mag, 0, nil
		case 3:
			return 0, -mag, nil
		case 4:
			return mag, mag, nil
		case 5:
			return -mag, mag, nil
		case 6:
			return -mag, -mag, nil
		default:
			return mag, -mag, nil
		}
	}
	dx = int64(first >> 2)
	if first&2 != 0 {
		dx = -dx
	}
	dy, err = r.ReadInt()
	if err != nil {
		return 0, 0, err
	}
	return dx, dy, nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
