package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer accumulates OASIS-encoded primitives into a buffer.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset discards all written data.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// Raw writes raw bytes without a length prefix.
func (w *Writer) Raw(data []byte) {
	w.buf.Write(data)
}

// Uint writes an unsigned integer: 7 bits per byte, least significant
// first, high bit as continuation.
func (w *Writer) Uint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return
		}
	}
}

// Int writes a signed integer with the sign in the least significant bit.
func (w *Writer) Int(v int64) {
	if v < 0 {
		w.Uint(uint64(-v)<<1 | 1)
	} else {
		w.Uint(uint64(v) << 1)
	}
}

// Real writes a real number, choosing the whole-number representations for
// integral values and the IEEE double representation otherwise.
func (w *Writer) Real(v float64) {
	if v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1<<63 {
		if v < 0 {
			w.Uint(RealNegativeWhole)
			w.Uint(uint64(-v))
		} else {
			w.Uint(RealPositiveWhole)
			w.Uint(uint64(v))
		}
		return
	}
	w.Uint(RealFloat64)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.buf.Write(buf[:])
}

// String writes a length-prefixed byte string.
func (w *Writer) String(s string) {
	w.Uint(uint64(len(s)))
	w.buf.WriteString(s)
}

// GDelta writes a g-delta, using the compact one-integer form for axis and
// diagonal displacements.
func (w *Writer) GDelta(dx, dy int64) {
	if dir, mag, ok := octangular(dx, dy); ok {
		w.Uint(mag<<4 | dir<<1)
		return
	}
	if dx < 0 {
		w.Uint(uint64(-dx)<<2 | 3)
	} else {
		w.Uint(uint64(dx)<<2 | 1)
	}
	w.Int(dy)
}

func octangular(dx, dy int64) (dir, mag uint64, ok bool) {
	switch {
	case dy == 0 && dx >= 0:
		return 0, uint64(dx), true
	case dx == 0 && dy > 0:
		return 1, uint64(dy), true
	case dy == 0 && dx < 0:
		return 2, uint64(-dx), true
	case dx == 0 && dy < 0:
		return 3, uint64(-dy), true
	case dx == dy && dx > 0:
		return 4, uint64(dx), true
	case -dx == dy && dy > 0:
		return 5, uint64(dy), true
	case dx == dy && dx < 0:
		return 6, uint64(-dx), true
	case dx == -dy && dx > 0:
		return 7, uint64(dx), true
	}
	return 0, 0, false
}
