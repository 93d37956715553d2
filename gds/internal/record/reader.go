package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/kinimod0/gOASper/errors"
)

// Record is one tagged, length-prefixed GDSII record.
type Record struct {
	Type    byte
	Data    byte
	Payload []byte
	Offset  int64 // byte offset of the record header in the stream
}

// Reader streams records from a GDSII byte stream with position tracking.
type Reader struct {
	r   io.Reader
	off int64
}

// NewReader creates a Reader over the given stream.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Offset returns the current byte position.
func (r *Reader) Offset() int64 {
	return r.off
}

// Next reads the next record. A clean end of stream returns io.EOF; a stream
// that ends inside a record header or payload returns a truncated-stream
// error. Declared lengths below the 4-byte header size or odd lengths are
// invalid-record-length errors.
func (r *Reader) Next() (Record, error) {
	start := r.off

	var hdr [4]byte
	n, err := io.ReadFull(r.r, hdr[:])
	if err == io.EOF && n == 0 {
		return Record{}, io.EOF
	}
	if err != nil {
		return Record{}, errors.Truncated(start, 4, n)
	}
	r.off += 4

	length := int(binary.BigEndian.Uint16(hdr[:2]))
	if length < 4 || length%2 != 0 {
		return Record{}, errors.InvalidLength(start, length)
	}

	rec := Record{
		Type:   hdr[2],
		Data:   hdr[3],
		Offset: start,
	}

	payload := length - 4
	if payload > 0 {
		rec.Payload = make([]byte, payload)
		n, err := io.ReadFull(r.r, rec.Payload)
		if err != nil {
			return Record{}, errors.Truncated(start, payload, n)
		}
		r.off += int64(n)
	}
	return rec, nil
}

// Name returns the record type mnemonic.
func (rec Record) Name() string {
	return TypeName(rec.Type)
}

// Int2 decodes the payload as a single big-endian 16-bit signed integer.
func (rec Record) Int2() (int16, error) {
	if len(rec.Payload) < 2 {
		return 0, rec.payloadError("int2", 2)
	}
	return int16(binary.BigEndian.Uint16(rec.Payload)), nil
}

// Int2s decodes the payload as a sequence of big-endian 16-bit signed integers.
func (rec Record) Int2s() ([]int16, error) {
	if len(rec.Payload)%2 != 0 {
		return nil, rec.payloadError("int2 array", 2)
	}
	out := make([]int16, len(rec.Payload)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(rec.Payload[2*i:]))
	}
	return out, nil
}

// Int4 decodes the payload as a single big-endian 32-bit signed integer.
func (rec Record) Int4() (int32, error) {
	if len(rec.Payload) < 4 {
		return 0, rec.payloadError("int4", 4)
	}
	return int32(binary.BigEndian.Uint32(rec.Payload)), nil
}

// Int4s decodes the payload as a sequence of big-endian 32-bit signed integers.
func (rec Record) Int4s() ([]int32, error) {
	if len(rec.Payload)%4 != 0 {
		return nil, rec.payloadError("int4 array", 4)
	}
	out := make([]int32, len(rec.Payload)/4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(rec.Payload[4*i:]))
	}
	return out, nil
}

// Uint16 decodes the payload as a big-endian 16-bit bit-array field.
func (rec Record) Uint16() (uint16, error) {
	if len(rec.Payload) < 2 {
		return 0, rec.payloadError("bit array", 2)
	}
	return binary.BigEndian.Uint16(rec.Payload), nil
}

// Real8 decodes the payload as a single excess-64 packed real.
func (rec Record) Real8() (float64, error) {
	if len(rec.Payload) < 8 {
		return 0, rec.payloadError("real8", 8)
	}
	return DecodeReal8(rec.Payload[:8]), nil
}

// Real8s decodes the payload as a sequence of excess-64 packed reals.
func (rec Record) Real8s() ([]float64, error) {
	if len(rec.Payload)%8 != 0 {
		return nil, rec.payloadError("real8 array", 8)
	}
	out := make([]float64, len(rec.Payload)/8)
	for i := range out {
		out[i] = DecodeReal8(rec.Payload[8*i:])
	}
	return out, nil
}

// String decodes the payload as padded ASCII, stripping trailing NUL bytes
// and trailing spaces.
func (rec Record) String() string {
	return strings.TrimRight(string(rec.Payload), "\x00 ")
}

func (rec Record) payloadError(what string, unit int) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Record(rec.Name()).
		Offset(rec.Offset).
		Detail("%s payload: %d bytes, need multiple of %d", what, len(rec.Payload), unit).
		Build()
}

// Points decodes an XY payload into coordinate pairs.
func (rec Record) Points() ([][2]int32, error) {
	if len(rec.Payload)%8 != 0 {
		return nil, fmt.Errorf("XY payload length %d is not a multiple of 8", len(rec.Payload))
	}
	out := make([][2]int32, len(rec.Payload)/8)
	for i := range out {
		out[i][0] = int32(binary.BigEndian.Uint32(rec.Payload[8*i:]))
		out[i][1] = int32(binary.BigEndian.Uint32(rec.Payload[8*i+4:]))
	}
	return out, nil
}
