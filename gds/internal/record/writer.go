package record

import (
	"bytes"
	"encoding/binary"

	"github.com/kinimod0/gOASper/errors"
)

// maxPayload is the largest payload a single record can carry: the u16 total
// length includes the 4-byte header.
const maxPayload = 0xFFFF - 4

// Writer builds a GDSII byte stream record by record.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the stream written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Record writes one record with the given payload. The length prefix and
// word alignment are handled here; payloads must already be of even length
// except ASCII, which String pads.
func (w *Writer) Record(typ, dt byte, payload []byte) error {
	if len(payload) > maxPayload {
		return errors.New(errors.PhaseEncode, errors.KindOverflow).
			Record(TypeName(typ)).
			Detail("payload of %d bytes exceeds record capacity %d", len(payload), maxPayload).
			Build()
	}
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], uint16(len(payload)+4))
	hdr[2] = typ
	hdr[3] = dt
	w.buf.Write(hdr[:])
	w.buf.Write(payload)
	return nil
}

// Empty writes a record with no payload.
func (w *Writer) Empty(typ byte) error {
	return w.Record(typ, DataNone, nil)
}

// Int2s writes a record of big-endian 16-bit signed integers.
func (w *Writer) Int2s(typ byte, vals ...int16) error {
	payload := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(payload[2*i:], uint16(v))
	}
	return w.Record(typ, DataInt2, payload)
}

// Int4s writes a record of big-endian 32-bit signed integers.
func (w *Writer) Int4s(typ byte, vals ...int32) error {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(payload[4*i:], uint32(v))
	}
	return w.Record(typ, DataInt4, payload)
}

// BitArray writes a 16-bit bit-array record.
func (w *Writer) BitArray(typ byte, v uint16) error {
	var payload [2]byte
	binary.BigEndian.PutUint16(payload[:], v)
	return w.Record(typ, DataBitArray, payload[:])
}

// Real8s writes a record of excess-64 packed reals.
func (w *Writer) Real8s(typ byte, vals ...float64) error {
	payload := make([]byte, 8*len(vals))
	for i, v := range vals {
		enc, err := EncodeReal8(v)
		if err != nil {
			return err
		}
		copy(payload[8*i:], enc[:])
	}
	return w.Record(typ, DataReal8, payload)
}

// String writes an ASCII record, NUL-padding to even length.
func (w *Writer) String(typ byte, s string) error {
	payload := []byte(s)
	if len(payload)%2 != 0 {
		payload = append(payload, 0)
	}
	return w.Record(typ, DataASCII, payload)
}

// Points writes an XY record from coordinate pairs.
func (w *Writer) Points(typ byte, pts [][2]int32) error {
	payload := make([]byte, 8*len(pts))
	for i, p := range pts {
		binary.BigEndian.PutUint32(payload[8*i:], uint32(p[0]))
		binary.BigEndian.PutUint32(payload[8*i+4:], uint32(p[1]))
	}
	return w.Record(typ, DataInt4, payload)
}
