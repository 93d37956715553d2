package binary

import (
	"bytes"
	"math"
	"testing"
)

func reader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

func TestUintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16384, 1 << 32, math.MaxUint64}
	for _, v := range values {
		w := NewWriter()
		w.Uint(v)
		got, err := reader(w.Bytes()).ReadUint()
		if err != nil {
			t.Fatalf("ReadUint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestUintEncoding(t *testing.T) {
	w := NewWriter()
	w.Uint(300)
	want := []byte{0xac, 0x02}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Uint(300) = % x, want % x", w.Bytes(), want)
	}
}

func TestUintOverflow(t *testing.T) {
	data := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x02}
	if _, err := reader(data).ReadUint(); err == nil {
		t.Error("expected overflow error")
	}
}

func TestIntSignBit(t *testing.T) {
	tests := []struct {
		value int64
		want  []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x02}},
		{-1, []byte{0x03}},
		{64, []byte{0x80, 0x01}},
		{-64, []byte{0x81, 0x01}},
	}
	for _, tt := range tests {
		w := NewWriter()
		w.Int(tt.value)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("Int(%d) = % x, want % x", tt.value, w.Bytes(), tt.want)
		}
		got, err := reader(w.Bytes()).ReadInt()
		if err != nil {
			t.Fatalf("ReadInt: %v", err)
		}
		if got != tt.value {
			t.Errorf("round trip %d: got %d", tt.value, got)
		}
	}
}

func TestRealWhole(t *testing.T) {
	w := NewWriter()
	w.Real(5)
	want := []byte{0x00, 0x05}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Real(5) = % x, want % x", w.Bytes(), want)
	}
	w.Reset()
	w.Real(-3)
	want = []byte{0x01, 0x03}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Real(-3) = % x, want % x", w.Bytes(), want)
	}
}

func TestRealFloat64(t *testing.T) {
	w := NewWriter()
	w.Real(0.25)
	if w.Bytes()[0] != RealFloat64 {
		t.Fatalf("type byte = %d, want %d", w.Bytes()[0], RealFloat64)
	}
	got, err := reader(w.Bytes()).ReadReal()
	if err != nil {
		t.Fatalf("ReadReal: %v", err)
	}
	if got != 0.25 {
		t.Errorf("round trip 0.25: got %g", got)
	}
}

func TestRealAllForms(t *testing.T) {
	tests := []struct {
		data []byte
		want float64
	}{
		{[]byte{0x00, 0x0a}, 10},
		{[]byte{0x01, 0x0a}, -10},
		{[]byte{0x02, 0x04}, 0.25},
		{[]byte{0x03, 0x04}, -0.25},
		{[]byte{0x04, 0x03, 0x04}, 0.75},
		{[]byte{0x05, 0x03, 0x04}, -0.75},
	}
	for _, tt := range tests {
		got, err := reader(tt.data).ReadReal()
		if err != nil {
			t.Fatalf("ReadReal(% x): %v", tt.data, err)
		}
		if got != tt.want {
			t.Errorf("ReadReal(% x) = %g, want %g", tt.data, got, tt.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.String("TOP")
	want := []byte{0x03, 'T', 'O', 'P'}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("String = % x, want % x", w.Bytes(), want)
	}
	got, err := reader(w.Bytes()).ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "TOP" {
		t.Errorf("round trip: got %q", got)
	}
}

func TestGDeltaRoundTrip(t *testing.T) {
	deltas := [][2]int64{
		{5, 0}, {0, 5}, {-5, 0}, {0, -5},
		{7, 7}, {-7, 7}, {-7, -7}, {7, -7},
		{3, 9}, {-3, 9}, {3, -9}, {-3, -9},
	}
	for _, d := range deltas {
		w := NewWriter()
		w.GDelta(d[0], d[1])
		dx, dy, err := reader(w.Bytes()).ReadGDelta()
		if err != nil {
			t.Fatalf("ReadGDelta(%v): %v", d, err)
		}
		if dx != d[0] || dy != d[1] {
			t.Errorf("round trip %v: got (%d, %d)", d, dx, dy)
		}
	}
}

func TestGDeltaCompactForm(t *testing.T) {
	w := NewWriter()
	w.GDelta(3, 0)
	if len(w.Bytes()) != 1 {
		t.Errorf("axis delta should encode in one byte, got % x", w.Bytes())
	}
	w.Reset()
	w.GDelta(3, 9)
	if len(w.Bytes()) < 2 {
		t.Errorf("general delta should use two integers, got % x", w.Bytes())
	}
}

func TestReaderPosition(t *testing.T) {
	r := reader([]byte{0xac, 0x02, 0x05})
	if _, err := r.ReadUint(); err != nil {
		t.Fatal(err)
	}
	if r.Position() != 2 {
		t.Errorf("position = %d, want 2", r.Position())
	}
}
