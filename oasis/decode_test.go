package oasis_test

import (
	"errors"
	"testing"

	goerrors "github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/layout"
	"github.com/kinimod0/gOASper/oasis"
	"github.com/kinimod0/gOASper/oasis/internal/binary"
)

// streamBuilder assembles raw OASIS streams for decoder error tests.
type streamBuilder struct {
	w *binary.Writer
}

func newStream() *streamBuilder {
	return &streamBuilder{w: binary.NewWriter()}
}

func (b *streamBuilder) magic() *streamBuilder {
	b.w.Raw([]byte(oasis.Magic))
	return b
}

func (b *streamBuilder) start() *streamBuilder {
	b.w.Uint(1)
	b.w.String(oasis.Version)
	b.w.Real(1000)
	b.w.Uint(0)
	for i := 0; i < 12; i++ {
		b.w.Uint(0)
	}
	return b
}

func (b *streamBuilder) cellName(name string) *streamBuilder {
	b.w.Uint(3)
	b.w.String(name)
	return b
}

func (b *streamBuilder) cell(ref uint64) *streamBuilder {
	b.w.Uint(13)
	b.w.Uint(ref)
	return b
}

// polygon emits a POLYGON record. With fields false every presence bit is
// clear and the record leans entirely on modal state.
func (b *streamBuilder) polygon(fields bool) *streamBuilder {
	b.w.Uint(21)
	if !fields {
		b.w.Byte(0x00)
		return b
	}
	b.w.Byte(0x3b) // P, X, Y, D, L
	b.w.Uint(5)    // layer
	b.w.Uint(0)    // datatype
	b.w.Uint(4)    // g-delta point list
	b.w.Uint(3)
	b.w.GDelta(10, 0)
	b.w.GDelta(0, 10)
	b.w.GDelta(-10, 0)
	b.w.Int(0)
	b.w.Int(0)
	return b
}

// polygonColumns emits a POLYGON carrying a column repetition: count
// copies spaced along x.
func (b *streamBuilder) polygonColumns(count, space uint64) *streamBuilder {
	b.w.Uint(21)
	b.w.Byte(0x3f) // P, X, Y, R, D, L
	b.w.Uint(5)    // layer
	b.w.Uint(0)    // datatype
	b.w.Uint(4)    // g-delta point list
	b.w.Uint(3)
	b.w.GDelta(10, 0)
	b.w.GDelta(0, 10)
	b.w.GDelta(-10, 0)
	b.w.Int(0)
	b.w.Int(0)
	b.w.Uint(2) // repetition: columns
	b.w.Uint(count - 2)
	b.w.Uint(space)
	return b
}

// rectangleMatrix emits a RECTANGLE carrying a 2D grid repetition.
func (b *streamBuilder) rectangleMatrix(cols, rows, dx, dy uint64) *streamBuilder {
	b.w.Uint(20)
	b.w.Byte(0x7f) // W, H, X, Y, R, D, L
	b.w.Uint(7)    // layer
	b.w.Uint(0)    // datatype
	b.w.Uint(20)   // width
	b.w.Uint(30)   // height
	b.w.Int(0)
	b.w.Int(0)
	b.w.Uint(1) // repetition: matrix
	b.w.Uint(cols - 2)
	b.w.Uint(rows - 2)
	b.w.Uint(dx)
	b.w.Uint(dy)
	return b
}

func (b *streamBuilder) end() *streamBuilder {
	b.w.Uint(2)
	pad := 252
	b.w.Uint(uint64(pad))
	b.w.Raw(make([]byte, pad))
	b.w.Uint(0)
	return b
}

func (b *streamBuilder) bytes() []byte {
	return b.w.Bytes()
}

func TestParseBadMagic(t *testing.T) {
	data := []byte("%SEMI-NOPE\r\n")
	if _, err := oasis.Parse(data); err == nil {
		t.Fatal("expected error for bad magic")
	}
}

func TestParseRecordBeforeStart(t *testing.T) {
	data := newStream().magic().cellName("a").bytes()
	_, err := oasis.Parse(data)
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Kind != goerrors.KindMalformedStructure {
		t.Fatalf("err = %v, want malformed structure", err)
	}
}

func TestParseElementOutsideCell(t *testing.T) {
	data := newStream().magic().start().polygon(true).bytes()
	_, err := oasis.Parse(data)
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Kind != goerrors.KindMalformedStructure {
		t.Fatalf("err = %v, want malformed structure", err)
	}
}

// Modal variables reset at each CELL record, so a polygon that leans on
// modal state from the previous cell is malformed.
func TestParseModalResetAtCellBoundary(t *testing.T) {
	data := newStream().magic().start().
		cellName("a").cellName("b").
		cell(0).polygon(true).
		cell(1).polygon(false).
		end().bytes()
	_, err := oasis.Parse(data)
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Kind != goerrors.KindMalformedStructure {
		t.Fatalf("err = %v, want malformed structure", err)
	}
}

// Within one cell the same record is fine: every field inherits.
func TestParseModalInheritanceWithinCell(t *testing.T) {
	data := newStream().magic().start().
		cellName("a").
		cell(0).polygon(true).polygon(false).
		end().bytes()
	lib, err := oasis.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if n := len(lib.Cells[0].Elements); n != 2 {
		t.Fatalf("decoded %d elements, want 2", n)
	}
}

func TestParseUndefinedCellReference(t *testing.T) {
	data := newStream().magic().start().cell(7).end().bytes()
	_, err := oasis.Parse(data)
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Kind != goerrors.KindMalformedStructure {
		t.Fatalf("err = %v, want malformed structure", err)
	}
}

func TestParseUnsupportedRecord(t *testing.T) {
	b := newStream().magic().start()
	b.w.Uint(34) // CBLOCK
	_, err := oasis.Parse(b.bytes())
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Kind != goerrors.KindUnsupported {
		t.Fatalf("err = %v, want unsupported", err)
	}
}

// A repetition on a geometry record expands into one element per lattice
// site. Skipping over the repetition bytes would leave them to be read as
// the next record, so this also guards against silent element loss.
func TestParsePolygonColumnRepetition(t *testing.T) {
	data := newStream().magic().start().
		cellName("a").cell(0).
		polygonColumns(4, 50).
		end().bytes()
	lib, err := oasis.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	els := lib.Cells[0].Elements
	if len(els) != 4 {
		t.Fatalf("decoded %d elements, want 4", len(els))
	}
	for i, el := range els {
		p, ok := el.(layout.Polygon)
		if !ok {
			t.Fatalf("element %d = %T, want layout.Polygon", i, el)
		}
		if want := int32(i) * 50; p.Points[0].X != want {
			t.Fatalf("copy %d starts at x=%d, want %d", i, p.Points[0].X, want)
		}
	}
}

func TestParseRectangleMatrixRepetition(t *testing.T) {
	data := newStream().magic().start().
		cellName("a").cell(0).
		rectangleMatrix(3, 2, 40, 60).
		end().bytes()
	lib, err := oasis.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	els := lib.Cells[0].Elements
	if len(els) != 6 {
		t.Fatalf("decoded %d elements, want 6", len(els))
	}
	last, ok := els[5].(layout.Box)
	if !ok {
		t.Fatalf("element 5 = %T, want layout.Box", els[5])
	}
	if last.Min.X != 80 || last.Min.Y != 60 {
		t.Fatalf("last copy at (%d,%d), want (80,60)", last.Min.X, last.Min.Y)
	}
}

func TestParseTruncatedBeforeEnd(t *testing.T) {
	data := newStream().magic().start().cellName("a").cell(0).bytes()
	_, err := oasis.Parse(data)
	var ge *goerrors.Error
	if !errors.As(err, &ge) || ge.Kind != goerrors.KindUnexpectedEOF {
		t.Fatalf("err = %v, want unexpected EOF", err)
	}
}
