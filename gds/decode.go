package gds

import (
	"bytes"
	"io"

	"go.uber.org/zap"

	"github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/gds/internal/record"
	"github.com/kinimod0/gOASper/layout"
)

// Parse reads a complete GDSII stream and returns the linked layout model.
func Parse(data []byte) (*layout.Library, error) {
	return NewDecoder(bytes.NewReader(data)).Decode()
}

// ParseReader reads a complete GDSII stream from r.
func ParseReader(r io.Reader) (*layout.Library, error) {
	return NewDecoder(r).Decode()
}

// Decoder is a one-shot GDSII stream decoder. Unknown record types inside a
// recognized context are skipped, not fatal; SkippedRecords reports them so
// callers can detect silent data loss from vendor extensions.
type Decoder struct {
	r        *record.Reader
	skipped  map[byte]int
	absFlags int // STRANS records carrying absolute magnification or angle bits

	lib       *layout.Library
	cell      *layout.Cell
	cellNames map[string]bool
	sawUnits  bool
	el        *elementBuilder
}

// NewDecoder creates a Decoder over an input stream.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		r:         record.NewReader(r),
		skipped:   make(map[byte]int),
		cellNames: make(map[string]bool),
	}
}

// SkippedRecords returns skipped record counts keyed by record mnemonic.
// STRANS absolute-magnification and absolute-angle flags, which the model
// cannot represent, are reported under "STRANS(absolute)". Valid after
// Decode.
func (d *Decoder) SkippedRecords() map[string]int {
	out := make(map[string]int, len(d.skipped)+1)
	for t, n := range d.skipped {
		out[record.TypeName(t)] += n
	}
	if d.absFlags > 0 {
		out["STRANS(absolute)"] = d.absFlags
	}
	return out
}

// elementBuilder accumulates the field records of one open element until its
// ENDEL. Fields arrive in any order.
type elementBuilder struct {
	kind byte // record type that opened the element

	layer    uint16
	datatype uint16
	width    int32
	pathtype layout.EndStyle
	text     string
	presflag uint16
	sname    string
	cols     int
	rows     int
	points   [][2]int32
	strans   uint16
	mag      float64
	angle    float64
	hasMag   bool
	hasAngle bool
}

// Decode consumes the stream up to ENDLIB, builds the model, and links it.
// Bytes after ENDLIB are ignored.
func (d *Decoder) Decode() (*layout.Library, error) {
	d.lib = &layout.Library{}

	for {
		rec, err := d.r.Next()
		if err == io.EOF {
			return nil, errors.UnexpectedEOF(d.r.Offset(), "ENDLIB")
		}
		if err != nil {
			return nil, err
		}

		done, err := d.handle(rec)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	if err := d.lib.Link(); err != nil {
		return nil, err
	}
	if len(d.skipped) > 0 || d.absFlags > 0 {
		fields := make([]zap.Field, 0, len(d.skipped)+2)
		fields = append(fields, zap.String("library", d.lib.Name))
		for name, n := range d.SkippedRecords() {
			fields = append(fields, zap.Int(name, n))
		}
		Logger().Info("skipped unrecognized records", fields...)
	}
	return d.lib, nil
}

func (d *Decoder) handle(rec record.Record) (done bool, err error) {
	if d.el != nil {
		return false, d.handleElementRecord(rec)
	}
	if d.cell != nil {
		return false, d.handleStructureRecord(rec)
	}
	return d.handleLibraryRecord(rec)
}

func (d *Decoder) handleLibraryRecord(rec record.Record) (bool, error) {
	switch rec.Type {
	case record.TypeHeader, record.TypeBgnLib, record.TypeGenerations:
		// Version and timestamps carry no model content.
		return false, nil
	case record.TypeLibName:
		d.lib.Name = rec.String()
		return false, nil
	case record.TypeUnits:
		reals, err := rec.Real8s()
		if err != nil || len(reals) != 2 {
			return false, errors.Malformed(rec.Offset, rec.Name(), "UNITS must carry two reals")
		}
		if reals[0] <= 0 || reals[1] <= 0 {
			return false, errors.Malformed(rec.Offset, rec.Name(), "unit scale factors must be positive")
		}
		d.lib.DBUnitInUserUnits = reals[0]
		d.lib.DBUnitInMeters = reals[1]
		d.sawUnits = true
		return false, nil
	case record.TypeBgnStr:
		if !d.sawUnits {
			return false, errors.Malformed(rec.Offset, rec.Name(), "structure opened before UNITS")
		}
		d.cell = &layout.Cell{}
		return false, nil
	case record.TypeEndLib:
		return true, nil
	case record.TypeStrName, record.TypeEndStr, record.TypeEndEl,
		record.TypeBoundary, record.TypePath, record.TypeSRef,
		record.TypeARef, record.TypeText, record.TypeBox:
		return false, errors.Malformed(rec.Offset, rec.Name(), "record outside any open structure")
	default:
		d.skip(rec)
		return false, nil
	}
}

func (d *Decoder) handleStructureRecord(rec record.Record) error {
	switch rec.Type {
	case record.TypeStrName:
		name := rec.String()
		if name == "" {
			return errors.Malformed(rec.Offset, rec.Name(), "empty structure name")
		}
		if d.cellNames[name] {
			return errors.DuplicateCell(rec.Offset, name)
		}
		d.cellNames[name] = true
		d.cell.Name = name
		return nil
	case record.TypeEndStr:
		if d.cell.Name == "" {
			return errors.Malformed(rec.Offset, rec.Name(), "structure closed without STRNAME")
		}
		d.lib.AddCell(d.cell)
		d.cell = nil
		return nil
	case record.TypeBoundary, record.TypePath, record.TypeSRef,
		record.TypeARef, record.TypeText, record.TypeBox:
		if d.cell.Name == "" {
			return errors.Malformed(rec.Offset, rec.Name(), "element before STRNAME")
		}
		d.el = &elementBuilder{kind: rec.Type, mag: 1}
		return nil
	case record.TypeBgnStr, record.TypeEndLib:
		return errors.Malformed(rec.Offset, rec.Name(), "structure not closed")
	default:
		d.skip(rec)
		return nil
	}
}

func (d *Decoder) handleElementRecord(rec record.Record) error {
	el := d.el
	switch rec.Type {
	case record.TypeLayer:
		v, err := rec.Int2()
		if err != nil {
			return err
		}
		el.layer = uint16(v)
	case record.TypeDatatype, record.TypeTextType, record.TypeBoxType:
		v, err := rec.Int2()
		if err != nil {
			return err
		}
		el.datatype = uint16(v)
	case record.TypeWidth:
		v, err := rec.Int4()
		if err != nil {
			return err
		}
		if v < 0 {
			v = -v // negative width means absolute; magnitude is the same
		}
		el.width = v
	case record.TypePathType:
		v, err := rec.Int2()
		if err != nil {
			return err
		}
		el.pathtype = layout.EndStyle(v)
	case record.TypeXY:
		pts, err := rec.Points()
		if err != nil {
			return errors.Malformed(rec.Offset, rec.Name(), err.Error())
		}
		el.points = pts
	case record.TypeSName:
		el.sname = rec.String()
	case record.TypeColRow:
		vals, err := rec.Int2s()
		if err != nil || len(vals) != 2 {
			return errors.Malformed(rec.Offset, rec.Name(), "COLROW must carry two int2 values")
		}
		if vals[0] < 1 || vals[1] < 1 {
			return errors.Malformed(rec.Offset, rec.Name(), "array dimensions must be at least 1")
		}
		el.cols, el.rows = int(vals[0]), int(vals[1])
	case record.TypeString:
		el.text = rec.String()
	case record.TypePresentation:
		v, err := rec.Uint16()
		if err != nil {
			return err
		}
		el.presflag = v
	case record.TypeSTrans:
		v, err := rec.Uint16()
		if err != nil {
			return err
		}
		// Bits 0x0004 and 0x0002 request absolute magnification and
		// absolute angle. The transform model is purely relative, so
		// the flags are counted as lost rather than dropped silently.
		if v&0x0006 != 0 {
			d.absFlags++
			Logger().Debug("ignoring absolute transform flags",
				zap.Uint16("strans", v),
				zap.Int64("offset", rec.Offset))
		}
		el.strans = v
	case record.TypeMag:
		v, err := rec.Real8()
		if err != nil {
			return err
		}
		el.mag = v
		el.hasMag = true
	case record.TypeAngle:
		v, err := rec.Real8()
		if err != nil {
			return err
		}
		el.angle = v
		el.hasAngle = true
	case record.TypeEndEl:
		built, err := el.build(rec.Offset, d.cell.Name)
		if err != nil {
			return err
		}
		d.cell.Elements = append(d.cell.Elements, built)
		d.el = nil
	case record.TypeBoundary, record.TypePath, record.TypeSRef,
		record.TypeARef, record.TypeText, record.TypeBox,
		record.TypeBgnStr, record.TypeEndStr, record.TypeEndLib:
		return errors.Malformed(rec.Offset, rec.Name(), "element not closed")
	default:
		d.skip(rec)
	}
	return nil
}

func (d *Decoder) skip(rec record.Record) {
	d.skipped[rec.Type]++
	Logger().Debug("skipping record",
		zap.String("record", rec.Name()),
		zap.Int64("offset", rec.Offset))
}

func (el *elementBuilder) transform(origin layout.Point) layout.Transform {
	t := layout.Transform{
		Translation:   origin,
		Rotation:      el.angle,
		Mirror:        el.strans&0x8000 != 0,
		Magnification: el.mag,
	}
	if t.Magnification == 0 {
		t.Magnification = 1
	}
	return t
}

func (el *elementBuilder) build(off int64, cellName string) (layout.Element, error) {
	malformed := func(detail string) error {
		return errors.New(errors.PhaseParse, errors.KindMalformedStructure).
			Record(record.TypeName(el.kind)).
			Cell(cellName).
			Offset(off).
			Detail("%s", detail).
			Build()
	}

	switch el.kind {
	case record.TypeBoundary:
		if len(el.points) < 3 {
			return nil, malformed("boundary needs at least three points")
		}
		pts := toPoints(el.points)
		// Drop the duplicated closing vertex.
		if n := len(pts); n >= 2 && pts[0] == pts[n-1] {
			pts = pts[:n-1]
		}
		return layout.Polygon{Layer: el.layer, Datatype: el.datatype, Points: pts}, nil

	case record.TypePath:
		if len(el.points) < 2 {
			return nil, malformed("path needs at least two points")
		}
		return layout.Path{
			Layer:    el.layer,
			Datatype: el.datatype,
			Width:    el.width,
			Style:    el.pathtype,
			Points:   toPoints(el.points),
		}, nil

	case record.TypeBox:
		if len(el.points) < 4 {
			return nil, malformed("box needs four corner points")
		}
		bb := layout.EmptyBBox()
		for _, p := range toPoints(el.points) {
			bb.IncludePoint(p)
		}
		return layout.Box{
			Layer:   el.layer,
			Boxtype: el.datatype,
			Min:     layout.Point{X: bb.MinX, Y: bb.MinY},
			Max:     layout.Point{X: bb.MaxX, Y: bb.MaxY},
		}, nil

	case record.TypeText:
		if len(el.points) < 1 {
			return nil, malformed("text needs an anchor point")
		}
		origin := layout.Point{X: el.points[0][0], Y: el.points[0][1]}
		return layout.Text{
			Layer:        el.layer,
			Texttype:     el.datatype,
			Origin:       origin,
			Value:        el.text,
			Presentation: el.presflag,
			Transform:    el.transform(layout.Point{}),
		}, nil

	case record.TypeSRef:
		if el.sname == "" {
			return nil, malformed("reference without SNAME")
		}
		if len(el.points) < 1 {
			return nil, malformed("reference needs a placement point")
		}
		origin := layout.Point{X: el.points[0][0], Y: el.points[0][1]}
		return layout.Reference{Target: el.sname, Transform: el.transform(origin)}, nil

	case record.TypeARef:
		if el.sname == "" {
			return nil, malformed("array reference without SNAME")
		}
		if el.cols == 0 || el.rows == 0 {
			return nil, malformed("array reference without COLROW")
		}
		if len(el.points) < 3 {
			return nil, malformed("array reference needs three lattice corner points")
		}
		origin := layout.Point{X: el.points[0][0], Y: el.points[0][1]}
		colStep := layout.Point{
			X: (el.points[1][0] - origin.X) / int32(el.cols),
			Y: (el.points[1][1] - origin.Y) / int32(el.cols),
		}
		rowStep := layout.Point{
			X: (el.points[2][0] - origin.X) / int32(el.rows),
			Y: (el.points[2][1] - origin.Y) / int32(el.rows),
		}
		return layout.ArrayReference{
			Target:    el.sname,
			Transform: el.transform(origin),
			Cols:      el.cols,
			Rows:      el.rows,
			ColStep:   colStep,
			RowStep:   rowStep,
		}, nil
	}
	return nil, malformed("unsupported element kind")
}

func toPoints(raw [][2]int32) []layout.Point {
	out := make([]layout.Point, len(raw))
	for i, p := range raw {
		out[i] = layout.Point{X: p[0], Y: p[1]}
	}
	return out
}
