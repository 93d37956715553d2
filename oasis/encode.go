package oasis

import (
	"io"

	"github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/layout"
	"github.com/kinimod0/gOASper/oasis/internal/binary"
)

// Encode serializes a library into OASIS bytes. Cell name reference
// numbers follow declaration order and text string numbers follow
// first-seen order, so the same model always encodes to the same bytes.
func Encode(lib *layout.Library) ([]byte, error) {
	e := &encoder{w: binary.NewWriter(), lib: lib}
	if err := e.encode(); err != nil {
		return nil, err
	}
	return e.w.Bytes(), nil
}

// EncodeTo serializes a library to w.
func EncodeTo(w io.Writer, lib *layout.Library) error {
	data, err := Encode(lib)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type encoder struct {
	w        *binary.Writer
	lib      *layout.Library
	cellRefs map[string]uint64
	textRefs map[string]uint64
	modal    modalState

	// position of the element being encoded, for error reporting
	cell  string
	index int
}

func (e *encoder) encode() error {
	if err := e.lib.Link(); err != nil {
		return err
	}
	e.buildNameTables()

	e.w.Raw([]byte(Magic))
	e.encodeStart()
	e.encodeNameTables()

	for _, cell := range e.lib.Cells {
		if err := e.encodeCell(cell); err != nil {
			return err
		}
	}

	e.encodeEnd()
	return nil
}

// buildNameTables assigns reference numbers: cells in declaration order,
// text strings in first-seen traversal order.
func (e *encoder) buildNameTables() {
	e.cellRefs = make(map[string]uint64, len(e.lib.Cells))
	e.textRefs = make(map[string]uint64)
	for i, cell := range e.lib.Cells {
		e.cellRefs[cell.Name] = uint64(i)
	}
	for _, cell := range e.lib.Cells {
		for _, el := range cell.Elements {
			if t, ok := el.(layout.Text); ok {
				if _, seen := e.textRefs[t.Value]; !seen {
					e.textRefs[t.Value] = uint64(len(e.textRefs))
				}
			}
		}
	}
}

func (e *encoder) encodeStart() {
	dbu := e.lib.DBUnitInMeters
	if dbu == 0 {
		dbu = 1e-9
	}
	e.w.Uint(recStart)
	e.w.String(Version)
	e.w.Real(1e-6 / dbu) // grid steps per micron
	e.w.Uint(0)          // table offsets follow inline
	for i := 0; i < 12; i++ {
		e.w.Uint(0)
	}
}

func (e *encoder) encodeNameTables() {
	// Implicit numbering: the n-th CELLNAME record gets reference
	// number n, so emission order is the numbering.
	for _, cell := range e.lib.Cells {
		e.w.Uint(recCellName)
		e.w.String(cell.Name)
	}
	strings := make([]string, len(e.textRefs))
	for s, ref := range e.textRefs {
		strings[ref] = s
	}
	for _, s := range strings {
		e.w.Uint(recTextString)
		e.w.String(s)
	}
}

func (e *encoder) encodeCell(cell *layout.Cell) error {
	e.w.Uint(recCellRef)
	e.w.Uint(e.cellRefs[cell.Name])
	e.modal.reset()
	e.cell = cell.Name

	for i, el := range cell.Elements {
		e.index = i
		var err error
		switch el := el.(type) {
		case layout.Polygon:
			err = e.encodePolygon(el)
		case layout.Path:
			err = e.encodePath(el)
		case layout.Box:
			err = e.encodeRectangle(el)
		case layout.Text:
			err = e.encodeText(el)
		case layout.Reference:
			err = e.encodePlacement(el.Target, el.Transform, nil)
		case layout.ArrayReference:
			err = e.encodeArray(el)
		default:
			err = e.unencodable("unhandled element variant", el)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodePolygon(p layout.Polygon) error {
	if len(p.Points) < 3 {
		return e.unencodable("polygon needs at least 3 vertices", len(p.Points))
	}
	x, y := int64(p.Points[0].X), int64(p.Points[0].Y)

	var info byte
	if !e.modal.layer.equals(uint64(p.Layer)) {
		info |= 0x01
	}
	if !e.modal.datatype.equals(uint64(p.Datatype)) {
		info |= 0x02
	}
	if !e.modal.polygonPoints.equals(p.Points) {
		info |= 0x20
	}
	if x != e.modal.geometryX {
		info |= 0x10
	}
	if y != e.modal.geometryY {
		info |= 0x08
	}

	e.w.Uint(recPolygon)
	e.w.Byte(info)
	if info&0x01 != 0 {
		e.w.Uint(uint64(p.Layer))
	}
	if info&0x02 != 0 {
		e.w.Uint(uint64(p.Datatype))
	}
	if info&0x20 != 0 {
		writePointList(e.w, p.Points, true)
	}
	if info&0x10 != 0 {
		e.w.Int(x)
	}
	if info&0x08 != 0 {
		e.w.Int(y)
	}

	e.modal.layer.set(uint64(p.Layer))
	e.modal.datatype.set(uint64(p.Datatype))
	e.modal.polygonPoints.set(p.Points)
	e.modal.geometryX, e.modal.geometryY = x, y
	return nil
}

func (e *encoder) encodeRectangle(b layout.Box) error {
	if b.Max.X < b.Min.X || b.Max.Y < b.Min.Y {
		return e.unencodable("inverted box corners", b)
	}
	width := uint64(b.Max.X - b.Min.X)
	height := uint64(b.Max.Y - b.Min.Y)
	x, y := int64(b.Min.X), int64(b.Min.Y)

	var info byte
	if !e.modal.layer.equals(uint64(b.Layer)) {
		info |= 0x01
	}
	if !e.modal.datatype.equals(uint64(b.Boxtype)) {
		info |= 0x02
	}
	if !e.modal.geometryW.equals(width) {
		info |= 0x40
	}
	if !e.modal.geometryH.equals(height) {
		info |= 0x20
	}
	if x != e.modal.geometryX {
		info |= 0x10
	}
	if y != e.modal.geometryY {
		info |= 0x08
	}

	e.w.Uint(recRectangle)
	e.w.Byte(info)
	if info&0x01 != 0 {
		e.w.Uint(uint64(b.Layer))
	}
	if info&0x02 != 0 {
		e.w.Uint(uint64(b.Boxtype))
	}
	if info&0x40 != 0 {
		e.w.Uint(width)
	}
	if info&0x20 != 0 {
		e.w.Uint(height)
	}
	if info&0x10 != 0 {
		e.w.Int(x)
	}
	if info&0x08 != 0 {
		e.w.Int(y)
	}

	e.modal.layer.set(uint64(b.Layer))
	e.modal.datatype.set(uint64(b.Boxtype))
	e.modal.geometryW.set(width)
	e.modal.geometryH.set(height)
	e.modal.geometryX, e.modal.geometryY = x, y
	return nil
}

func (e *encoder) encodePath(p layout.Path) error {
	if len(p.Points) < 2 {
		return e.unencodable("path needs at least 2 vertices", len(p.Points))
	}
	if p.Width < 0 {
		return e.unencodable("negative path width", p.Width)
	}
	if p.Width%2 != 0 {
		return e.unencodable("odd path width has no exact halfwidth", p.Width)
	}
	if p.Style == layout.EndRound {
		return e.unencodable("round path end-caps are not representable", p.Style)
	}
	halfwidth := uint64(p.Width / 2)
	var scheme uint64 = extFlush<<2 | extFlush
	var startExt, endExt int64
	if p.Style == layout.EndExtended {
		scheme = extHalfwidth<<2 | extHalfwidth
		startExt, endExt = int64(halfwidth), int64(halfwidth)
	}
	x, y := int64(p.Points[0].X), int64(p.Points[0].Y)

	var info byte
	if !e.modal.layer.equals(uint64(p.Layer)) {
		info |= 0x01
	}
	if !e.modal.datatype.equals(uint64(p.Datatype)) {
		info |= 0x02
	}
	if !e.modal.pathHalfwidth.equals(halfwidth) {
		info |= 0x40
	}
	if !e.modal.pathStartExt.equals(startExt) || !e.modal.pathEndExt.equals(endExt) {
		info |= 0x80
	}
	if !e.modal.pathPoints.equals(p.Points) {
		info |= 0x20
	}
	if x != e.modal.geometryX {
		info |= 0x10
	}
	if y != e.modal.geometryY {
		info |= 0x08
	}

	e.w.Uint(recPath)
	e.w.Byte(info)
	if info&0x01 != 0 {
		e.w.Uint(uint64(p.Layer))
	}
	if info&0x02 != 0 {
		e.w.Uint(uint64(p.Datatype))
	}
	if info&0x40 != 0 {
		e.w.Uint(halfwidth)
	}
	if info&0x80 != 0 {
		e.w.Uint(scheme)
	}
	if info&0x20 != 0 {
		writePointList(e.w, p.Points, false)
	}
	if info&0x10 != 0 {
		e.w.Int(x)
	}
	if info&0x08 != 0 {
		e.w.Int(y)
	}

	e.modal.layer.set(uint64(p.Layer))
	e.modal.datatype.set(uint64(p.Datatype))
	e.modal.pathHalfwidth.set(halfwidth)
	e.modal.pathStartExt.set(startExt)
	e.modal.pathEndExt.set(endExt)
	e.modal.pathPoints.set(p.Points)
	e.modal.geometryX, e.modal.geometryY = x, y
	return nil
}

func (e *encoder) encodeText(t layout.Text) error {
	if !t.Transform.IsIdentity() {
		return e.unencodable("text transform is not representable", t.Transform)
	}
	ref := e.textRefs[t.Value]
	x, y := int64(t.Origin.X), int64(t.Origin.Y)

	var info byte
	if !e.modal.textString.equals(ref) {
		info |= 0x60 // explicit string, by reference number
	}
	if !e.modal.textlayer.equals(uint64(t.Layer)) {
		info |= 0x01
	}
	if !e.modal.texttype.equals(uint64(t.Texttype)) {
		info |= 0x02
	}
	if x != e.modal.textX {
		info |= 0x10
	}
	if y != e.modal.textY {
		info |= 0x08
	}

	e.w.Uint(recText)
	e.w.Byte(info)
	if info&0x40 != 0 {
		e.w.Uint(ref)
	}
	if info&0x01 != 0 {
		e.w.Uint(uint64(t.Layer))
	}
	if info&0x02 != 0 {
		e.w.Uint(uint64(t.Texttype))
	}
	if info&0x10 != 0 {
		e.w.Int(x)
	}
	if info&0x08 != 0 {
		e.w.Int(y)
	}

	e.modal.textString.set(ref)
	e.modal.textlayer.set(uint64(t.Layer))
	e.modal.texttype.set(uint64(t.Texttype))
	e.modal.textX, e.modal.textY = x, y
	return nil
}

func (e *encoder) encodeArray(a layout.ArrayReference) error {
	if a.Cols < 1 || a.Rows < 1 {
		return e.unencodable("array dimensions must be at least 1", a)
	}
	if a.Cols == 1 && a.Rows == 1 {
		return e.encodePlacement(a.Target, a.Transform, nil)
	}
	rep := repetition{
		Cols: a.Cols, Rows: a.Rows,
		ColStep: a.ColStep, RowStep: a.RowStep,
	}
	return e.encodePlacement(a.Target, a.Transform, &rep)
}

func (e *encoder) encodePlacement(target string, t layout.Transform, rep *repetition) error {
	ref := e.cellRefs[target]
	x, y := int64(t.Translation.X), int64(t.Translation.Y)
	mag := t.Magnification
	if mag == 0 {
		mag = 1
	}
	rectilinear := mag == 1 &&
		(t.Rotation == 0 || t.Rotation == 90 || t.Rotation == 180 || t.Rotation == 270)

	var info byte
	if !e.modal.placementCell.equals(ref) {
		info |= 0xc0 // explicit cell, by reference number
	}
	if x != e.modal.placementX {
		info |= 0x20
	}
	if y != e.modal.placementY {
		info |= 0x10
	}
	if rep != nil {
		info |= 0x08
	}

	if rectilinear {
		e.w.Uint(recPlacement)
		info |= byte(t.Rotation/90) << 1
		if t.Mirror {
			info |= 0x01
		}
		e.w.Byte(info)
		if info&0x40 != 0 {
			e.w.Uint(ref)
		}
	} else {
		e.w.Uint(recPlacementTransform)
		info |= 0x04 // magnification present
		info |= 0x02 // angle present
		if t.Mirror {
			info |= 0x01
		}
		e.w.Byte(info)
		if info&0x40 != 0 {
			e.w.Uint(ref)
		}
		e.w.Real(mag)
		e.w.Real(t.Rotation)
	}
	if info&0x20 != 0 {
		e.w.Int(x)
	}
	if info&0x10 != 0 {
		e.w.Int(y)
	}
	if rep != nil {
		e.writeRepetition(*rep)
	}

	e.modal.placementCell.set(ref)
	e.modal.placementX, e.modal.placementY = x, y
	return nil
}

// writeRepetition emits the most compact grid form that describes the
// lattice: axis-aligned grids use the space forms, everything else the
// g-delta forms.
func (e *encoder) writeRepetition(rep repetition) {
	cs, rs := rep.ColStep, rep.RowStep
	switch {
	case rep.Cols > 1 && rep.Rows > 1:
		if cs.Y == 0 && cs.X >= 0 && rs.X == 0 && rs.Y >= 0 {
			e.w.Uint(repMatrix)
			e.w.Uint(uint64(rep.Cols - 2))
			e.w.Uint(uint64(rep.Rows - 2))
			e.w.Uint(uint64(cs.X))
			e.w.Uint(uint64(rs.Y))
		} else {
			e.w.Uint(repDiagonal)
			e.w.Uint(uint64(rep.Cols - 2))
			e.w.Uint(uint64(rep.Rows - 2))
			e.w.GDelta(int64(cs.X), int64(cs.Y))
			e.w.GDelta(int64(rs.X), int64(rs.Y))
		}
	case rep.Cols > 1:
		e.writeLinearRepetition(rep.Cols, cs)
	default:
		e.writeLinearRepetition(rep.Rows, rs)
	}
	e.modal.repetition.set(rep)
}

func (e *encoder) writeLinearRepetition(count int, step layout.Point) {
	switch {
	case step.Y == 0 && step.X >= 0:
		e.w.Uint(repColumns)
		e.w.Uint(uint64(count - 2))
		e.w.Uint(uint64(step.X))
	case step.X == 0 && step.Y >= 0:
		e.w.Uint(repRows)
		e.w.Uint(uint64(count - 2))
		e.w.Uint(uint64(step.Y))
	default:
		e.w.Uint(repVector)
		e.w.Uint(uint64(count - 2))
		e.w.GDelta(int64(step.X), int64(step.Y))
	}
}

func (e *encoder) encodeEnd() {
	// The END record is padded to exactly 256 bytes: one record byte,
	// a 252-byte padding string with a 2-byte length prefix and the
	// validation scheme.
	e.w.Uint(recEnd)
	pad := endRecordLength - 4
	e.w.Uint(uint64(pad))
	e.w.Raw(make([]byte, pad))
	e.w.Uint(0) // no validation
}

func (e *encoder) unencodable(detail string, value any) error {
	return errors.Unencodable(e.cell, e.index, detail, value)
}
