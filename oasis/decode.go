package oasis

import (
	"bufio"
	"bytes"
	"io"

	"github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/layout"
	"github.com/kinimod0/gOASper/oasis/internal/binary"
)

// Parse decodes OASIS bytes into a library. The decoder understands the
// subset of the format the encoder emits plus the common variations of
// it; compressed CBLOCKs and property records are rejected.
func Parse(data []byte) (*layout.Library, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseReader decodes an OASIS stream from r.
func ParseReader(r io.Reader) (*layout.Library, error) {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	d := &decoder{r: binary.NewReader(br), lib: &layout.Library{}}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return d.lib, nil
}

type modalStr struct {
	value   string
	defined bool
}

func (m *modalStr) set(v string) {
	m.value = v
	m.defined = true
}

type decoder struct {
	r   *binary.Reader
	lib *layout.Library

	cellNames   []string // reference number order
	textStrings []string

	cell          *layout.Cell
	modal         modalState
	placementCell modalStr
	textString    modalStr
	sawStart      bool
}

func (d *decoder) decode() error {
	magic, err := d.r.ReadBytes(len(Magic))
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "", "reading magic bytes", err)
	}
	if string(magic) != Magic {
		return d.fail(errors.KindMalformedStructure, "", "missing %SEMI-OASIS magic", nil)
	}

	for {
		rec, err := d.r.ReadUint()
		if err == io.EOF {
			return d.fail(errors.KindUnexpectedEOF, "", "stream ended before END record", nil)
		}
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "", "reading record type", err)
		}
		if rec != recStart && rec != recPad && !d.sawStart {
			return d.fail(errors.KindMalformedStructure, recordName(rec), "record before START", nil)
		}

		switch rec {
		case recPad:
		case recStart:
			if err := d.decodeStart(); err != nil {
				return err
			}
		case recEnd:
			return d.decodeEnd()
		case recCellName, recCellNameRef:
			if err := d.decodeName(rec == recCellNameRef, &d.cellNames); err != nil {
				return err
			}
		case recTextString, recTextStringRef:
			if err := d.decodeName(rec == recTextStringRef, &d.textStrings); err != nil {
				return err
			}
		case recCellRef, recCellNamed:
			if err := d.decodeCell(rec == recCellNamed); err != nil {
				return err
			}
		case recXYAbsolute, recXYRelative:
			if d.cell == nil {
				return d.fail(errors.KindMalformedStructure, recordName(rec), "coordinate mode outside a cell", nil)
			}
			d.modal.xyRelative = rec == recXYRelative
		case recPlacement, recPlacementTransform:
			if err := d.inCell(rec, func() error { return d.decodePlacement(rec == recPlacementTransform) }); err != nil {
				return err
			}
		case recText:
			if err := d.inCell(rec, d.decodeText); err != nil {
				return err
			}
		case recRectangle:
			if err := d.inCell(rec, d.decodeRectangle); err != nil {
				return err
			}
		case recPolygon:
			if err := d.inCell(rec, d.decodePolygon); err != nil {
				return err
			}
		case recPath:
			if err := d.inCell(rec, d.decodePath); err != nil {
				return err
			}
		default:
			return errors.New(errors.PhaseDecode, errors.KindUnsupported).
				Record(recordName(rec)).Offset(d.r.Position()).
				Detail("record type %d", rec).Build()
		}
	}
}

// inCell guards element decoding: elements are only legal inside a CELL.
func (d *decoder) inCell(rec uint64, decode func() error) error {
	if d.cell == nil {
		return d.fail(errors.KindMalformedStructure, recordName(rec), "element outside a cell", nil)
	}
	return decode()
}

func (d *decoder) decodeStart() error {
	version, err := d.r.ReadString()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "START", "reading version", err)
	}
	if version != Version {
		return d.fail(errors.KindUnsupported, "START", "version "+version, nil)
	}
	unit, err := d.r.ReadReal()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "START", "reading unit", err)
	}
	if unit <= 0 {
		return d.fail(errors.KindMalformedStructure, "START", "unit must be positive", nil)
	}
	offsetFlag, err := d.r.ReadUint()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "START", "reading offset flag", err)
	}
	if offsetFlag == 0 {
		for i := 0; i < 12; i++ {
			if _, err := d.r.ReadUint(); err != nil {
				return d.fail(errors.KindTruncatedStream, "START", "reading table offsets", err)
			}
		}
	}
	d.lib.DBUnitInMeters = 1e-6 / unit
	d.lib.DBUnitInUserUnits = d.lib.DBUnitInMeters / 1e-6
	d.sawStart = true
	return nil
}

func (d *decoder) decodeEnd() error {
	if _, err := d.r.ReadString(); err != nil {
		return d.fail(errors.KindTruncatedStream, "END", "reading padding", err)
	}
	if _, err := d.r.ReadUint(); err != nil {
		return d.fail(errors.KindTruncatedStream, "END", "reading validation scheme", err)
	}
	return d.lib.Link()
}

// decodeName handles the name table records. Implicit records number
// sequentially from zero; explicit records carry their own number.
func (d *decoder) decodeName(explicit bool, table *[]string) error {
	name, err := d.r.ReadString()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "name record", "reading name", err)
	}
	ref := uint64(len(*table))
	if explicit {
		ref, err = d.r.ReadUint()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "name record", "reading reference number", err)
		}
	}
	for uint64(len(*table)) <= ref {
		*table = append(*table, "")
	}
	(*table)[ref] = name
	return nil
}

func (d *decoder) decodeCell(named bool) error {
	var name string
	if named {
		var err error
		name, err = d.r.ReadString()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "CELL", "reading cell name", err)
		}
	} else {
		ref, err := d.r.ReadUint()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "CELL", "reading cell reference", err)
		}
		name, err = d.lookupName(d.cellNames, ref)
		if err != nil {
			return err
		}
	}
	for _, cell := range d.lib.Cells {
		if cell.Name == name {
			return errors.DuplicateCell(d.r.Position(), name)
		}
	}
	d.cell = &layout.Cell{Name: name}
	d.lib.AddCell(d.cell)
	d.modal.reset()
	d.placementCell = modalStr{}
	d.textString = modalStr{}
	return nil
}

// lookupName resolves a reference number against a name table. Names must
// be declared before use; forward references are not supported.
func (d *decoder) lookupName(table []string, ref uint64) (string, error) {
	if ref >= uint64(len(table)) || table[ref] == "" {
		return "", d.fail(errors.KindMalformedStructure, "", "undefined name reference", nil)
	}
	return table[ref], nil
}

func (d *decoder) decodePolygon() error {
	info, err := d.r.ReadByte()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "POLYGON", "reading info byte", err)
	}
	if err := d.decodeLayer(&d.modal.layer, info&0x01 != 0, "POLYGON"); err != nil {
		return err
	}
	if err := d.decodeLayer(&d.modal.datatype, info&0x02 != 0, "POLYGON"); err != nil {
		return err
	}
	if info&0x20 != 0 {
		pts, err := readPointList(d.r, true)
		if err != nil {
			return err
		}
		d.modal.polygonPoints.set(pts)
	} else if !d.modal.polygonPoints.defined {
		return d.undefinedModal("POLYGON", "point list")
	}
	x, y, err := d.decodeXY(info, &d.modal.geometryX, &d.modal.geometryY, "POLYGON")
	if err != nil {
		return err
	}
	offsets, err := d.decodeGeometryRepetition(info)
	if err != nil {
		return err
	}

	rel := d.modal.polygonPoints.points
	for _, off := range offsets {
		pts := make([]layout.Point, len(rel))
		for i, p := range rel {
			pts[i] = layout.Point{X: p.X + int32(x) + off.X, Y: p.Y + int32(y) + off.Y}
		}
		d.cell.Elements = append(d.cell.Elements, layout.Polygon{
			Layer:    uint16(d.modal.layer.value),
			Datatype: uint16(d.modal.datatype.value),
			Points:   pts,
		})
	}
	return nil
}

// decodeGeometryRepetition handles the repetition presence bit shared by
// the geometry and text records. The model has no per-shape lattice, so a
// repetition expands into one copy per lattice site, the original first.
func (d *decoder) decodeGeometryRepetition(info byte) ([]layout.Point, error) {
	if info&0x04 == 0 {
		return []layout.Point{{}}, nil
	}
	rep, err := d.readRepetition()
	if err != nil {
		return nil, err
	}
	offsets := make([]layout.Point, 0, rep.Cols*rep.Rows)
	for r := 0; r < rep.Rows; r++ {
		for c := 0; c < rep.Cols; c++ {
			offsets = append(offsets, layout.Point{
				X: int32(c)*rep.ColStep.X + int32(r)*rep.RowStep.X,
				Y: int32(c)*rep.ColStep.Y + int32(r)*rep.RowStep.Y,
			})
		}
	}
	return offsets, nil
}

func (d *decoder) decodeRectangle() error {
	info, err := d.r.ReadByte()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "RECTANGLE", "reading info byte", err)
	}
	square := info&0x80 != 0
	if square && info&0x20 != 0 {
		return d.fail(errors.KindMalformedStructure, "RECTANGLE", "square flag with explicit height", nil)
	}
	if err := d.decodeLayer(&d.modal.layer, info&0x01 != 0, "RECTANGLE"); err != nil {
		return err
	}
	if err := d.decodeLayer(&d.modal.datatype, info&0x02 != 0, "RECTANGLE"); err != nil {
		return err
	}
	if info&0x40 != 0 {
		w, err := d.r.ReadUint()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "RECTANGLE", "reading width", err)
		}
		d.modal.geometryW.set(w)
	} else if !d.modal.geometryW.defined {
		return d.undefinedModal("RECTANGLE", "width")
	}
	if square {
		d.modal.geometryH.set(d.modal.geometryW.value)
	} else if info&0x20 != 0 {
		h, err := d.r.ReadUint()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "RECTANGLE", "reading height", err)
		}
		d.modal.geometryH.set(h)
	} else if !d.modal.geometryH.defined {
		return d.undefinedModal("RECTANGLE", "height")
	}
	x, y, err := d.decodeXY(info, &d.modal.geometryX, &d.modal.geometryY, "RECTANGLE")
	if err != nil {
		return err
	}
	offsets, err := d.decodeGeometryRepetition(info)
	if err != nil {
		return err
	}

	for _, off := range offsets {
		min := layout.Point{X: int32(x) + off.X, Y: int32(y) + off.Y}
		d.cell.Elements = append(d.cell.Elements, layout.Box{
			Layer:   uint16(d.modal.layer.value),
			Boxtype: uint16(d.modal.datatype.value),
			Min:     min,
			Max: layout.Point{
				X: min.X + int32(d.modal.geometryW.value),
				Y: min.Y + int32(d.modal.geometryH.value),
			},
		})
	}
	return nil
}

func (d *decoder) decodePath() error {
	info, err := d.r.ReadByte()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "PATH", "reading info byte", err)
	}
	if err := d.decodeLayer(&d.modal.layer, info&0x01 != 0, "PATH"); err != nil {
		return err
	}
	if err := d.decodeLayer(&d.modal.datatype, info&0x02 != 0, "PATH"); err != nil {
		return err
	}
	if info&0x40 != 0 {
		hw, err := d.r.ReadUint()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, "PATH", "reading halfwidth", err)
		}
		d.modal.pathHalfwidth.set(hw)
	} else if !d.modal.pathHalfwidth.defined {
		return d.undefinedModal("PATH", "halfwidth")
	}
	if info&0x80 != 0 {
		if err := d.decodeExtensions(); err != nil {
			return err
		}
	} else if !d.modal.pathStartExt.defined {
		return d.undefinedModal("PATH", "extensions")
	}
	if info&0x20 != 0 {
		pts, err := readPointList(d.r, false)
		if err != nil {
			return err
		}
		d.modal.pathPoints.set(pts)
	} else if !d.modal.pathPoints.defined {
		return d.undefinedModal("PATH", "point list")
	}
	x, y, err := d.decodeXY(info, &d.modal.geometryX, &d.modal.geometryY, "PATH")
	if err != nil {
		return err
	}
	offsets, err := d.decodeGeometryRepetition(info)
	if err != nil {
		return err
	}

	style, err := d.pathStyle()
	if err != nil {
		return err
	}
	rel := d.modal.pathPoints.points
	for _, off := range offsets {
		pts := make([]layout.Point, len(rel))
		for i, p := range rel {
			pts[i] = layout.Point{X: p.X + int32(x) + off.X, Y: p.Y + int32(y) + off.Y}
		}
		d.cell.Elements = append(d.cell.Elements, layout.Path{
			Layer:    uint16(d.modal.layer.value),
			Datatype: uint16(d.modal.datatype.value),
			Width:    int32(d.modal.pathHalfwidth.value) * 2,
			Style:    style,
			Points:   pts,
		})
	}
	return nil
}

func (d *decoder) decodeExtensions() error {
	scheme, err := d.r.ReadUint()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "PATH", "reading extension scheme", err)
	}
	read := func(code uint64, modal *modalInt) error {
		switch code {
		case extReuse:
			if !modal.defined {
				return d.undefinedModal("PATH", "extension")
			}
		case extFlush:
			modal.set(0)
		case extHalfwidth:
			modal.set(int64(d.modal.pathHalfwidth.value))
		case extExplicit:
			v, err := d.r.ReadInt()
			if err != nil {
				return d.fail(errors.KindTruncatedStream, "PATH", "reading extension value", err)
			}
			modal.set(v)
		}
		return nil
	}
	if err := read(scheme>>2&3, &d.modal.pathStartExt); err != nil {
		return err
	}
	return read(scheme&3, &d.modal.pathEndExt)
}

// pathStyle maps the decoded extensions back onto an end style. Only the
// symmetric flush and halfwidth forms have a model representation.
func (d *decoder) pathStyle() (layout.EndStyle, error) {
	s, e := d.modal.pathStartExt.value, d.modal.pathEndExt.value
	hw := int64(d.modal.pathHalfwidth.value)
	switch {
	case s == 0 && e == 0:
		return layout.EndFlush, nil
	case s == hw && e == hw:
		return layout.EndExtended, nil
	}
	return 0, errors.New(errors.PhaseDecode, errors.KindUnsupported).
		Cell(d.cell.Name).Offset(d.r.Position()).
		Detail("asymmetric path extensions %d/%d", s, e).Build()
}

func (d *decoder) decodeText() error {
	info, err := d.r.ReadByte()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "TEXT", "reading info byte", err)
	}
	if info&0x40 != 0 {
		if info&0x20 != 0 {
			ref, err := d.r.ReadUint()
			if err != nil {
				return d.fail(errors.KindTruncatedStream, "TEXT", "reading string reference", err)
			}
			value, err := d.lookupName(d.textStrings, ref)
			if err != nil {
				return err
			}
			d.textString.set(value)
		} else {
			value, err := d.r.ReadString()
			if err != nil {
				return d.fail(errors.KindTruncatedStream, "TEXT", "reading string", err)
			}
			d.textString.set(value)
		}
	} else if !d.textString.defined {
		return d.undefinedModal("TEXT", "string")
	}
	if err := d.decodeLayer(&d.modal.textlayer, info&0x01 != 0, "TEXT"); err != nil {
		return err
	}
	if err := d.decodeLayer(&d.modal.texttype, info&0x02 != 0, "TEXT"); err != nil {
		return err
	}
	x, y, err := d.decodeXY(info, &d.modal.textX, &d.modal.textY, "TEXT")
	if err != nil {
		return err
	}
	offsets, err := d.decodeGeometryRepetition(info)
	if err != nil {
		return err
	}

	for _, off := range offsets {
		d.cell.Elements = append(d.cell.Elements, layout.Text{
			Layer:     uint16(d.modal.textlayer.value),
			Texttype:  uint16(d.modal.texttype.value),
			Origin:    layout.Point{X: int32(x) + off.X, Y: int32(y) + off.Y},
			Value:     d.textString.value,
			Transform: layout.Identity(),
		})
	}
	return nil
}

func (d *decoder) decodePlacement(withTransform bool) error {
	info, err := d.r.ReadByte()
	if err != nil {
		return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading info byte", err)
	}
	if info&0x80 != 0 {
		if info&0x40 != 0 {
			ref, err := d.r.ReadUint()
			if err != nil {
				return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading cell reference", err)
			}
			name, err := d.lookupName(d.cellNames, ref)
			if err != nil {
				return err
			}
			d.placementCell.set(name)
		} else {
			name, err := d.r.ReadString()
			if err != nil {
				return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading cell name", err)
			}
			d.placementCell.set(name)
		}
	} else if !d.placementCell.defined {
		return d.undefinedModal("PLACEMENT", "cell")
	}

	t := layout.Identity()
	t.Mirror = info&0x01 != 0
	if withTransform {
		if info&0x04 != 0 {
			if t.Magnification, err = d.r.ReadReal(); err != nil {
				return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading magnification", err)
			}
		}
		if info&0x02 != 0 {
			if t.Rotation, err = d.r.ReadReal(); err != nil {
				return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading angle", err)
			}
		}
	} else {
		t.Rotation = float64(info>>1&3) * 90
	}

	var x, y int64
	if info&0x20 != 0 {
		if x, err = d.r.ReadInt(); err != nil {
			return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading x", err)
		}
		if d.modal.xyRelative {
			x += d.modal.placementX
		}
		d.modal.placementX = x
	} else {
		x = d.modal.placementX
	}
	if info&0x10 != 0 {
		if y, err = d.r.ReadInt(); err != nil {
			return d.fail(errors.KindTruncatedStream, "PLACEMENT", "reading y", err)
		}
		if d.modal.xyRelative {
			y += d.modal.placementY
		}
		d.modal.placementY = y
	} else {
		y = d.modal.placementY
	}
	t.Translation = layout.Point{X: int32(x), Y: int32(y)}

	if info&0x08 != 0 {
		rep, err := d.readRepetition()
		if err != nil {
			return err
		}
		d.cell.Elements = append(d.cell.Elements, layout.ArrayReference{
			Target:    d.placementCell.value,
			Transform: t,
			Cols:      rep.Cols,
			Rows:      rep.Rows,
			ColStep:   rep.ColStep,
			RowStep:   rep.RowStep,
		})
		return nil
	}
	d.cell.Elements = append(d.cell.Elements, layout.Reference{
		Target:    d.placementCell.value,
		Transform: t,
	})
	return nil
}

// readRepetition decodes the grid repetition forms into column and row
// counts with step vectors. The arbitrary displacement list forms have no
// lattice equivalent and are rejected.
func (d *decoder) readRepetition() (repetition, error) {
	typ, err := d.r.ReadUint()
	if err != nil {
		return repetition{}, d.fail(errors.KindTruncatedStream, "repetition", "reading type", err)
	}
	rep := repetition{Cols: 1, Rows: 1}
	readCount := func() (int, error) {
		n, err := d.r.ReadUint()
		if err != nil {
			return 0, d.fail(errors.KindTruncatedStream, "repetition", "reading dimension", err)
		}
		return int(n) + 2, nil
	}
	readSpace := func() (int32, error) {
		s, err := d.r.ReadUint()
		if err != nil {
			return 0, d.fail(errors.KindTruncatedStream, "repetition", "reading spacing", err)
		}
		return int32(s), nil
	}
	readDelta := func() (layout.Point, error) {
		dx, dy, err := d.r.ReadGDelta()
		if err != nil {
			return layout.Point{}, d.fail(errors.KindTruncatedStream, "repetition", "reading displacement", err)
		}
		return layout.Point{X: int32(dx), Y: int32(dy)}, nil
	}

	switch typ {
	case repReuse:
		if !d.modal.repetition.defined {
			return repetition{}, d.undefinedModal("repetition", "value")
		}
		return d.modal.repetition.value, nil
	case repMatrix:
		if rep.Cols, err = readCount(); err != nil {
			return repetition{}, err
		}
		if rep.Rows, err = readCount(); err != nil {
			return repetition{}, err
		}
		var dx, dy int32
		if dx, err = readSpace(); err != nil {
			return repetition{}, err
		}
		if dy, err = readSpace(); err != nil {
			return repetition{}, err
		}
		rep.ColStep = layout.Point{X: dx}
		rep.RowStep = layout.Point{Y: dy}
	case repColumns:
		if rep.Cols, err = readCount(); err != nil {
			return repetition{}, err
		}
		var dx int32
		if dx, err = readSpace(); err != nil {
			return repetition{}, err
		}
		rep.ColStep = layout.Point{X: dx}
	case repRows:
		if rep.Rows, err = readCount(); err != nil {
			return repetition{}, err
		}
		var dy int32
		if dy, err = readSpace(); err != nil {
			return repetition{}, err
		}
		rep.RowStep = layout.Point{Y: dy}
	case repDiagonal:
		if rep.Cols, err = readCount(); err != nil {
			return repetition{}, err
		}
		if rep.Rows, err = readCount(); err != nil {
			return repetition{}, err
		}
		if rep.ColStep, err = readDelta(); err != nil {
			return repetition{}, err
		}
		if rep.RowStep, err = readDelta(); err != nil {
			return repetition{}, err
		}
	case repVector:
		if rep.Cols, err = readCount(); err != nil {
			return repetition{}, err
		}
		if rep.ColStep, err = readDelta(); err != nil {
			return repetition{}, err
		}
	default:
		return repetition{}, errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Offset(d.r.Position()).Detail("repetition type %d", typ).Build()
	}
	d.modal.repetition.set(rep)
	return rep, nil
}

func (d *decoder) decodeLayer(modal *modalUint, present bool, record string) error {
	if present {
		v, err := d.r.ReadUint()
		if err != nil {
			return d.fail(errors.KindTruncatedStream, record, "reading layer field", err)
		}
		modal.set(v)
		return nil
	}
	if !modal.defined {
		return d.undefinedModal(record, "layer field")
	}
	return nil
}

// decodeXY handles the X and Y presence bits shared by every geometry
// record, honoring relative coordinate mode.
func (d *decoder) decodeXY(info byte, mx, my *int64, record string) (x, y int64, err error) {
	if info&0x10 != 0 {
		if x, err = d.r.ReadInt(); err != nil {
			return 0, 0, d.fail(errors.KindTruncatedStream, record, "reading x", err)
		}
		if d.modal.xyRelative {
			x += *mx
		}
		*mx = x
	} else {
		x = *mx
	}
	if info&0x08 != 0 {
		if y, err = d.r.ReadInt(); err != nil {
			return 0, 0, d.fail(errors.KindTruncatedStream, record, "reading y", err)
		}
		if d.modal.xyRelative {
			y += *my
		}
		*my = y
	} else {
		y = *my
	}
	return x, y, nil
}

func (d *decoder) undefinedModal(record, field string) error {
	return errors.New(errors.PhaseDecode, errors.KindMalformedStructure).
		Record(record).Offset(d.r.Position()).
		Detail("use of undefined modal %s", field).Build()
}

func (d *decoder) fail(kind errors.Kind, record, detail string, cause error) error {
	b := errors.New(errors.PhaseDecode, kind).Offset(d.r.Position()).Detail("%s", detail)
	if record != "" {
		b = b.Record(record)
	}
	if cause != nil {
		b = b.Cause(cause)
	}
	return b.Build()
}
