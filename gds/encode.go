package gds

import (
	"io"
	"math"

	"github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/gds/internal/record"
	"github.com/kinimod0/gOASper/layout"
)

const streamVersion = 600

// Encode serializes the library to GDSII stream format.
func Encode(lib *layout.Library) ([]byte, error) {
	w := record.NewWriter()

	if err := w.Int2s(record.TypeHeader, streamVersion); err != nil {
		return nil, err
	}
	// Timestamps are zeroed so identical models encode to identical bytes.
	if err := w.Int2s(record.TypeBgnLib, make([]int16, 12)...); err != nil {
		return nil, err
	}
	if err := w.String(record.TypeLibName, lib.Name); err != nil {
		return nil, err
	}
	uu, mu := lib.DBUnitInUserUnits, lib.DBUnitInMeters
	if uu == 0 {
		uu = 1e-3
	}
	if mu == 0 {
		mu = 1e-9
	}
	if err := w.Real8s(record.TypeUnits, uu, mu); err != nil {
		return nil, err
	}

	for _, c := range lib.Cells {
		if err := encodeCell(w, c); err != nil {
			return nil, err
		}
	}

	if err := w.Empty(record.TypeEndLib); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeTo serializes the library to GDSII stream format on w.
func EncodeTo(w io.Writer, lib *layout.Library) error {
	data, err := Encode(lib)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func encodeCell(w *record.Writer, c *layout.Cell) error {
	if err := w.Int2s(record.TypeBgnStr, make([]int16, 12)...); err != nil {
		return err
	}
	if err := w.String(record.TypeStrName, c.Name); err != nil {
		return err
	}
	for i, el := range c.Elements {
		if err := encodeElement(w, c.Name, i, el); err != nil {
			return err
		}
	}
	return w.Empty(record.TypeEndStr)
}

func encodeElement(w *record.Writer, cell string, index int, el layout.Element) error {
	layerLimit := func(name string, v uint16) error {
		if v > math.MaxInt16 {
			return errors.Unencodable(cell, index, name+" exceeds int2 range", v)
		}
		return nil
	}

	switch e := el.(type) {
	case layout.Polygon:
		if err := layerLimit("layer", e.Layer); err != nil {
			return err
		}
		if err := layerLimit("datatype", e.Datatype); err != nil {
			return err
		}
		if err := w.Empty(record.TypeBoundary); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeLayer, int16(e.Layer)); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeDatatype, int16(e.Datatype)); err != nil {
			return err
		}
		pts := fromPoints(e.Points)
		pts = append(pts, pts[0]) // explicit closing vertex
		if err := w.Points(record.TypeXY, pts); err != nil {
			return err
		}

	case layout.Path:
		if err := layerLimit("layer", e.Layer); err != nil {
			return err
		}
		if err := layerLimit("datatype", e.Datatype); err != nil {
			return err
		}
		if err := w.Empty(record.TypePath); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeLayer, int16(e.Layer)); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeDatatype, int16(e.Datatype)); err != nil {
			return err
		}
		if e.Style != layout.EndFlush {
			if err := w.Int2s(record.TypePathType, int16(e.Style)); err != nil {
				return err
			}
		}
		if e.Width != 0 {
			if err := w.Int4s(record.TypeWidth, e.Width); err != nil {
				return err
			}
		}
		if err := w.Points(record.TypeXY, fromPoints(e.Points)); err != nil {
			return err
		}

	case layout.Box:
		if err := layerLimit("layer", e.Layer); err != nil {
			return err
		}
		if err := layerLimit("boxtype", e.Boxtype); err != nil {
			return err
		}
		if err := w.Empty(record.TypeBox); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeLayer, int16(e.Layer)); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeBoxType, int16(e.Boxtype)); err != nil {
			return err
		}
		corners := [][2]int32{
			{e.Min.X, e.Min.Y},
			{e.Max.X, e.Min.Y},
			{e.Max.X, e.Max.Y},
			{e.Min.X, e.Max.Y},
			{e.Min.X, e.Min.Y},
		}
		if err := w.Points(record.TypeXY, corners); err != nil {
			return err
		}

	case layout.Text:
		if err := layerLimit("layer", e.Layer); err != nil {
			return err
		}
		if err := layerLimit("texttype", e.Texttype); err != nil {
			return err
		}
		if err := w.Empty(record.TypeText); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeLayer, int16(e.Layer)); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeTextType, int16(e.Texttype)); err != nil {
			return err
		}
		if e.Presentation != 0 {
			if err := w.BitArray(record.TypePresentation, e.Presentation); err != nil {
				return err
			}
		}
		if err := encodeTransform(w, e.Transform); err != nil {
			return err
		}
		if err := w.Points(record.TypeXY, [][2]int32{{e.Origin.X, e.Origin.Y}}); err != nil {
			return err
		}
		if err := w.String(record.TypeString, e.Value); err != nil {
			return err
		}

	case layout.Reference:
		if err := w.Empty(record.TypeSRef); err != nil {
			return err
		}
		if err := w.String(record.TypeSName, e.Target); err != nil {
			return err
		}
		if err := encodeTransform(w, e.Transform); err != nil {
			return err
		}
		origin := e.Transform.Translation
		if err := w.Points(record.TypeXY, [][2]int32{{origin.X, origin.Y}}); err != nil {
			return err
		}

	case layout.ArrayReference:
		if e.Cols > math.MaxInt16 || e.Rows > math.MaxInt16 {
			return errors.Unencodable(cell, index, "array dimensions exceed int2 range", e)
		}
		if err := w.Empty(record.TypeARef); err != nil {
			return err
		}
		if err := w.String(record.TypeSName, e.Target); err != nil {
			return err
		}
		if err := encodeTransform(w, e.Transform); err != nil {
			return err
		}
		if err := w.Int2s(record.TypeColRow, int16(e.Cols), int16(e.Rows)); err != nil {
			return err
		}
		origin := e.Transform.Translation
		corners := [][2]int32{
			{origin.X, origin.Y},
			{origin.X + e.ColStep.X*int32(e.Cols), origin.Y + e.ColStep.Y*int32(e.Cols)},
			{origin.X + e.RowStep.X*int32(e.Rows), origin.Y + e.RowStep.Y*int32(e.Rows)},
		}
		if err := w.Points(record.TypeXY, corners); err != nil {
			return err
		}

	default:
		return errors.Unencodable(cell, index, "unknown element variant", el)
	}

	return w.Empty(record.TypeEndEl)
}

// encodeTransform emits STRANS/MAG/ANGLE records when the transform's
// non-translation part is not the identity.
func encodeTransform(w *record.Writer, t layout.Transform) error {
	mag := t.Magnification
	if mag == 0 {
		mag = 1
	}
	if !t.Mirror && t.Rotation == 0 && mag == 1 {
		return nil
	}
	var strans uint16
	if t.Mirror {
		strans |= 0x8000
	}
	if err := w.BitArray(record.TypeSTrans, strans); err != nil {
		return err
	}
	if mag != 1 {
		if err := w.Real8s(record.TypeMag, mag); err != nil {
			return err
		}
	}
	if t.Rotation != 0 {
		if err := w.Real8s(record.TypeAngle, t.Rotation); err != nil {
			return err
		}
	}
	return nil
}

func fromPoints(pts []layout.Point) [][2]int32 {
	out := make([][2]int32, len(pts))
	for i, p := range pts {
		out[i] = [2]int32{p.X, p.Y}
	}
	return out
}
