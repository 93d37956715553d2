package layout

import "github.com/kinimod0/gOASper/errors"

// Flatten resolves the named cell's polygon geometry to absolute coordinates,
// following references and array references through arbitrary depth. Boxes
// are converted to four-point polygons; paths and texts are not expanded.
// The library must link cleanly; Flatten reports the same reference errors
// as Link.
func (l *Library) Flatten(cell string) ([]Polygon, error) {
	if err := l.Link(); err != nil {
		return nil, err
	}
	i, ok := l.cellIndex(cell)
	if !ok {
		return nil, errors.New(errors.PhaseLink, errors.KindUnresolvedReference).
			Detail("no cell named %q", cell).Build()
	}
	var out []Polygon
	l.flattenInto(&out, l.Cells[i], Identity())
	return out, nil
}

func (l *Library) flattenInto(out *[]Polygon, c *Cell, t Transform) {
	for _, el := range c.Elements {
		switch e := el.(type) {
		case Polygon:
			*out = append(*out, transformPolygon(e, t))
		case Box:
			poly := Polygon{
				Layer:    e.Layer,
				Datatype: e.Boxtype,
				Points: []Point{
					{e.Min.X, e.Min.Y},
					{e.Max.X, e.Min.Y},
					{e.Max.X, e.Max.Y},
					{e.Min.X, e.Max.Y},
				},
			}
			*out = append(*out, transformPolygon(poly, t))
		case Reference:
			ti, _ := l.cellIndex(e.Target)
			l.flattenInto(out, l.Cells[ti], Compose(t, e.Transform))
		case ArrayReference:
			ti, _ := l.cellIndex(e.Target)
			for _, inst := range e.Instances() {
				l.flattenInto(out, l.Cells[ti], Compose(t, inst))
			}
		}
	}
}

func transformPolygon(p Polygon, t Transform) Polygon {
	pts := make([]Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = t.Apply(pt)
	}
	return Polygon{Layer: p.Layer, Datatype: p.Datatype, Points: pts}
}
