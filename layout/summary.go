package layout

import "math"

// BBox is an axis-aligned bounding box in database units.
type BBox struct {
	MinX, MinY int32
	MaxX, MaxY int32
}

// EmptyBBox returns a box that contains no points.
func EmptyBBox() BBox {
	return BBox{
		MinX: math.MaxInt32, MinY: math.MaxInt32,
		MaxX: math.MinInt32, MaxY: math.MinInt32,
	}
}

// Valid reports whether the box contains at least one point.
func (b BBox) Valid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY
}

// IncludePoint grows the box to contain p.
func (b *BBox) IncludePoint(p Point) {
	b.MinX = min(b.MinX, p.X)
	b.MinY = min(b.MinY, p.Y)
	b.MaxX = max(b.MaxX, p.X)
	b.MaxY = max(b.MaxY, p.Y)
}

// Include grows the box to contain another box.
func (b *BBox) Include(o BBox) {
	if !o.Valid() {
		return
	}
	b.IncludePoint(Point{o.MinX, o.MinY})
	b.IncludePoint(Point{o.MaxX, o.MaxY})
}

// LayerKey identifies a layer/datatype pair.
type LayerKey struct {
	Layer    uint16
	Datatype uint16
}

// CellSummary aggregates per-cell statistics over the cell's own geometry.
// Referenced cells are not flattened in.
type CellSummary struct {
	Name          string
	BBox          BBox
	LayerPolygons map[LayerKey]int
	TotalPolygons int
}

// LibrarySummary is the top-level introspection view of a library.
type LibrarySummary struct {
	Name  string
	Cells []CellSummary
}

// Summarize computes per-cell bounding boxes and polygon counts, in cell
// declaration order.
func (l *Library) Summarize() LibrarySummary {
	s := LibrarySummary{Name: l.Name, Cells: make([]CellSummary, 0, len(l.Cells))}
	for _, c := range l.Cells {
		cs := CellSummary{
			Name:          c.Name,
			BBox:          EmptyBBox(),
			LayerPolygons: make(map[LayerKey]int),
		}
		for _, el := range c.Elements {
			switch e := el.(type) {
			case Polygon:
				cs.LayerPolygons[LayerKey{e.Layer, e.Datatype}]++
				cs.TotalPolygons++
				for _, p := range e.Points {
					cs.BBox.IncludePoint(p)
				}
			case Path:
				for _, p := range e.Points {
					cs.BBox.IncludePoint(p)
				}
			case Box:
				cs.BBox.IncludePoint(e.Min)
				cs.BBox.IncludePoint(e.Max)
			case Text:
				cs.BBox.IncludePoint(e.Origin)
			}
		}
		s.Cells = append(s.Cells, cs)
	}
	return s
}

// Polygons returns the polygons declared directly in the named cell, or nil
// when the cell does not exist.
func (l *Library) Polygons(cell string) []Polygon {
	c, ok := l.Cell(cell)
	if !ok {
		return nil
	}
	var out []Polygon
	for _, el := range c.Elements {
		if p, ok := el.(Polygon); ok {
			out = append(out, p)
		}
	}
	return out
}
