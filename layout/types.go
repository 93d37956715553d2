package layout

// Point is a coordinate pair in database units.
type Point struct {
	X, Y int32
}

// Add returns the vector sum of two points.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Scale returns the point multiplied by an integer factor.
func (p Point) Scale(n int32) Point {
	return Point{p.X * n, p.Y * n}
}

// Library is the root container of a layout: a named collection of cells in
// declaration order. Cell names are unique within a library.
type Library struct {
	// Name is the library name from the LIBNAME record.
	Name string

	// DBUnitInUserUnits is the size of one database unit expressed in user
	// units (first UNITS real, typically 1e-3).
	DBUnitInUserUnits float64

	// DBUnitInMeters is the size of one database unit in meters (second
	// UNITS real, typically 1e-9).
	DBUnitInMeters float64

	// Cells in declaration order. Order is significant for deterministic
	// output and for CellNames.
	Cells []*Cell

	byName map[string]int
}

// Cell is a named structure holding an ordered sequence of elements.
type Cell struct {
	Name     string
	Elements []Element
}

// Element is the tagged union of layout element variants. The concrete types
// are Polygon, Path, Box, Text, Reference, and ArrayReference; consumers
// dispatch with a type switch.
type Element interface {
	element()
}

// Polygon is a closed boundary. The closing vertex is implicit: the final
// point is not duplicated.
type Polygon struct {
	Layer    uint16
	Datatype uint16
	Points   []Point
}

// EndStyle selects the end-cap treatment of a path.
type EndStyle uint8

const (
	EndFlush    EndStyle = 0 // square ends flush with endpoints
	EndRound    EndStyle = 1 // rounded ends
	EndExtended EndStyle = 2 // square ends extended by half the width
)

// Path is an open point sequence with a width.
type Path struct {
	Layer    uint16
	Datatype uint16
	Width    int32
	Style    EndStyle
	Points   []Point
}

// Box is an axis-aligned rectangle.
type Box struct {
	Layer   uint16
	Boxtype uint16
	Min     Point
	Max     Point
}

// Text is a string annotation anchored at a point.
type Text struct {
	Layer        uint16
	Texttype     uint16
	Origin       Point
	Value        string
	Presentation uint16
	Transform    Transform
}

// Reference is a single placement of another cell.
type Reference struct {
	Target    string
	Transform Transform
}

// ArrayReference is a rectangular lattice of placements of another cell.
// ColStep and RowStep are the per-instance displacement vectors in the parent
// cell's coordinates; instance (r, c) is placed at
// Transform.Translation + c*ColStep + r*RowStep.
type ArrayReference struct {
	Target    string
	Transform Transform
	Cols      int
	Rows      int
	ColStep   Point
	RowStep   Point
}

func (Polygon) element()        {}
func (Path) element()           {}
func (Box) element()            {}
func (Text) element()           {}
func (Reference) element()      {}
func (ArrayReference) element() {}

// Instances expands the array to one transform per lattice position, in
// row-major order.
func (a ArrayReference) Instances() []Transform {
	out := make([]Transform, 0, a.Rows*a.Cols)
	for r := 0; r < a.Rows; r++ {
		for c := 0; c < a.Cols; c++ {
			t := a.Transform
			t.Translation = t.Translation.
				Add(a.ColStep.Scale(int32(c))).
				Add(a.RowStep.Scale(int32(r)))
			out = append(out, t)
		}
	}
	return out
}

// AddCell appends a cell to the library. The name index built by Link is
// invalidated.
func (l *Library) AddCell(c *Cell) {
	l.Cells = append(l.Cells, c)
	l.byName = nil
}

// CellNames returns the cell names in declaration order.
func (l *Library) CellNames() []string {
	names := make([]string, len(l.Cells))
	for i, c := range l.Cells {
		names[i] = c.Name
	}
	return names
}

// Cell returns the cell with the given name, or false when absent.
func (l *Library) Cell(name string) (*Cell, bool) {
	i, ok := l.cellIndex(name)
	if !ok {
		return nil, false
	}
	return l.Cells[i], true
}

func (l *Library) cellIndex(name string) (int, bool) {
	if l.byName == nil {
		l.byName = make(map[string]int, len(l.Cells))
		for i, c := range l.Cells {
			l.byName[c.Name] = i
		}
	}
	i, ok := l.byName[name]
	return i, ok
}
