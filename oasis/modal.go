package oasis

import "github.com/kinimod0/gOASper/layout"

// modalUint is a modal variable holding an unsigned value. The zero value
// is undefined; reading an undefined modal variable is a format error.
type modalUint struct {
	value   uint64
	defined bool
}

func (m *modalUint) set(v uint64) {
	m.value = v
	m.defined = true
}

// equals reports whether the variable is defined and holds v. An element
// may omit a field only when this is true.
func (m *modalUint) equals(v uint64) bool {
	return m.defined && m.value == v
}

type modalInt struct {
	value   int64
	defined bool
}

func (m *modalInt) set(v int64) {
	m.value = v
	m.defined = true
}

func (m *modalInt) equals(v int64) bool {
	return m.defined && m.value == v
}

type modalPoints struct {
	points  []layout.Point
	defined bool
}

func (m *modalPoints) set(pts []layout.Point) {
	m.points = append(m.points[:0], pts...)
	m.defined = true
}

// equals compares the stored vertex list against pts with both lists
// shifted so their first vertex sits at the origin. Point list modals
// track shape, not position.
func (m *modalPoints) equals(pts []layout.Point) bool {
	if !m.defined || len(m.points) != len(pts) {
		return false
	}
	if len(pts) == 0 {
		return true
	}
	ox := m.points[0].X - pts[0].X
	oy := m.points[0].Y - pts[0].Y
	for i, p := range pts {
		if m.points[i].X-p.X != ox || m.points[i].Y-p.Y != oy {
			return false
		}
	}
	return true
}

// modalState holds the modal variables of the OASIS element machine. Each
// CELL record resets it; coordinate modals reset to zero in absolute mode,
// all others to undefined.
type modalState struct {
	placementX, placementY int64
	geometryX, geometryY   int64
	textX, textY           int64
	xyRelative             bool

	placementCell modalUint
	layer         modalUint
	datatype      modalUint
	textlayer     modalUint
	texttype      modalUint
	textString    modalUint
	geometryW     modalUint
	geometryH     modalUint
	pathHalfwidth modalUint
	pathStartExt  modalInt
	pathEndExt    modalInt
	polygonPoints modalPoints
	pathPoints    modalPoints
	repetition    modalRep
}

// repetition describes a rectangular grid of element copies. cols copies
// are laid out along colStep and rows copies along rowStep, including the
// original at the element position.
type repetition struct {
	Cols, Rows       int
	ColStep, RowStep layout.Point
}

type modalRep struct {
	value   repetition
	defined bool
}

func (m *modalRep) set(r repetition) {
	m.value = r
	m.defined = true
}

func (m *modalState) reset() {
	*m = modalState{}
}
