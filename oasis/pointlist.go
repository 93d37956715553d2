package oasis

import (
	"github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/layout"
	"github.com/kinimod0/gOASper/oasis/internal/binary"
)

// writePointList emits pts[1:] as deltas from pts[0]. Purely manhattan
// outlines with strictly alternating edge directions use the compact
// 1-delta forms; everything else falls back to g-deltas. For polygons the
// 1-delta form implies the final vertex, so the last delta stays unwritten
// and the whole closed cycle must alternate.
func writePointList(w *binary.Writer, pts []layout.Point, forPolygon bool) {
	n := len(pts) - 1
	if forPolygon {
		if typ, ok := oneDeltaCycle(pts); ok {
			write1Deltas(w, typ, pts[:len(pts)-1])
			return
		}
	} else if typ, ok := oneDeltaChain(pts); ok {
		write1Deltas(w, typ, pts)
		return
	}
	w.Uint(pointListGDelta)
	w.Uint(uint64(n))
	for i := 1; i <= n; i++ {
		w.GDelta(int64(pts[i].X-pts[i-1].X), int64(pts[i].Y-pts[i-1].Y))
	}
}

func write1Deltas(w *binary.Writer, typ uint64, pts []layout.Point) {
	w.Uint(typ)
	w.Uint(uint64(len(pts) - 1))
	for i := 1; i < len(pts); i++ {
		dx := int64(pts[i].X - pts[i-1].X)
		if dx != 0 {
			w.Int(dx)
		} else {
			w.Int(int64(pts[i].Y - pts[i-1].Y))
		}
	}
}

// oneDeltaChain reports whether the open edge sequence alternates strictly
// between horizontal and vertical, and which 1-delta form applies.
func oneDeltaChain(pts []layout.Point) (uint64, bool) {
	if len(pts) < 2 {
		return 0, false
	}
	horizontal := pts[1].Y == pts[0].Y && pts[1].X != pts[0].X
	if !alternates(pts, horizontal) {
		return 0, false
	}
	if horizontal {
		return pointList1DeltaH, true
	}
	return pointList1DeltaV, true
}

// oneDeltaCycle is the polygon variant: the closing edge back to the first
// vertex participates in the alternation, so the cycle length must be even.
func oneDeltaCycle(pts []layout.Point) (uint64, bool) {
	if len(pts) < 4 || len(pts)%2 != 0 {
		return 0, false
	}
	closed := make([]layout.Point, 0, len(pts)+1)
	closed = append(closed, pts...)
	closed = append(closed, pts[0])
	return oneDeltaChain(closed)
}

func alternates(pts []layout.Point, horizontal bool) bool {
	for i := 1; i < len(pts); i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y
		if (dx == 0) == (dy == 0) {
			return false
		}
		if (dy == 0) != horizontal {
			return false
		}
		horizontal = !horizontal
	}
	return true
}

// readPointList decodes a point list into vertices relative to the
// element position. forPolygon adds the vertex implied by the manhattan
// closure of 1-delta lists.
func readPointList(r *binary.Reader, forPolygon bool) ([]layout.Point, error) {
	typ, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUint()
	if err != nil {
		return nil, err
	}
	pts := make([]layout.Point, 1, count+2)
	var x, y int64
	var prevDX, prevDY int64
	horizontal := typ == pointList1DeltaH
	for i := uint64(0); i < count; i++ {
		var dx, dy int64
		switch typ {
		case pointList1DeltaH, pointList1DeltaV:
			v, err := r.ReadInt()
			if err != nil {
				return nil, err
			}
			if horizontal {
				dx = v
			} else {
				dy = v
			}
			horizontal = !horizontal
		case pointList2Delta:
			u, err := r.ReadUint()
			if err != nil {
				return nil, err
			}
			mag := int64(u >> 2)
			switch u & 3 {
			case 0:
				dx = mag
			case 1:
				dy = mag
			case 2:
				dx = -mag
			default:
				dy = -mag
			}
		case pointList3Delta:
			u, err := r.ReadUint()
			if err != nil {
				return nil, err
			}
			dx, dy = octDelta(u)
		case pointListGDelta:
			dx, dy, err = r.ReadGDelta()
			if err != nil {
				return nil, err
			}
		case pointListGDouble:
			dx, dy, err = r.ReadGDelta()
			if err != nil {
				return nil, err
			}
			dx += prevDX
			dy += prevDY
			prevDX, prevDY = dx, dy
		default:
			return nil, errors.New(errors.PhaseDecode, errors.KindUnsupported).
				Detail("point list type %d", typ).Build()
		}
		x += dx
		y += dy
		pts = append(pts, layout.Point{X: int32(x), Y: int32(y)})
	}
	if forPolygon && (typ == pointList1DeltaH || typ == pointList1DeltaV) {
		// Manhattan closure: one implied vertex completes the outline
		// back to the first point with a horizontal and a vertical edge.
		if horizontal {
			pts = append(pts, layout.Point{X: 0, Y: int32(y)})
		} else {
			pts = append(pts, layout.Point{X: int32(x), Y: 0})
		}
	}
	return pts, nil
}

func octDelta(u uint64) (dx, dy int64) {
	mag := int64(u >> 3)
	switch u & 7 {
	case 0:
		return mag, 0
	case 1:
		return 0, mag
	case 2:
		return -mag, 0
	case 3:
		return 0, -mag
	case 4:
		return mag, mag
	case 5:
		return -mag, mag
	case 6:
		return -mag, -mag
	default:
		return mag, -mag
	}
}
