package layout_test

import (
	"testing"

	"github.com/kinimod0/gOASper/layout"
)

func TestTransformApplyOrder(t *testing.T) {
	// Magnification, then mirror, then rotation, then translation.
	tr := layout.Transform{
		Translation:   layout.Point{X: 100, Y: 0},
		Rotation:      90,
		Mirror:        true,
		Magnification: 2,
	}
	// (3,4) -> mag (6,8) -> mirror (6,-8) -> rot90 (8,6) -> translate (108,6)
	got := tr.Apply(layout.Point{X: 3, Y: 4})
	want := layout.Point{X: 108, Y: 6}
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestTransformApplyRectilinear(t *testing.T) {
	tests := []struct {
		name string
		tr   layout.Transform
		in   layout.Point
		want layout.Point
	}{
		{"identity", layout.Identity(), layout.Point{5, 7}, layout.Point{5, 7}},
		{"rot90", layout.Transform{Rotation: 90, Magnification: 1}, layout.Point{10, 0}, layout.Point{0, 10}},
		{"rot180", layout.Transform{Rotation: 180, Magnification: 1}, layout.Point{10, 5}, layout.Point{-10, -5}},
		{"rot270", layout.Transform{Rotation: 270, Magnification: 1}, layout.Point{10, 0}, layout.Point{0, -10}},
		{"mirror", layout.Transform{Mirror: true, Magnification: 1}, layout.Point{3, 4}, layout.Point{3, -4}},
		{"negative angle wraps", layout.Transform{Rotation: -90, Magnification: 1}, layout.Point{10, 0}, layout.Point{0, -10}},
		{"zero magnification means one", layout.Transform{}, layout.Point{9, 9}, layout.Point{9, 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.Apply(tt.in); got != tt.want {
				t.Errorf("Apply(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTransformArbitraryAngle(t *testing.T) {
	tr := layout.Transform{Rotation: 45, Magnification: 1}
	got := tr.Apply(layout.Point{X: 100, Y: 0})
	// 100/sqrt(2) rounds to 71.
	want := layout.Point{X: 71, Y: 71}
	if got != want {
		t.Errorf("Apply = %v, want %v", got, want)
	}
}

func TestCompose(t *testing.T) {
	inner := layout.Transform{Translation: layout.Point{X: 10, Y: 0}, Magnification: 1}
	outer := layout.Transform{Rotation: 90, Magnification: 1}

	composed := layout.Compose(outer, inner)
	p := layout.Point{X: 1, Y: 0}

	direct := outer.Apply(inner.Apply(p))
	viaCompose := composed.Apply(p)
	if direct != viaCompose {
		t.Errorf("compose mismatch: direct %v, composed %v", direct, viaCompose)
	}
	if want := (layout.Point{X: 0, Y: 11}); viaCompose != want {
		t.Errorf("composed Apply = %v, want %v", viaCompose, want)
	}
}

func TestComposeMirrorFlipsInnerRotation(t *testing.T) {
	inner := layout.Transform{Rotation: 90, Magnification: 1}
	outer := layout.Transform{Mirror: true, Magnification: 1}

	composed := layout.Compose(outer, inner)
	for _, p := range []layout.Point{{1, 0}, {0, 1}, {-3, 7}} {
		direct := outer.Apply(inner.Apply(p))
		got := composed.Apply(p)
		if got != direct {
			t.Errorf("point %v: composed %v, direct %v", p, got, direct)
		}
	}
}

func TestIsIdentity(t *testing.T) {
	if !layout.Identity().IsIdentity() {
		t.Error("Identity() should be identity")
	}
	if !(layout.Transform{Rotation: 360, Magnification: 1}).IsIdentity() {
		t.Error("full turn should be identity")
	}
	if (layout.Transform{Mirror: true, Magnification: 1}).IsIdentity() {
		t.Error("mirror is not identity")
	}
}

func TestArrayReferenceInstances(t *testing.T) {
	aref := layout.ArrayReference{
		Target:    "unit",
		Transform: layout.Identity(),
		Cols:      2,
		Rows:      2,
		ColStep:   layout.Point{X: 10, Y: 0},
		RowStep:   layout.Point{X: 0, Y: 10},
	}

	instances := aref.Instances()
	if len(instances) != 4 {
		t.Fatalf("expected 4 instances, got %d", len(instances))
	}

	want := []layout.Point{{0, 0}, {10, 0}, {0, 10}, {10, 10}}
	for i, inst := range instances {
		got := inst.Apply(layout.Point{})
		if got != want[i] {
			t.Errorf("instance %d at %v, want %v", i, got, want[i])
		}
	}
}
