package oasis_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	goerrors "github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/layout"
	"github.com/kinimod0/gOASper/oasis"
)

// testLibrary builds a model touching every element variant. The library
// name stays empty: OASIS has no equivalent field.
func testLibrary() *layout.Library {
	lib := &layout.Library{
		DBUnitInUserUnits: 1e-3,
		DBUnitInMeters:    1e-9,
	}
	lib.AddCell(&layout.Cell{
		Name: "unit",
		Elements: []layout.Element{
			layout.Polygon{Layer: 5, Datatype: 0, Points: []layout.Point{
				{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 200}, {X: 0, Y: 200},
			}},
			layout.Path{Layer: 3, Datatype: 1, Width: 4, Style: layout.EndExtended, Points: []layout.Point{
				{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 70},
			}},
			layout.Box{Layer: 8, Boxtype: 2, Min: layout.Point{X: -10, Y: -10}, Max: layout.Point{X: 10, Y: 10}},
		},
	})
	lib.AddCell(&layout.Cell{
		Name: "top",
		Elements: []layout.Element{
			layout.Reference{Target: "unit", Transform: layout.Transform{
				Translation:   layout.Point{X: 100, Y: 200},
				Rotation:      90,
				Mirror:        true,
				Magnification: 1,
			}},
			layout.ArrayReference{
				Target:    "unit",
				Transform: layout.Transform{Magnification: 1},
				Cols:      3, Rows: 2,
				ColStep: layout.Point{X: 400},
				RowStep: layout.Point{Y: 500},
			},
			layout.Text{Layer: 60, Texttype: 0, Origin: layout.Point{X: 5, Y: 5},
				Value: "label", Transform: layout.Identity()},
		},
	})
	return lib
}

func TestEncodeMagicAndEndLength(t *testing.T) {
	data, err := oasis.Encode(testLibrary())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(oasis.Magic)) {
		t.Errorf("output does not start with %q", oasis.Magic)
	}
	// END is the last record and occupies exactly 256 bytes.
	end := data[len(data)-256]
	if end != 2 {
		t.Errorf("byte 256 from the end = %d, want END record type 2", end)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := testLibrary()
	data, err := oasis.Encode(want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := oasis.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff(want.Cells, got.Cells); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
	if rel := math.Abs(got.DBUnitInMeters-want.DBUnitInMeters) / want.DBUnitInMeters; rel > 1e-12 {
		t.Errorf("DBUnitInMeters = %g, want %g", got.DBUnitInMeters, want.DBUnitInMeters)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	lib := testLibrary()
	first, err := oasis.Encode(lib)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := oasis.Encode(lib)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("two encodings of the same model differ")
	}
}

// Two consecutive polygons on the same layer must omit the layer and
// datatype fields in the second record, so the same-layer encoding is
// strictly smaller than the mixed-layer one.
func TestEncodeModalOmission(t *testing.T) {
	poly := func(layer uint16, x int32) layout.Polygon {
		return layout.Polygon{Layer: layer, Datatype: 0, Points: []layout.Point{
			{X: x, Y: 0}, {X: x + 10, Y: 0}, {X: x + 10, Y: 10}, {X: x, Y: 10},
		}}
	}
	build := func(secondLayer uint16) *layout.Library {
		lib := &layout.Library{DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
		lib.AddCell(&layout.Cell{Name: "a", Elements: []layout.Element{
			poly(5, 0), poly(secondLayer, 100),
		}})
		return lib
	}

	same, err := oasis.Encode(build(5))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	mixed, err := oasis.Encode(build(6))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(same) >= len(mixed) {
		t.Errorf("same-layer encoding (%d bytes) not smaller than mixed-layer (%d bytes)", len(same), len(mixed))
	}

	got, err := oasis.Parse(same)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second := got.Cells[0].Elements[1].(layout.Polygon)
	if second.Layer != 5 || second.Datatype != 0 {
		t.Errorf("second polygon decoded as layer %d datatype %d, want 5/0", second.Layer, second.Datatype)
	}
}

func TestEncodeOddPathWidth(t *testing.T) {
	lib := &layout.Library{DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
	lib.AddCell(&layout.Cell{Name: "a", Elements: []layout.Element{
		layout.Path{Layer: 1, Width: 5, Points: []layout.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}},
	}})
	_, err := oasis.Encode(lib)
	if !errors.Is(err, goerrors.ErrUnencodableValue) {
		t.Fatalf("err = %v, want unencodable value", err)
	}
	var ge *goerrors.Error
	if !errors.As(err, &ge) {
		t.Fatal("expected structured error")
	}
	if ge.Cell != "a" || ge.Index != 0 {
		t.Errorf("error located at cell %q element %d, want a/0", ge.Cell, ge.Index)
	}
}

func TestEncodeRoundEndCaps(t *testing.T) {
	lib := &layout.Library{DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
	lib.AddCell(&layout.Cell{Name: "a", Elements: []layout.Element{
		layout.Path{Layer: 1, Width: 4, Style: layout.EndRound,
			Points: []layout.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}},
	}})
	if _, err := oasis.Encode(lib); !errors.Is(err, goerrors.ErrUnencodableValue) {
		t.Fatalf("err = %v, want unencodable value", err)
	}
}

func TestEncodeUnresolvedReference(t *testing.T) {
	lib := &layout.Library{DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
	lib.AddCell(&layout.Cell{Name: "a", Elements: []layout.Element{
		layout.Reference{Target: "ghost", Transform: layout.Identity()},
	}})
	if _, err := oasis.Encode(lib); !errors.Is(err, goerrors.ErrUnresolvedReference) {
		t.Fatalf("err = %v, want unresolved reference", err)
	}
}

func TestEncodeArrayGrid(t *testing.T) {
	lib := &layout.Library{DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
	lib.AddCell(&layout.Cell{Name: "unit"})
	lib.AddCell(&layout.Cell{Name: "top", Elements: []layout.Element{
		layout.ArrayReference{
			Target:    "unit",
			Transform: layout.Transform{Magnification: 1},
			Cols:      4, Rows: 3,
			ColStep: layout.Point{X: 20},
			RowStep: layout.Point{Y: 30},
		},
	}})
	data, err := oasis.Encode(lib)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := oasis.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	arr := got.Cells[1].Elements[0].(layout.ArrayReference)
	if arr.Cols != 4 || arr.Rows != 3 {
		t.Errorf("decoded %dx%d array, want 4x3", arr.Cols, arr.Rows)
	}
	if len(arr.Instances()) != 12 {
		t.Errorf("array expands to %d instances, want 12", len(arr.Instances()))
	}
}

func TestEncodeNonIdentityTextTransform(t *testing.T) {
	lib := &layout.Library{DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
	lib.AddCell(&layout.Cell{Name: "a", Elements: []layout.Element{
		layout.Text{Layer: 1, Value: "x",
			Transform: layout.Transform{Rotation: 45, Magnification: 1}},
	}})
	if _, err := oasis.Encode(lib); !errors.Is(err, goerrors.ErrUnencodableValue) {
		t.Fatalf("err = %v, want unencodable value", err)
	}
}
