package layout_test

import (
	"errors"
	"strings"
	"testing"

	goerrors "github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/layout"
)

func lib(cells ...*layout.Cell) *layout.Library {
	l := &layout.Library{Name: "LIB", DBUnitInUserUnits: 1e-3, DBUnitInMeters: 1e-9}
	for _, c := range cells {
		l.AddCell(c)
	}
	return l
}

func ref(target string) layout.Reference {
	return layout.Reference{Target: target, Transform: layout.Identity()}
}

func TestLinkResolves(t *testing.T) {
	l := lib(
		&layout.Cell{Name: "unit"},
		&layout.Cell{Name: "top", Elements: []layout.Element{ref("unit")}},
	)
	if err := l.Link(); err != nil {
		t.Fatalf("Link: %v", err)
	}
}

func TestLinkUnresolvedReference(t *testing.T) {
	l := lib(&layout.Cell{Name: "top", Elements: []layout.Element{ref("ghost")}})
	err := l.Link()
	if !errors.Is(err, goerrors.ErrUnresolvedReference) {
		t.Fatalf("expected unresolved reference error, got %v", err)
	}
}

func TestLinkDirectCycle(t *testing.T) {
	l := lib(&layout.Cell{Name: "A", Elements: []layout.Element{ref("A")}})
	err := l.Link()
	if !errors.Is(err, goerrors.ErrCyclicReference) {
		t.Fatalf("expected cyclic reference error, got %v", err)
	}
}

func TestLinkMutualCycle(t *testing.T) {
	l := lib(
		&layout.Cell{Name: "A", Elements: []layout.Element{ref("B")}},
		&layout.Cell{Name: "B", Elements: []layout.Element{ref("A")}},
	)
	err := l.Link()
	if !errors.Is(err, goerrors.ErrCyclicReference) {
		t.Fatalf("expected cyclic reference error, got %v", err)
	}
	if !strings.Contains(err.Error(), "A -> B -> A") && !strings.Contains(err.Error(), "B -> A -> B") {
		t.Errorf("error should name the cycle, got %q", err.Error())
	}
}

func TestLinkTransitiveCycleThroughArray(t *testing.T) {
	l := lib(
		&layout.Cell{Name: "A", Elements: []layout.Element{ref("B")}},
		&layout.Cell{Name: "B", Elements: []layout.Element{
			layout.ArrayReference{Target: "C", Transform: layout.Identity(), Cols: 1, Rows: 1},
		}},
		&layout.Cell{Name: "C", Elements: []layout.Element{ref("A")}},
	)
	if err := l.Link(); !errors.Is(err, goerrors.ErrCyclicReference) {
		t.Fatalf("expected cyclic reference error, got %v", err)
	}
}

func TestLinkSharedSubcellIsNotACycle(t *testing.T) {
	// Diamond: top references left and right, both reference leaf.
	l := lib(
		&layout.Cell{Name: "leaf"},
		&layout.Cell{Name: "left", Elements: []layout.Element{ref("leaf")}},
		&layout.Cell{Name: "right", Elements: []layout.Element{ref("leaf")}},
		&layout.Cell{Name: "top", Elements: []layout.Element{ref("left"), ref("right")}},
	)
	if err := l.Link(); err != nil {
		t.Fatalf("diamond hierarchy should link, got %v", err)
	}
}

func TestLinkDuplicateCellName(t *testing.T) {
	l := lib(&layout.Cell{Name: "dup"}, &layout.Cell{Name: "dup"})
	err := l.Link()
	var e *goerrors.Error
	if !errors.As(err, &e) || e.Kind != goerrors.KindDuplicateCell {
		t.Fatalf("expected duplicate cell error, got %v", err)
	}
}

func TestCellNamesDeclarationOrder(t *testing.T) {
	l := lib(
		&layout.Cell{Name: "via"},
		&layout.Cell{Name: "nand2"},
		&layout.Cell{Name: "inv1"},
		&layout.Cell{Name: "abc2"},
	)
	want := []string{"via", "nand2", "inv1", "abc2"}
	got := l.CellNames()
	if len(got) != len(want) {
		t.Fatalf("CellNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CellNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
