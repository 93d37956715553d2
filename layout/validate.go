package layout

import (
	"github.com/kinimod0/gOASper/errors"
)

// Link validates the library's reference graph: every Reference and
// ArrayReference target must name a cell present in the library, and the
// graph must be acyclic. It is safe to call more than once.
func (l *Library) Link() error {
	seen := make(map[string]int, len(l.Cells))
	for i, c := range l.Cells {
		if _, dup := seen[c.Name]; dup {
			return errors.DuplicateCell(-1, c.Name)
		}
		seen[c.Name] = i
	}
	l.byName = seen

	for _, c := range l.Cells {
		for _, el := range c.Elements {
			target, ok := referenceTarget(el)
			if !ok {
				continue
			}
			if _, present := seen[target]; !present {
				return errors.Unresolved(c.Name, target)
			}
		}
	}

	return l.checkAcyclic()
}

func referenceTarget(el Element) (string, bool) {
	switch e := el.(type) {
	case Reference:
		return e.Target, true
	case ArrayReference:
		return e.Target, true
	}
	return "", false
}

type visitMark uint8

const (
	unvisited visitMark = iota
	visiting
	visited
)

// checkAcyclic runs a depth-first traversal over the reference graph. A back
// edge to a cell still on the visiting stack is a cycle.
func (l *Library) checkAcyclic() error {
	marks := make([]visitMark, len(l.Cells))
	var stack []string

	var visit func(i int) error
	visit = func(i int) error {
		switch marks[i] {
		case visited:
			return nil
		case visiting:
			// Trim the stack to the start of the cycle and close it.
			name := l.Cells[i].Name
			start := 0
			for j, s := range stack {
				if s == name {
					start = j
					break
				}
			}
			chain := append(append([]string{}, stack[start:]...), name)
			return errors.Cyclic(chain)
		}
		marks[i] = visiting
		stack = append(stack, l.Cells[i].Name)
		for _, el := range l.Cells[i].Elements {
			target, ok := referenceTarget(el)
			if !ok {
				continue
			}
			ti, _ := l.cellIndex(target)
			if err := visit(ti); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		marks[i] = visited
		return nil
	}

	for i := range l.Cells {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}
