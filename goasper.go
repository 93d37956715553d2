package goasper

import (
	"io"
	"os"
	"path/filepath"

	"golang.org/x/exp/mmap"

	"github.com/kinimod0/gOASper/errors"
	"github.com/kinimod0/gOASper/gds"
	"github.com/kinimod0/gOASper/layout"
	"github.com/kinimod0/gOASper/oasis"
)

// Layout is the collaborator-facing handle for a single conversion: load
// a file into it, inspect the model, save it back out. A Layout is owned
// by one conversion at a time; independent conversions each get their own
// and never share state.
type Layout struct {
	lib *layout.Library
}

// New creates an empty Layout.
func New() *Layout {
	return &Layout{}
}

// LoadGDS replaces the layout's content with the given GDSII file.
func (l *Layout) LoadGDS(path string) error {
	lib, err := LoadGDS(path)
	if err != nil {
		return err
	}
	l.lib = lib
	return nil
}

// LoadOASIS replaces the layout's content with the given OASIS file.
func (l *Layout) LoadOASIS(path string) error {
	lib, err := LoadOASIS(path)
	if err != nil {
		return err
	}
	l.lib = lib
	return nil
}

// SaveOASIS writes the layout as an OASIS file.
func (l *Layout) SaveOASIS(path string) error {
	return SaveOASIS(path, l.library())
}

// SaveGDS writes the layout as a GDSII file.
func (l *Layout) SaveGDS(path string) error {
	return SaveGDS(path, l.library())
}

// CellNames returns the cell names in declaration order.
func (l *Layout) CellNames() []string {
	return l.library().CellNames()
}

// Summary computes per-cell geometry statistics.
func (l *Layout) Summary() layout.LibrarySummary {
	return l.library().Summarize()
}

// Library exposes the underlying model for direct inspection or editing.
func (l *Layout) Library() *layout.Library {
	return l.library()
}

func (l *Layout) library() *layout.Library {
	if l.lib == nil {
		l.lib = &layout.Library{}
	}
	return l.lib
}

// LoadGDS reads a GDSII file into a layout library. The file is memory
// mapped, so large layouts parse without a second in-memory copy of the
// raw stream.
func LoadGDS(path string) (*layout.Library, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return gds.ParseReader(io.NewSectionReader(r, 0, int64(r.Len())))
}

// LoadOASIS reads an OASIS file into a layout library.
func LoadOASIS(path string) (*layout.Library, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return oasis.ParseReader(io.NewSectionReader(r, 0, int64(r.Len())))
}

// SaveOASIS writes the library as an OASIS file. Output goes to a
// temporary file in the target directory first and is renamed into place
// on success, so a failed conversion never leaves a partial file behind.
func SaveOASIS(path string, lib *layout.Library) error {
	data, err := oasis.Encode(lib)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// SaveGDS writes the library as a GDSII file, atomically like SaveOASIS.
func SaveGDS(path string, lib *layout.Library) error {
	data, err := gds.Encode(lib)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// Convert reads a GDSII file and writes its OASIS equivalent.
func Convert(gdsPath, oasisPath string) error {
	lib, err := LoadGDS(gdsPath)
	if err != nil {
		return err
	}
	return SaveOASIS(oasisPath, lib)
}

// CellNames returns the library's cell names in declaration order.
func CellNames(lib *layout.Library) []string {
	return lib.CellNames()
}

// Summarize computes per-cell geometry statistics for the library.
func Summarize(lib *layout.Library) layout.LibrarySummary {
	return lib.Summarize()
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(errors.PhaseEncode, errors.KindInvalidData, err, "creating temporary output file")
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
