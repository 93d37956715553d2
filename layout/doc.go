// Package layout defines the in-memory model of a hierarchical IC layout.
//
// A Library owns an ordered list of Cells; each Cell holds an ordered
// sequence of Elements. Elements are a tagged union: Polygon, Path, Box, Text,
// Reference, and ArrayReference. References target other cells by name; Link
// validates that every target exists and that the reference graph is acyclic.
//
// Coordinates are int32 database units. The Library carries the two UNITS
// scale factors relating database units to user units and meters.
//
// Transform implements the placement algebra shared by GDSII and OASIS:
// magnification, then mirror about the x axis, then rotation, then
// translation. Compose multiplies transforms in hierarchy order, with the
// outer transform applied to the result of the inner.
package layout
