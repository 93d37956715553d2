package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the conversion pipeline the error occurred
type Phase string

const (
	PhaseParse  Phase = "parse"  // GDSII stream parsing
	PhaseLink   Phase = "link"   // cell reference resolution
	PhaseEncode Phase = "encode" // OASIS/GDSII encoding
	PhaseDecode Phase = "decode" // OASIS decoding
)

// Kind categorizes the error
type Kind string

const (
	KindTruncatedStream     Kind = "truncated_stream"
	KindInvalidRecordLength Kind = "invalid_record_length"
	KindMalformedStructure  Kind = "malformed_structure"
	KindUnexpectedEOF       Kind = "unexpected_eof"
	KindCyclicReference     Kind = "cyclic_reference"
	KindUnresolvedReference Kind = "unresolved_reference"
	KindUnencodableValue    Kind = "unencodable_value"
	KindDuplicateCell       Kind = "duplicate_cell"
	KindInvalidData         Kind = "invalid_data"
	KindOverflow            Kind = "overflow"
	KindUnsupported         Kind = "unsupported"
)

// Error is the structured error type used throughout the conversion engine
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Cell   string
	Record string
	Detail string
	Offset int64 // byte offset in the stream, -1 when not applicable
	Index  int   // element index within Cell, -1 when not applicable
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Record != "" {
		b.WriteString(" in ")
		b.WriteString(e.Record)
	}
	if e.Cell != "" {
		b.WriteString(" at cell ")
		b.WriteString(e.Cell)
		if e.Index >= 0 {
			fmt.Fprintf(&b, " element %d", e.Index)
		}
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Sentinel values for errors.Is matching. Only Phase and Kind participate
// in the comparison, so these match any error of the same category.
var (
	ErrTruncatedStream     = &Error{Phase: PhaseParse, Kind: KindTruncatedStream, Offset: -1, Index: -1}
	ErrInvalidRecordLength = &Error{Phase: PhaseParse, Kind: KindInvalidRecordLength, Offset: -1, Index: -1}
	ErrMalformedStructure  = &Error{Phase: PhaseParse, Kind: KindMalformedStructure, Offset: -1, Index: -1}
	ErrUnexpectedEOF       = &Error{Phase: PhaseParse, Kind: KindUnexpectedEOF, Offset: -1, Index: -1}
	ErrCyclicReference     = &Error{Phase: PhaseLink, Kind: KindCyclicReference, Offset: -1, Index: -1}
	ErrUnresolvedReference = &Error{Phase: PhaseLink, Kind: KindUnresolvedReference, Offset: -1, Index: -1}
	ErrUnencodableValue    = &Error{Phase: PhaseEncode, Kind: KindUnencodableValue, Offset: -1, Index: -1}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
			Index:  -1,
		},
	}
}

// Cell sets the cell name
func (b *Builder) Cell(name string) *Builder {
	b.err.Cell = name
	return b
}

// Record sets the record name
func (b *Builder) Record(name string) *Builder {
	b.err.Record = name
	return b
}

// Offset sets the stream byte offset
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Index sets the element index within the cell
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Truncated creates a truncated-stream error at the given offset
func Truncated(offset int64, want, got int) *Error {
	return New(PhaseParse, KindTruncatedStream).
		Offset(offset).
		Detail("record payload requires %d bytes, %d remain", want, got).
		Build()
}

// InvalidLength creates an invalid-record-length error
func InvalidLength(offset int64, length int) *Error {
	return New(PhaseParse, KindInvalidRecordLength).
		Offset(offset).
		Value(length).
		Detail("declared record length %d", length).
		Build()
}

// Malformed creates a malformed-structure error for a record that violates
// the current grammar state
func Malformed(offset int64, record, detail string) *Error {
	return New(PhaseParse, KindMalformedStructure).
		Offset(offset).
		Record(record).
		Detail("%s", detail).
		Build()
}

// UnexpectedEOF creates an error for a stream ending before its terminator
func UnexpectedEOF(offset int64, expecting string) *Error {
	return New(PhaseParse, KindUnexpectedEOF).
		Offset(offset).
		Detail("stream ended while expecting %s", expecting).
		Build()
}

// Cyclic creates a cyclic-reference error naming the cycle
func Cyclic(chain []string) *Error {
	cell := ""
	if len(chain) > 0 {
		cell = chain[0]
	}
	return New(PhaseLink, KindCyclicReference).
		Cell(cell).
		Detail("reference cycle: %s", strings.Join(chain, " -> ")).
		Build()
}

// Unresolved creates an error for a reference to a cell not present in the library
func Unresolved(cell, target string) *Error {
	return New(PhaseLink, KindUnresolvedReference).
		Cell(cell).
		Detail("reference to undefined cell %q", target).
		Build()
}

// Unencodable creates an error for a value outside the target format's range
func Unencodable(cell string, index int, detail string, value any) *Error {
	return New(PhaseEncode, KindUnencodableValue).
		Cell(cell).
		Index(index).
		Value(value).
		Detail("%s", detail).
		Build()
}

// DuplicateCell creates an error for a structure name declared twice
func DuplicateCell(offset int64, name string) *Error {
	return New(PhaseParse, KindDuplicateCell).
		Offset(offset).
		Cell(name).
		Detail("structure name declared more than once").
		Build()
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Cause(cause).Detail("%s", detail).Build()
}
