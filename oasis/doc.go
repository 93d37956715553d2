// Package oasis encodes and decodes the OASIS stream format.
//
// The encoder walks a layout.Library cell by cell and emits records
// through a modal variable machine: before writing a field it compares
// the value against the running modal context, clears the presence bit
// and omits the field when they match, and updates the context when they
// differ. The context resets to the format defaults at every CELL
// record. Cell names and text strings are written once into name tables
// and referenced by number afterwards, with numbers assigned in
// declaration order so identical models produce identical bytes.
//
// The decoder reverses the process and exists primarily to verify the
// encoder's modal bookkeeping. It covers the record subset the encoder
// emits plus the common variations; CBLOCK compression and property
// records are rejected with an unsupported error.
package oasis
