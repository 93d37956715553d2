// Package gds parses and encodes GDSII stream-format layouts.
//
// The stream is a sequence of tagged, length-prefixed records. Parse runs a
// state machine over them, one grammar level at a time: library records
// (HEADER, BGNLIB, LIBNAME, UNITS) until the first BGNSTR, structure records
// (STRNAME, elements) until ENDSTR, and element field records (LAYER,
// DATATYPE, XY, STRANS, ...) until ENDEL. ENDLIB terminates the stream;
// anything after it is ignored.
//
// Unknown record types within a recognized context are skipped so that
// vendor extension records do not break parsing; Decoder.SkippedRecords
// reports what was dropped. A recognized record appearing outside its
// grammar level is a fatal malformed-structure error.
//
// Parse links the model before returning: every SREF/AREF target must name a
// structure in the library and the reference graph must be acyclic.
//
// Encode is the symmetric writer. Round-tripping a model through
// Encode/Parse preserves it exactly; timestamps are zeroed so encoding is
// deterministic.
package gds
