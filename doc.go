// Package goasper converts IC layout files from the GDSII stream format
// to the OASIS format.
//
// # Architecture Overview
//
// The library is organized into a small pipeline of packages:
//
//	goasper/        Root package with file-level load, save and convert helpers
//	├── layout/     In-memory layout model: cells, elements, transform algebra
//	├── gds/        GDSII stream decoder and encoder
//	├── oasis/      OASIS encoder (modal variable machine) and decoder
//	├── errors/     Structured error taxonomy shared by all phases
//	└── cmd/        The goasper command line tool
//
// A conversion parses the whole GDSII stream into a layout.Library,
// resolves and validates every cell reference, then encodes the model as
// OASIS. The two format packages never see each other; the layout model
// is the only interchange.
//
// # Quick Start
//
//	lib, err := goasper.LoadGDS("chip.gds")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := goasper.SaveOASIS("chip.oas", lib); err != nil {
//		log.Fatal(err)
//	}
//
// Failed conversions report structured *errors.Error values carrying the
// phase, the failure kind and the offending cell, element or byte offset.
package goasper
