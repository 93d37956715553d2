package record

// GDSII record type codes.
const (
	TypeHeader       byte = 0x00
	TypeBgnLib       byte = 0x01
	TypeLibName      byte = 0x02
	TypeUnits        byte = 0x03
	TypeEndLib       byte = 0x04
	TypeBgnStr       byte = 0x05
	TypeStrName      byte = 0x06
	TypeEndStr       byte = 0x07
	TypeBoundary     byte = 0x08
	TypePath         byte = 0x09
	TypeSRef         byte = 0x0A
	TypeARef         byte = 0x0B
	TypeText         byte = 0x0C
	TypeLayer        byte = 0x0D
	TypeDatatype     byte = 0x0E
	TypeWidth        byte = 0x0F
	TypeXY           byte = 0x10
	TypeEndEl        byte = 0x11
	TypeSName        byte = 0x12
	TypeColRow       byte = 0x13
	TypeTextNode     byte = 0x14
	TypeNode         byte = 0x15
	TypeTextType     byte = 0x16
	TypePresentation byte = 0x17
	TypeString       byte = 0x19
	TypeSTrans       byte = 0x1A
	TypeMag          byte = 0x1B
	TypeAngle        byte = 0x1C
	TypePathType     byte = 0x21
	TypeGenerations  byte = 0x22
	TypeElFlags      byte = 0x26
	TypePropAttr     byte = 0x2B
	TypePropValue    byte = 0x2C
	TypeBox          byte = 0x2D
	TypeBoxType      byte = 0x2E
	TypePlex         byte = 0x2F
	TypeBgnExtn      byte = 0x30
	TypeEndExtn      byte = 0x31
)

// GDSII payload data type codes (fourth header byte).
const (
	DataNone     byte = 0x00
	DataBitArray byte = 0x01
	DataInt2     byte = 0x02
	DataInt4     byte = 0x03
	DataReal4    byte = 0x04
	DataReal8    byte = 0x05
	DataASCII    byte = 0x06
)

// TypeName returns the mnemonic for a record type code, for diagnostics.
func TypeName(t byte) string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}

var typeNames = map[byte]string{
	TypeHeader:       "HEADER",
	TypeBgnLib:       "BGNLIB",
	TypeLibName:      "LIBNAME",
	TypeUnits:        "UNITS",
	TypeEndLib:       "ENDLIB",
	TypeBgnStr:       "BGNSTR",
	TypeStrName:      "STRNAME",
	TypeEndStr:       "ENDSTR",
	TypeBoundary:     "BOUNDARY",
	TypePath:         "PATH",
	TypeSRef:         "SREF",
	TypeARef:         "AREF",
	TypeText:         "TEXT",
	TypeLayer:        "LAYER",
	TypeDatatype:     "DATATYPE",
	TypeWidth:        "WIDTH",
	TypeXY:           "XY",
	TypeEndEl:        "ENDEL",
	TypeSName:        "SNAME",
	TypeColRow:       "COLROW",
	TypeTextNode:     "TEXTNODE",
	TypeNode:         "NODE",
	TypeTextType:     "TEXTTYPE",
	TypePresentation: "PRESENTATION",
	TypeString:       "STRING",
	TypeSTrans:       "STRANS",
	TypeMag:          "MAG",
	TypeAngle:        "ANGLE",
	TypePathType:     "PATHTYPE",
	TypeGenerations:  "GENERATIONS",
	TypeElFlags:      "ELFLAGS",
	TypePropAttr:     "PROPATTR",
	TypePropValue:    "PROPVALUE",
	TypeBox:          "BOX",
	TypeBoxType:      "BOXTYPE",
	TypePlex:         "PLEX",
	TypeBgnExtn:      "BGNEXTN",
	TypeEndExtn:      "ENDEXTN",
}
