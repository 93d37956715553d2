package oasis

// Magic is the byte sequence every OASIS file starts with.
const Magic = "%SEMI-OASIS\r\n"

// Version is the format version written into the START record.
const Version = "1.0"

// endRecordLength is the mandated total size of the END record in bytes.
const endRecordLength = 256

// Record type numbers.
const (
	recPad                = 0
	recStart              = 1
	recEnd                = 2
	recCellName           = 3
	recCellNameRef        = 4
	recTextString         = 5
	recTextStringRef      = 6
	recPropName           = 7
	recPropNameRef        = 8
	recPropString         = 9
	recPropStringRef      = 10
	recLayerName          = 11
	recLayerNameText      = 12
	recCellRef            = 13
	recCellNamed          = 14
	recXYAbsolute         = 15
	recXYRelative         = 16
	recPlacement          = 17
	recPlacementTransform = 18
	recText               = 19
	recRectangle          = 20
	recPolygon            = 21
	recPath               = 22
	recTrapezoidAB        = 23
	recTrapezoidA         = 24
	recTrapezoidB         = 25
	recCTrapezoid         = 26
	recCircle             = 27
	recProperty           = 28
	recPropertyRepeat     = 29
	recXName              = 30
	recXNameRef           = 31
	recXElement           = 32
	recXGeometry          = 33
	recCBlock             = 34
)

// Point list type numbers.
const (
	pointList1DeltaH = 0
	pointList1DeltaV = 1
	pointList2Delta  = 2
	pointList3Delta  = 3
	pointListGDelta  = 4
	pointListGDouble = 5
)

// Repetition type numbers.
const (
	repReuse     = 0
	repMatrix    = 1
	repColumns   = 2
	repRows      = 3
	repSpacedX   = 4
	repArbitersX = 5
	repSpacedY   = 6
	repArbitersY = 7
	repDiagonal  = 8
	repVector    = 9
)

// Path extension scheme values for each of the two SS/EE fields.
const (
	extReuse     = 0
	extFlush     = 1
	extHalfwidth = 2
	extExplicit  = 3
)

var recordNames = map[uint64]string{
	recPad:                "PAD",
	recStart:              "START",
	recEnd:                "END",
	recCellName:           "CELLNAME",
	recCellNameRef:        "CELLNAME",
	recTextString:         "TEXTSTRING",
	recTextStringRef:      "TEXTSTRING",
	recPropName:           "PROPNAME",
	recPropNameRef:        "PROPNAME",
	recPropString:         "PROPSTRING",
	recPropStringRef:      "PROPSTRING",
	recLayerName:          "LAYERNAME",
	recLayerNameText:      "LAYERNAME",
	recCellRef:            "CELL",
	recCellNamed:          "CELL",
	recXYAbsolute:         "XYABSOLUTE",
	recXYRelative:         "XYRELATIVE",
	recPlacement:          "PLACEMENT",
	recPlacementTransform: "PLACEMENT",
	recText:               "TEXT",
	recRectangle:          "RECTANGLE",
	recPolygon:            "POLYGON",
	recPath:               "PATH",
	recTrapezoidAB:        "TRAPEZOID",
	recTrapezoidA:         "TRAPEZOID",
	recTrapezoidB:         "TRAPEZOID",
	recCTrapezoid:         "CTRAPEZOID",
	recCircle:             "CIRCLE",
	recProperty:           "PROPERTY",
	recPropertyRepeat:     "PROPERTY",
	recXName:              "XNAME",
	recXNameRef:           "XNAME",
	recXElement:           "XELEMENT",
	recXGeometry:          "XGEOMETRY",
	recCBlock:             "CBLOCK",
}

func recordName(id uint64) string {
	if name, ok := recordNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}
