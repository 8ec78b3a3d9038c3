package layout

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// A4 页面尺寸（pt）。
const (
	A4Width  = 595.2756
	A4Height = 841.8898
)

// Defaults used when a Flow leaves a field unset.
const (
	DefaultMaxLineWidth = 500.0
	DefaultBottomMargin = 50.0
)

// ToMM converts points to millimeters.
func ToMM(pt float64) float64 { return pt * PtToMm }

// ToPT converts millimeters to points.
func ToPT(mm float64) float64 { return mm * MmToPt }
