package mesh

// ComplexityClass buckets a model by triangle count. It drives print-time
// messaging in the UI and nothing else.
type ComplexityClass string

const (
	ComplexityLow    ComplexityClass = "Low"
	ComplexityMedium ComplexityClass = "Medium"
	ComplexityHigh   ComplexityClass = "High"
)

// ClassifyComplexity maps a triangle count onto a complexity class.
func ClassifyComplexity(triangleCount int) ComplexityClass {
	switch {
	case triangleCount > 10000:
		return ComplexityHigh
	case triangleCount > 5000:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}

// BoundingBox holds axis-aligned extents in millimeters.
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GeometryEstimate is the derived summary of an uploaded model. It is
// created once per parsed file and never mutated; a new upload produces a
// new estimate.
type GeometryEstimate struct {
	TriangleCount  int             `json:"triangle_count"`
	BoundingBox    BoundingBox     `json:"bounding_box"`
	VolumeCm3      float64         `json:"volume_cm3"`
	Complexity     ComplexityClass `json:"complexity"`
	WeightG        float64         `json:"weight_g,omitempty"` // optional, 0 when unknown
}

// newEstimate derives the estimate fields from a triangle count and the
// vertex extrema accumulated during parsing. Extents are kept in the file's
// native millimeters; the volume proxy is the product of the extents in
// centimeters. A bounding-box product over-estimates any non-convex or
// hollow mesh, which is acceptable for quoting.
func newEstimate(triangleCount int, min, max [3]float64) *GeometryEstimate {
	dims := [3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
	volume := (dims[0] / 10) * (dims[1] / 10) * (dims[2] / 10)

	return &GeometryEstimate{
		TriangleCount: triangleCount,
		BoundingBox:   BoundingBox{X: dims[0], Y: dims[1], Z: dims[2]},
		VolumeCm3:     volume,
		Complexity:    ClassifyComplexity(triangleCount),
	}
}
