package mesh

import (
	"encoding/binary"
	"math"
	"regexp"
	"strconv"
)

const (
	binaryHeaderSize = 84 // 80-byte comment header + uint32 triangle count
	binaryRecordSize = 50 // 12B normal + 3 vertices x 12B + 2B attribute
	binarySizeSlack  = 100
	vertexStride     = 12
	normalSize       = 12
)

// ParseError reports a buffer that is neither a well-formed binary nor
// ASCII STL encoding. The user has to re-upload a different file.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "failed to parse model: " + e.Reason
}

var (
	facetPattern  = regexp.MustCompile(`(?i)facet\s+normal`)
	vertexPattern = regexp.MustCompile(`(?i)vertex\s+([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)\s+([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)\s+([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)`)
)

// Parse decodes a raw STL buffer (binary or ASCII) into a GeometryEstimate.
// It is a pure function of the input bytes: no I/O, no retained state.
// Vertices are folded into running per-axis extrema as they are decoded, so
// memory stays constant regardless of model size.
func Parse(data []byte) (*GeometryEstimate, error) {
	if isBinary(data) {
		return parseBinary(data)
	}
	return parseASCII(data)
}

// isBinary applies the size heuristic: a buffer of at least 84 bytes whose
// declared triangle count is consistent with its length (binary exporters
// sometimes append trailing padding, hence the slack).
func isBinary(data []byte) bool {
	if len(data) < binaryHeaderSize {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	expected := int64(binaryHeaderSize) + int64(binaryRecordSize)*int64(count)
	diff := int64(len(data)) - expected
	if diff < 0 {
		diff = -diff
	}
	return diff <= binarySizeSlack
}

func parseBinary(data []byte) (*GeometryEstimate, error) {
	count := int(binary.LittleEndian.Uint32(data[80:84]))
	if count == 0 {
		return nil, &ParseError{Reason: "model contains no triangles"}
	}

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	vertices := 0
	for i := 0; i < count; i++ {
		record := binaryHeaderSize + i*binaryRecordSize
		if record+binaryRecordSize > len(data) {
			break // truncated trailing record, keep what we have
		}
		for v := 0; v < 3; v++ {
			offset := record + normalSize + v*vertexStride
			x := float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4])))
			y := float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+4 : offset+8])))
			z := float64(math.Float32frombits(binary.LittleEndian.Uint32(data[offset+8 : offset+12])))
			extend(&min, &max, x, y, z)
			vertices++
		}
	}

	if vertices == 0 {
		return nil, &ParseError{Reason: "no vertices found in binary model"}
	}
	return newEstimate(count, min, max), nil
}

func parseASCII(data []byte) (*GeometryEstimate, error) {
	text := string(data)
	count := len(facetPattern.FindAllStringIndex(text, -1))

	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	vertices := 0
	for _, match := range vertexPattern.FindAllStringSubmatch(text, -1) {
		x, errX := strconv.ParseFloat(match[1], 64)
		y, errY := strconv.ParseFloat(match[2], 64)
		z, errZ := strconv.ParseFloat(match[3], 64)
		if errX != nil || errY != nil || errZ != nil {
			continue
		}
		extend(&min, &max, x, y, z)
		vertices++
	}

	if vertices == 0 {
		return nil, &ParseError{Reason: "no vertices found in model file"}
	}
	return newEstimate(count, min, max), nil
}

func extend(min, max *[3]float64, x, y, z float64) {
	coords := [3]float64{x, y, z}
	for axis, c := range coords {
		if c < min[axis] {
			min[axis] = c
		}
		if c > max[axis] {
			max[axis] = c
		}
	}
}
