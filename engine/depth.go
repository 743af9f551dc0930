package engine

import "math"

// DepthBuffer records, per screen column, the corrected distance of the
// nearest surface drawn this frame.
type DepthBuffer []float64

func NewDepthBuffer(width int) DepthBuffer {
	d := make(DepthBuffer, width)
	d.Reset()
	return d
}

// Reset marks every column as empty.
func (d DepthBuffer) Reset() {
	for i := range d {
		d[i] = math.Inf(1)
	}
}

// Claim records distance for col if it is nearer than or equal to what was
// drawn there already, and reports whether the caller may draw.
func (d DepthBuffer) Claim(col int, distance float64) bool {
	if d[col] < distance {
		return false
	}
	d[col] = distance
	return true
}
