package dynamo

import "math"

// TwiddleTable holds the n-th roots of unity, cos and sin of 2πm/n for
// m in [0, n). A direct n-point transform only ever needs angles of that form,
// so lookups are exact rather than interpolated.
type TwiddleTable struct {
	sin []float64
	cos []float64
	n   int
}

// NewTwiddleTable creates a table for an n-point transform.
func NewTwiddleTable(n int) *TwiddleTable {
	t := &TwiddleTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i], t.cos[i] = math.Sincos(angle)
	}

	return t
}

// Len returns n.
func (t *TwiddleTable) Len() int { return t.n }

// SinCos returns sin and cos of 2πm/n. m may be any non-negative integer.
func (t *TwiddleTable) SinCos(m int) (sin, cos float64) {
	i := m % t.n
	return t.sin[i], t.cos[i]
}
