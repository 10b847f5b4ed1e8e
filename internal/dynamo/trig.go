package dynamo

import "math"

// TrigTable provides precomputed sin/cos values for fast lookup.
// Values between entries are linearly interpolated, so results stay within
// [-1, 1] like the exact functions.
type TrigTable struct {
	sin   []float64
	cos   []float64
	n     int
	scale float64
}

// DefaultTrigTable has 4096 entries (~0.0015 rad resolution).
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin:   make([]float64, n+1),
		cos:   make([]float64, n+1),
		n:     n,
		scale: float64(n) / (2 * math.Pi),
	}
	for i := 0; i <= n; i++ {
		angle := float64(i) * 2 * math.Pi / float64(n)
		t.sin[i], t.cos[i] = math.Sincos(angle)
	}
	return t
}

func (t *TrigTable) index(x float64) (int, float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return -1, 0
	}
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	idx := x * t.scale
	i := int(idx)
	if i >= t.n {
		i = t.n - 1
	}
	return i, idx - float64(i)
}

func (t *TrigTable) Sin(x float64) float64 {
	i, frac := t.index(x)
	if i < 0 {
		return math.NaN()
	}
	return t.sin[i] + (t.sin[i+1]-t.sin[i])*frac
}

func (t *TrigTable) Cos(x float64) float64 {
	i, frac := t.index(x)
	if i < 0 {
		return math.NaN()
	}
	return t.cos[i] + (t.cos[i+1]-t.cos[i])*frac
}

// Sincos returns both values from a single reduction.
func (t *TrigTable) Sincos(x float64) (sin, cos float64) {
	i, frac := t.index(x)
	if i < 0 {
		return math.NaN(), math.NaN()
	}
	sin = t.sin[i] + (t.sin[i+1]-t.sin[i])*frac
	cos = t.cos[i] + (t.cos[i+1]-t.cos[i])*frac
	return
}
