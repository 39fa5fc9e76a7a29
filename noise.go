package ambient

// NoiseField is a square tileable field of independent uniform randoms with
// two channels. Channel A drives flicker and boot noise; channel B drives
// transition grain and swirl. It is written once at construction.
type NoiseField struct {
	size int
	a    []float32
	b    []float32
}

// NewNoiseField fills a size×size field from src.
func NewNoiseField(size int, src Source) *NoiseField {
	if size < 1 {
		size = 1
	}
	n := &NoiseField{
		size: size,
		a:    make([]float32, size*size),
		b:    make([]float32, size*size),
	}
	for i := range n.a {
		n.a[i] = float32(src.Float64())
		n.b[i] = float32(src.Float64())
	}
	return n
}

// Size returns the field edge length.
func (n *NoiseField) Size() int { return n.size }

// A samples channel A at (x, y); coordinates wrap so any offset is valid.
func (n *NoiseField) A(x, y int) float64 {
	return float64(n.a[wrap(y, n.size)*n.size+wrap(x, n.size)])
}

// B samples channel B at (x, y).
func (n *NoiseField) B(x, y int) float64 {
	return float64(n.b[wrap(y, n.size)*n.size+wrap(x, n.size)])
}
