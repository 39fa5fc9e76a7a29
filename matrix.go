package ambient

// DitherSize is the edge length of the ordered dither matrix.
const DitherSize = 8

// DitherMatrix is a normalized Bayer threshold matrix indexed [y][x].
// Thresholds are k/64 for k in 0..63, so luminance 0 is never above any
// threshold and luminance 1 is above all of them.
type DitherMatrix [DitherSize][DitherSize]float64

// bayer is built once at package init and never mutated.
var bayer = newBayerMatrix()

// Bayer returns the process-wide dither matrix.
func Bayer() *DitherMatrix {
	return &bayer
}

// newBayerMatrix expands the 2x2 seed recursively:
// M(2n) = [[4M, 4M+2], [4M+3, 4M+1]].
func newBayerMatrix() DitherMatrix {
	idx := [][]int{{0}}
	for n := 1; n < DitherSize; n *= 2 {
		next := make([][]int, 2*n)
		for y := range next {
			next[y] = make([]int, 2*n)
		}
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				v := 4 * idx[y][x]
				next[y][x] = v
				next[y][x+n] = v + 2
				next[y+n][x] = v + 3
				next[y+n][x+n] = v + 1
			}
		}
		idx = next
	}

	var m DitherMatrix
	for y := 0; y < DitherSize; y++ {
		for x := 0; x < DitherSize; x++ {
			m[y][x] = float64(idx[y][x]) / (DitherSize * DitherSize)
		}
	}
	return m
}

// At returns the threshold for cell (x, y); coordinates wrap.
func (m *DitherMatrix) At(x, y int) float64 {
	return m[wrap(y, DitherSize)][wrap(x, DitherSize)]
}

// wrap maps any integer into [0, n).
func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
