package plot

// denseGrid is a column-major grid backing heatmap plots. It satisfies
// plotter.GridXYZ.
type denseGrid struct {
	cols int
	rows int
	data []float64 // len cols*rows, index c*rows+r
}

func newDenseGrid(cols, rows int) *denseGrid {
	return &denseGrid{cols: cols, rows: rows, data: make([]float64, cols*rows)}
}

func (g *denseGrid) set(c, r int, v float64) { g.data[c*g.rows+r] = v }

func (g *denseGrid) Dims() (int, int)   { return g.cols, g.rows }
func (g *denseGrid) Z(c, r int) float64 { return g.data[c*g.rows+r] }
func (g *denseGrid) X(c int) float64    { return float64(c) }
func (g *denseGrid) Y(r int) float64    { return float64(r) }
