package imatrix

import "fmt"

// Dense is a row-major matrix of int64 values. data has length rows*stride;
// stride >= cols lets sub-matrix views and diagonal stacking share a
// backing slice without copying, per the layout note in the design docs
// ("matrices are resized in place; (row, col, stride) makes sub-matrix
// views free").
type Dense struct {
	rows, cols, stride int
	data               []int64
}

// NewDense allocates a rows x cols matrix of zeros. rows may be 0 (an
// empty constraint set is a legal, unconstrained polyhedron) and cols may
// be 0 (e.g. a per-dimension symbol-coefficient matrix when a loop has no
// dynamic symbols).
func NewDense(rows, cols int) (*Dense, error) {
	if rows < 0 || cols < 0 {
		return nil, ErrInvalidDimensions
	}
	return &Dense{rows: rows, cols: cols, stride: cols, data: make([]int64, rows*cols)}, nil
}

// Rows returns the row count.
func (m *Dense) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Dense) Cols() int { return m.cols }

func (m *Dense) index(row, col int) (int, error) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, fmt.Errorf("imatrix.Dense: (%d,%d): %w", row, col, ErrIndexOutOfBounds)
	}
	return row*m.stride + col, nil
}

// At returns the element at (row, col).
func (m *Dense) At(row, col int) int64 {
	idx, err := m.index(row, col)
	if err != nil {
		panic(err)
	}
	return m.data[idx]
}

// Set assigns v at (row, col).
func (m *Dense) Set(row, col int, v int64) {
	idx, err := m.index(row, col)
	if err != nil {
		panic(err)
	}
	m.data[idx] = v
}

// Row returns the elements of row r as a freshly allocated slice.
func (m *Dense) Row(r int) []int64 {
	out := make([]int64, m.cols)
	for c := 0; c < m.cols; c++ {
		out[c] = m.At(r, c)
	}
	return out
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	out := &Dense{rows: m.rows, cols: m.cols, stride: m.cols, data: make([]int64, m.rows*m.cols)}
	for r := 0; r < m.rows; r++ {
		copy(out.data[r*out.stride:r*out.stride+m.cols], m.data[r*m.stride:r*m.stride+m.cols])
	}
	return out
}

// Identity returns the n x n identity matrix.
func Identity(n int) *Dense {
	m, err := NewDense(n, n)
	if err != nil {
		panic(err)
	}
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// AppendRows returns a new matrix with other's rows appended below m's,
// requiring equal column counts. Used to stack two loops' constraint
// matrices into one polyhedron.
func (m *Dense) AppendRows(other *Dense) (*Dense, error) {
	if m.cols != other.cols {
		return nil, ErrDimensionMismatch
	}
	out, err := NewDense(m.rows+other.rows, m.cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(r, c, m.At(r, c))
		}
	}
	for r := 0; r < other.rows; r++ {
		for c := 0; c < other.cols; c++ {
			out.Set(m.rows+r, c, other.At(r, c))
		}
	}
	return out, nil
}

// Diag builds the block-diagonal stack [m 0; 0 other], used when two
// accesses' loops share no columns and must simply be concatenated
// side-by-side as well as top-to-bottom (DepPoly's x.loop.A / y.loop.A
// stacking, spec §4.3).
func Diag(m, other *Dense) *Dense {
	out, err := NewDense(m.rows+other.rows, m.cols+other.cols)
	if err != nil {
		panic(err)
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(r, c, m.At(r, c))
		}
	}
	for r := 0; r < other.rows; r++ {
		for c := 0; c < other.cols; c++ {
			out.Set(m.rows+r, m.cols+c, other.At(r, c))
		}
	}
	return out
}

// DropColumn returns a copy of m with column col removed.
func (m *Dense) DropColumn(col int) (*Dense, error) {
	if col < 0 || col >= m.cols {
		return nil, ErrIndexOutOfBounds
	}
	out, err := NewDense(m.rows, m.cols-1)
	if err != nil {
		return nil, err
	}
	for r := 0; r < m.rows; r++ {
		dst := 0
		for c := 0; c < m.cols; c++ {
			if c == col {
				continue
			}
			out.Set(r, dst, m.At(r, c))
			dst++
		}
	}
	return out, nil
}

// DropRow returns a copy of m with row r removed.
func (m *Dense) DropRow(row int) (*Dense, error) {
	if row < 0 || row >= m.rows {
		return nil, ErrIndexOutOfBounds
	}
	out, err := NewDense(m.rows-1, m.cols)
	if err != nil {
		return nil, err
	}
	dst := 0
	for r := 0; r < m.rows; r++ {
		if r == row {
			continue
		}
		for c := 0; c < m.cols; c++ {
			out.Set(dst, c, m.At(r, c))
		}
		dst++
	}
	return out, nil
}

// AppendRow returns a copy of m with row appended at the bottom.
func (m *Dense) AppendRow(row []int64) (*Dense, error) {
	if len(row) != m.cols {
		return nil, ErrDimensionMismatch
	}
	out, err := NewDense(m.rows+1, m.cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(r, c, m.At(r, c))
		}
	}
	for c, v := range row {
		out.Set(m.rows, c, v)
	}
	return out, nil
}

// RowGCDNormalize divides every entry of row r by the GCD of that row's
// nonzero entries, leaving the row unchanged if it is all zero. Used to
// normalize equality rows after Fourier-Motzkin elimination (spec §4.2
// prune_bounds: "normalizes equality rows by dividing out their GCD").
func (m *Dense) RowGCDNormalize(r int) {
	g := int64(0)
	for c := 0; c < m.cols; c++ {
		g = Gcd(g, m.At(r, c))
	}
	if g <= 1 {
		return
	}
	for c := 0; c < m.cols; c++ {
		m.Set(r, c, m.At(r, c)/g)
	}
}

// RowIsZero reports whether every entry of row r is zero.
func (m *Dense) RowIsZero(r int) bool {
	for c := 0; c < m.cols; c++ {
		if m.At(r, c) != 0 {
			return false
		}
	}
	return true
}

// Transpose returns the transpose of m.
func (m *Dense) Transpose() *Dense {
	out, err := NewDense(m.cols, m.rows)
	if err != nil {
		panic(err)
	}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			out.Set(c, r, m.At(r, c))
		}
	}
	return out
}
