package deppoly

import (
	"fmt"

	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/irgraph"
	"github.com/affinelab/polysched/symbolic"
)

// mergeDynSyms unions a and b by pointer identity, preserving a's order
// and appending b's symbols not already present. It returns the combined
// list plus, for each input list, the combined-index each of its entries
// maps to.
func mergeDynSyms(a, b []*symbolic.Scalar) (combined []*symbolic.Scalar, aMap, bMap []int) {
	index := make(map[*symbolic.Scalar]int, len(a)+len(b))
	combined = make([]*symbolic.Scalar, 0, len(a)+len(b))
	for _, s := range a {
		index[s] = len(combined)
		combined = append(combined, s)
	}
	aMap = make([]int, len(a))
	for i, s := range a {
		aMap[i] = index[s]
	}
	bMap = make([]int, len(b))
	for i, s := range b {
		if j, ok := index[s]; ok {
			bMap[i] = j
			continue
		}
		index[s] = len(combined)
		bMap[i] = len(combined)
		combined = append(combined, s)
	}
	return combined, aMap, bMap
}

// remapLoopMatrix copies src (columns [1, dynSyms(len(dynMap)), loopVars])
// into a totalCols-wide matrix, scattering its dynamic-symbol columns per
// dynMap and its loopCount loop-variable columns starting at
// 1+totalDynSyms+loopColStart.
func remapLoopMatrix(src *imatrix.Dense, dynMap []int, totalDynSyms, loopColStart, loopCount, totalCols int) (*imatrix.Dense, error) {
	out, err := imatrix.NewDense(src.Rows(), totalCols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < src.Rows(); r++ {
		out.Set(r, 0, src.At(r, 0))
		for i, dst := range dynMap {
			out.Set(r, 1+dst, src.At(r, 1+i))
		}
		for k := 0; k < loopCount; k++ {
			out.Set(r, 1+totalDynSyms+loopColStart+k, src.At(r, 1+len(dynMap)+k))
		}
	}
	return out, nil
}

// commonPrefixLen returns the length of the shared prefix of a and b —
// the number of outer loop levels x and y are jointly nested in — mirroring
// the original source's findFirstNonEqual over fusion_omega.
func commonPrefixLen(a, b []int64) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// indexColumn returns column k of m (0 when m is nil or k is out of
// range), used when an access's IndexMatrix has fewer columns than the
// shared-loop depth under consideration.
func indexColumn(m *imatrix.Dense, dim, k int) []int64 {
	col := make([]int64, dim)
	if m == nil || k >= m.Cols() {
		return col
	}
	for r := 0; r < dim; r++ {
		col[r] = m.At(r, k)
	}
	return col
}

// timeDimension computes the null-space basis of the stacked index matrix
// over x and y's shared outer loop levels, the self-dependence directions
// along which neither access's location changes (spec §4.3). It returns
// the basis (rows = common loop levels, cols = TimeDim) and the
// corresponding NullSteps (squared L2 norm per column).
func timeDimension(x, y *irgraph.Addr) (*imatrix.Dense, []int64, error) {
	numCommon := commonPrefixLen(x.FusionOmega, y.FusionOmega)
	dimX, dimY := len(x.OffsetOmega), len(y.OffsetOmega)

	m, err := imatrix.NewDense(dimX+dimY, numCommon)
	if err != nil {
		return nil, nil, err
	}
	for k := 0; k < numCommon; k++ {
		xc := indexColumn(x.IndexMatrix, dimX, k)
		yc := indexColumn(y.IndexMatrix, dimY, k)
		for r := 0; r < dimX; r++ {
			m.Set(r, k, xc[r])
		}
		for r := 0; r < dimY; r++ {
			m.Set(dimX+r, k, yc[r])
		}
	}

	basis, err := computeNullSpaceBasis(m)
	if err != nil {
		return nil, nil, err
	}
	nullSteps := make([]int64, basis.Cols())
	for t := 0; t < basis.Cols(); t++ {
		var sumSq int64
		for r := 0; r < basis.Rows(); r++ {
			v := basis.At(r, t)
			sumSq += v * v
		}
		nullSteps[t] = sumSq
	}
	return basis, nullSteps, nil
}

// Dependence builds the dependence polyhedron between x and y, returning
// (nil, nil) when the two accesses address disjoint arrays (spec §4.3).
func Dependence(x, y *irgraph.Addr) (*DepPoly, error) {
	if x.Array != y.Array {
		return nil, nil
	}
	if x.Loop == nil || y.Loop == nil {
		return nil, ErrMissingLoop
	}
	dim := len(x.OffsetOmega)
	if dim != len(y.OffsetOmega) {
		return nil, ErrArrayDimMismatch
	}

	combinedSyms, xMap, yMap := mergeDynSyms(x.Loop.DynSyms, y.Loop.DynSyms)
	numDynSym := len(combinedSyms)
	dimX, dimY := x.Loop.NumLoops, y.Loop.NumLoops
	totalCols := 1 + numDynSym + dimX + dimY

	xA, err := remapLoopMatrix(x.Loop.A, xMap, numDynSym, 0, dimX, totalCols)
	if err != nil {
		return nil, fmt.Errorf("deppoly: Dependence: %w", err)
	}
	yA, err := remapLoopMatrix(y.Loop.A, yMap, numDynSym, dimX, dimY, totalCols)
	if err != nil {
		return nil, fmt.Errorf("deppoly: Dependence: %w", err)
	}
	if x.Loop.NonNegative {
		xA, err = appendNonNegativeRows(xA, 1+numDynSym, dimX, totalCols)
		if err != nil {
			return nil, err
		}
	}
	if y.Loop.NonNegative {
		yA, err = appendNonNegativeRows(yA, 1+numDynSym+dimX, dimY, totalCols)
		if err != nil {
			return nil, err
		}
	}
	A, err := xA.AppendRows(yA)
	if err != nil {
		return nil, fmt.Errorf("deppoly: Dependence: %w", err)
	}

	eqRows := make([][]int64, dim)
	for d := 0; d < dim; d++ {
		row := make([]int64, totalCols)
		row[0] = x.OffsetOmega[d] - y.OffsetOmega[d]
		for i, dst := range xMap {
			row[1+dst] += x.OffsetSymbols.At(d, i)
		}
		for j, dst := range yMap {
			row[1+dst] -= y.OffsetSymbols.At(d, j)
		}
		for k := 0; k < dimX; k++ {
			row[1+numDynSym+k] = x.IndexMatrix.At(d, k)
		}
		for k := 0; k < dimY; k++ {
			row[1+numDynSym+dimX+k] = -y.IndexMatrix.At(d, k)
		}
		eqRows[d] = row
	}
	E, err := rowsToDense(eqRows, totalCols)
	if err != nil {
		return nil, err
	}

	basis, nullSteps, err := timeDimension(x, y)
	if err != nil {
		return nil, fmt.Errorf("deppoly: Dependence: %w", err)
	}
	timeDim := basis.Cols()

	if timeDim > 0 {
		finalCols := totalCols + timeDim
		A, err = widenCols(A, finalCols)
		if err != nil {
			return nil, err
		}
		E, err = widenCols(E, finalCols)
		if err != nil {
			return nil, err
		}
		for t := 0; t < timeDim; t++ {
			row := make([]int64, finalCols)
			for k := 0; k < basis.Rows(); k++ {
				v := basis.At(k, t)
				row[1+numDynSym+k] = v
				row[1+numDynSym+dimX+k] = -v
			}
			row[totalCols+t] = 1
			E, err = E.AppendRow(row)
			if err != nil {
				return nil, err
			}
		}
	}

	return &DepPoly{
		DynSyms:   combinedSyms,
		DimX:      dimX,
		DimY:      dimY,
		TimeDim:   timeDim,
		NullSteps: nullSteps,
		A:         A,
		E:         E,
	}, nil
}

// appendNonNegativeRows appends dim rows of i_k >= 0 for loop columns
// [colStart, colStart+dim) to m.
func appendNonNegativeRows(m *imatrix.Dense, colStart, dim, totalCols int) (*imatrix.Dense, error) {
	for k := 0; k < dim; k++ {
		row := make([]int64, totalCols)
		row[colStart+k] = 1
		var err error
		m, err = m.AppendRow(row)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// widenCols returns a copy of m with newCols columns, zero-padding the new
// trailing columns.
func widenCols(m *imatrix.Dense, newCols int) (*imatrix.Dense, error) {
	out, err := imatrix.NewDense(m.Rows(), newCols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			out.Set(r, c, m.At(r, c))
		}
	}
	return out, nil
}

// rowsToDense assembles a Dense matrix from row vectors, each already
// `cols` wide.
func rowsToDense(rows [][]int64, cols int) (*imatrix.Dense, error) {
	m, err := imatrix.NewDense(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, v := range row {
			m.Set(r, c, v)
		}
	}
	return m, nil
}
