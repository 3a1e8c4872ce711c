package deppoly

import "github.com/affinelab/polysched/symbolic"

// CheckSat decides whether imposing the partial schedule x_phi.i_x + x_off
// == y_phi.i_y + y_off on d renders it empty — used to tell whether a
// dependency has already been satisfied by the loop levels fixed so far
// (spec §4.3).
func CheckSat(d *DepPoly, xPhi []int64, xOff int64, yPhi []int64, yOff int64) (empty bool, err error) {
	row := make([]int64, d.Cols())
	row[0] = xOff - yOff
	for k, c := range xPhi {
		row[d.xLoopCol(k)] += c
	}
	for k, c := range yPhi {
		row[d.yLoopCol(k)] -= c
	}

	e := d.E
	if e == nil {
		var zeroErr error
		e, zeroErr = rowsToDense(nil, d.Cols())
		if zeroErr != nil {
			return false, zeroErr
		}
	}
	extendedE, err := e.AppendRow(row)
	if err != nil {
		return false, err
	}

	cmp := symbolic.NewComparator(symbolic.Polyhedron{A: d.A, E: extendedE})
	return cmp.IsEmpty()
}
