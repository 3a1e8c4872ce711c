package engine

import (
	"github.com/affinelab/polysched/affine"
	"github.com/affinelab/polysched/symbolic"
)

// BuildLoop queries bq once per entry in sourceLoops (the host's opaque
// per-level loop handles) and feeds the resulting affine.TripCountExprs
// into affine.Construct, wiring the host's SCEV collaborator (spec §6
// "Symbolic backedge-count evaluation") to the affine loop builder (spec
// §4.2 construct) the way the host is expected to on every region entry.
func BuildLoop(bq BackedgeQuery, sourceLoops []interface{}, dynSyms []*symbolic.Scalar, nonNegative bool) (*affine.Loop, int, error) {
	exprs := make([]affine.TripCountExpr, len(sourceLoops))
	for i, sl := range sourceLoops {
		exprs[i] = bq.TripCount(sl)
	}
	return affine.Construct(exprs, dynSyms, nonNegative)
}

// BuildLoopForRoot is BuildLoop plus the spec §7 remark: a nonzero
// rejectDepth emits RemarkRejectedDepth against root (the engine "proceeds
// on the inner affinely-representable subset" rather than failing).
func BuildLoopForRoot(o *Options, root int, bq BackedgeQuery, sourceLoops []interface{}, dynSyms []*symbolic.Scalar, nonNegative bool) (*affine.Loop, error) {
	loop, rejectDepth, err := BuildLoop(bq, sourceLoops, dynSyms, nonNegative)
	if err != nil {
		return nil, err
	}
	if rejectDepth > 0 {
		o.remark(Remark{Kind: RemarkRejectedDepth, Root: root, RejectDepth: rejectDepth})
	}
	return loop, nil
}
