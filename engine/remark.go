package engine

// RemarkKind classifies why a region was left untransformed (spec §7
// "user-visible behavior: an optimization remark may be emitted").
type RemarkKind int

const (
	// RemarkRejectedDepth reports that Construct could not represent some
	// outer loop levels affinely; scheduling proceeded on the inner subset.
	RemarkRejectedDepth RemarkKind = iota
	// RemarkBarrier reports that an unsupported opcode or invalid address
	// forced a full barrier: the enclosing root was left untransformed.
	RemarkBarrier
	// RemarkScheduled reports a root that scheduled successfully, for hosts
	// that want a positive confirmation alongside the failure remarks.
	RemarkScheduled
)

// Remark is the narrow payload passed to Options.OnRemark — the
// "RemarkAnalysis"-shaped collaborator the original engine calls out to
// (_examples/original_source/mod/RemarkAnalysis.cxx), made concrete here
// rather than left as an unspecified external hook.
type Remark struct {
	Kind        RemarkKind
	Root        int // index into the roots slice Optimize was called with
	RejectDepth int // meaningful only for RemarkRejectedDepth
	Detail      string
}
