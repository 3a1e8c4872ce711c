package irgraph

import (
	"github.com/affinelab/polysched/affine"
	"github.com/affinelab/polysched/internal/arena"
	"github.com/affinelab/polysched/internal/imatrix"
	"github.com/affinelab/polysched/symbolic"
)

// Kind discriminates the closed universe of node payloads.
type Kind uint8

const (
	KindAddr Kind = iota
	KindCompute
	KindPhi
	KindLoopIR
	KindConstant
)

// Ref is a tagged handle to a node: which arena it lives in, plus its
// index within that arena. The zero Ref is not a valid "no node" sentinel
// (KindAddr/ID 0 is a legitimate node) — use NilRef / Ref.Valid().
type Ref struct {
	Kind Kind
	ID   arena.ID
}

// NilRef is the canonical "no node" reference.
var NilRef = Ref{Kind: KindAddr, ID: arena.Invalid}

// Valid reports whether r refers to an allocated node.
func (r Ref) Valid() bool { return r.ID != arena.Invalid }

// Base is embedded in every node kind: sibling chain, enclosing-loop link,
// and the per-node depth/loop-dependence bitmask spec §3 describes as
// common to the whole Node hierarchy.
type Base struct {
	Prev, Next Ref // sibling chain within the enclosing block
	Parent     Ref // enclosing LoopIR, or NilRef at top level
	Depth      int
	LoopDeps   uint32 // bitmask, LSB = innermost loop this node's position depends on
}

// SizeExpr is an affine per-dimension array size: Const + sum(coeff*sym).
type SizeExpr struct {
	Const     int64
	SymCoeffs map[*symbolic.Scalar]int64
}

// ArrayRef identifies the backing array an Addr reads or writes: an
// opaque identity (pointer equality stands in for the host's alloca/global
// handle, out of scope per spec §1) plus its per-dimension size.
type ArrayRef struct {
	Name     string
	DimSizes []SizeExpr

	// NonEscaping marks a provably local stack/heap allocation (SPEC_FULL
	// §4 "temporary elimination") — reconstruct.EliminateTemporaries may
	// drop stores to it once no future non-loop read remains.
	NonEscaping bool
}

// Predicate is the boolean guard on a conditionally executed Addr — an
// AND-list of guarding Compute refs (SPEC_FULL §4 "BBPredPath" supplement).
// Two predicated stores are equal, for CSE purposes, only when their
// Conjuncts match element-for-element.
type Predicate struct {
	Conjuncts []Ref
}

// Equal reports whether p and other guard on the same conjunct list.
func (p *Predicate) Equal(other *Predicate) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.Conjuncts) != len(other.Conjuncts) {
		return false
	}
	for i := range p.Conjuncts {
		if p.Conjuncts[i] != other.Conjuncts[i] {
			return false
		}
	}
	return true
}

// HoistMask values: was this Addr hoisted in front of, behind, both, or
// neither of its loop (spec §3).
const (
	HoistNone    uint8 = 0
	HoistFront   uint8 = 1
	HoistBehind  uint8 = 2
	HoistBoth    uint8 = 3
)

// Addr is a single load or store access (spec §3 "Array access Addr").
type Addr struct {
	Base

	Array          *ArrayRef
	ElementBytes   int // element size, used with AlignmentShift
	AlignmentShift int // log2(bytes)

	Loop *affine.Loop // enclosing affine loop, post-rotation

	Denom         int64
	OffsetOmega   []int64        // dim constants
	IndexMatrix   *imatrix.Dense // dim x natural_depth, loop-variable coefficients
	OffsetSymbols *imatrix.Dense // dim x len(Loop.DynSyms), coefficients on dynamic symbols
	FusionOmega   []int64        // length current_depth+1

	Predicate *Predicate
	IsStore   bool
	Stored    Ref // operand carrying the stored value, valid iff IsStore

	EdgeIn, EdgeOut arena.ID // heads of depstore's in/out edge chains

	HoistMask uint8
	OrthAxes  uint32 // bitmask: which loops this access is contiguous (0) vs convolutional (1) in

	CurrentDepth, NaturalDepth, MaxDepth int

	NextLoad, PrevLoad Ref // ScheduledNode's load chain; PrevLoad != NilRef marks a reload duplicate
	Dropped            bool
}

// ComputeKind distinguishes Compute's three payload shapes (spec §3).
type ComputeKind uint8

const (
	ComputeFunc ComputeKind = iota
	ComputeCall
	ComputeOp
)

// Compute is an arithmetic operation, call, or opaque function (spec §3).
type Compute struct {
	Base

	OpcodeID      int
	ComputeKind   ComputeKind
	NumOperands   int // negative means incomplete (FAM not yet fully populated)
	Operands      []Ref
	FastMathFlags uint8

	Users []Ref // SPEC_FULL §4 "Users.cxx": first-class use-list

	ReductionDst Ref // marks this Compute as part of a reassociable reduction chain
}

// AddUser appends user to c's use-list if not already present.
func (c *Compute) AddUser(user Ref) {
	for _, u := range c.Users {
		if u == user {
			return
		}
	}
	c.Users = append(c.Users, user)
}

// RemoveUser removes user from c's use-list, if present.
func (c *Compute) RemoveUser(user Ref) {
	for i, u := range c.Users {
		if u == user {
			c.Users = append(c.Users[:i], c.Users[i+1:]...)
			return
		}
	}
}

// PhiFlavor distinguishes the two depths a Phi can sit at (spec §3).
type PhiFlavor uint8

const (
	// PhiAccum is placed at the same depth as its second operand — the
	// in-loop accumulator.
	PhiAccum PhiFlavor = iota
	// PhiJoin is one level shallower — the post-loop join.
	PhiJoin
)

// Phi is a 2-input merge node modeling a hoisted accumulator or join
// (spec §3).
type Phi struct {
	Base

	Flavor           PhiFlavor
	Operand0         Ref // the value flowing in from outside the loop, for both flavors
	Operand1         Ref // the value flowing in from the loop body
	Reassociable     bool
	NotReassociable  bool
}

// LoopIR is one level of the reconstructed nest (spec §3 "Loop-IR node").
type LoopIR struct {
	Base

	AffineLoop *affine.Loop
	Child      Ref // first body node
	Last       Ref // back-pointer for reverse walk

	SatisfiedEdges []int32 // depstore edge IDs satisfied at this loop level

	Legality Legality
}

// Legality is the per-loop legality record (spec §3).
type Legality struct {
	Reorderable             bool
	OrderedReductionCount   int
	UnorderedReductionCount int
	PeelFlag                uint32 // bitmask of loops that must be peeled when equal to this one
}

// Constant is a compile-time-known scalar operand.
type Constant struct {
	Base
	Value int64
}
