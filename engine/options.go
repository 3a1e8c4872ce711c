package engine

import "github.com/affinelab/polysched/deppoly"

// Options configures one Optimize call: the scheduling depth bound, the
// host query collaborators, and the optional remark sink. It follows the
// corpus's functional-options convention (core.GraphOption, builder.
// Option) — a closure-over-struct type plus With* constructors that are
// nil-safe no-ops rather than panicking, matching spec §7's "no panics in
// normal operation" for anything reachable from a host call.
type Options struct {
	maxSCCDepth int

	target   TargetQuery
	backedge BackedgeQuery
	alias    AliasQuery

	nullSpaceBasis deppoly.NullSpaceBasisFn

	onRemark func(Remark)
}

// Option mutates an Options before one Optimize call begins.
type Option func(*Options)

// defaultOptions returns the zero-configuration baseline: unbounded
// scheduling depth (bounded only by each root's own loop nest depth) and
// no host collaborators — Optimize degrades gracefully to schedule's
// UnitCostModel and to a no-op alias/backedge query when these are unset.
func defaultOptions() *Options {
	return &Options{maxSCCDepth: -1}
}

// NewOptions applies opts over the zero-configuration baseline in order,
// later options overriding earlier ones — the same left-to-right
// application core.NewGraph and builder.newBuilderConfig use. Build an
// *Options once per region with NewOptions and pass it to both
// BuildLoopForRoot and Optimize so remarks from both stages share one
// sink.
func NewOptions(opts ...Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithMaxSCCDepth bounds how many schedule dimensions Optimize will solve
// for any one root, regardless of that root's own loop nest depth. A
// non-positive value is a no-op (leaves the unbounded default).
func WithMaxSCCDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.maxSCCDepth = depth
		}
	}
}

// WithHostQuery installs the three host query collaborators at once. A
// nil argument for any one of them leaves that collaborator unset.
func WithHostQuery(target TargetQuery, backedge BackedgeQuery, alias AliasQuery) Option {
	return func(o *Options) {
		if target != nil {
			o.target = target
		}
		if backedge != nil {
			o.backedge = backedge
		}
		if alias != nil {
			o.alias = alias
		}
	}
}

// WithNullSpaceBasis installs a host-supplied override for the null-space
// basis computation that a dependence's time-dimension construction
// performs (spec §4.3 time_dim, deppoly.NullSpaceBasisFn). A nil fn is a
// no-op, leaving the internal Hermite-normal-form computation
// (imatrix.NullSpaceBasis) in place.
func WithNullSpaceBasis(fn deppoly.NullSpaceBasisFn) Option {
	return func(o *Options) {
		if fn != nil {
			o.nullSpaceBasis = fn
		}
	}
}

// WithOnRemark installs fn as the remark sink. A nil fn is a no-op.
func WithOnRemark(fn func(Remark)) Option {
	return func(o *Options) {
		if fn != nil {
			o.onRemark = fn
		}
	}
}

func (o *Options) remark(r Remark) {
	if o.onRemark != nil {
		o.onRemark(r)
	}
}
