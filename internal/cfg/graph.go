package cfg

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dynguide/cfg-engine/pkg/collections"
	"github.com/dynguide/cfg-engine/pkg/utils"
)

// tracerName identifies the engine's otel.Tracer; spans are emitted around
// the two operations expensive enough to be worth observing in production:
// edge insertion and backward propagation.
const tracerName = "github.com/dynguide/cfg-engine/internal/cfg"

// ControlFlowGraph is the directed-guidance CFG engine: an edge-weighted
// directed multigraph over BbId annotated with target comparisons, plus
// the auxiliary tables needed to resolve indirect-call edges and compute
// distance-to-target scores.
//
// A ControlFlowGraph is single-owner: callers must not invoke its methods
// concurrently from more than one goroutine. No internal locking is
// performed.
type ControlFlowGraph struct {
	// out[u][v] is the cached weight of edge (u,v): the destination's
	// score as of the most recent propagation that touched this edge.
	out map[BbId]map[BbId]Score
	// in[v] is the set of predecessors of v, maintained incrementally so
	// that backward propagation never needs to clone or scan the graph.
	in map[BbId]map[BbId]struct{}

	// idMapping is the forward BB -> set of CmpId map.
	idMapping map[BbId]map[CmpId]struct{}
	// reverseIDMapping is the exact inverse of idMapping restricted to
	// each CmpId's unique owning BB (I2).
	reverseIDMapping map[CmpId]BbId

	// targets holds open (unsolved) target CmpIds.
	targets map[CmpId]struct{}
	// solvedTargets holds CmpIds that were once targets and have since
	// been reached. Retained so is_target still recognises them.
	solvedTargets map[CmpId]struct{}

	// indirectEdges is the set of edges marked as indirect-call edges.
	indirectEdges map[Edge]struct{}
	// callsiteEdges maps a callsite to the indirect edges it dispatches.
	callsiteEdges map[CallSiteId]map[Edge]struct{}
	// callsiteDominators maps a callsite to the CmpIds that constrain
	// which indirect target it reaches.
	callsiteDominators map[CallSiteId]map[CmpId]struct{}
	// dominatorCmps is the flattened union of every callsiteDominators
	// value, for O(1) DominatesIndirectCall membership tests.
	dominatorCmps map[CmpId]struct{}
	// magicBytes maps an edge to the ordered (offset, required-value)
	// constraints that gate its traversal.
	magicBytes map[Edge][]MagicByte

	// bbIndex/indexToBb densely number every known BB so that visited
	// can be reset in O(1) across propagation passes instead of
	// reallocating a fresh map each call.
	bbIndex   map[BbId]int
	indexToBb []BbId
	visited   *collections.VersionedBitset

	// policy selects the score aggregator; harmonic is the default.
	policy Aggregator
	// stopWhenUnchanged enables the optional propagation early-exit: a
	// node whose recomputed score is unchanged does not re-enqueue its
	// predecessors. Off by default, since the spec's reference behaviour
	// always visits every reachable node exactly once regardless of
	// whether its score changed.
	stopWhenUnchanged bool

	logger utils.Logger
	tracer trace.Tracer
}

// Option configures a ControlFlowGraph at construction time.
type Option func(*ControlFlowGraph)

// WithAggregator selects a non-default score aggregator.
func WithAggregator(policy Aggregator) Option {
	return func(g *ControlFlowGraph) { g.policy = policy }
}

// WithStopWhenUnchanged enables the early-exit propagation optimisation.
func WithStopWhenUnchanged(stop bool) Option {
	return func(g *ControlFlowGraph) { g.stopWhenUnchanged = stop }
}

// WithLogger attaches a logger for construction/propagation diagnostics.
// If unset, diagnostics are suppressed.
func WithLogger(logger utils.Logger) Option {
	return func(g *ControlFlowGraph) { g.logger = logger }
}

// NewEmpty builds an empty ControlFlowGraph with every structure
// initialised but no BBs, edges, or targets.
func NewEmpty(opts ...Option) *ControlFlowGraph {
	g := &ControlFlowGraph{
		out:                make(map[BbId]map[BbId]Score),
		in:                 make(map[BbId]map[BbId]struct{}),
		idMapping:          make(map[BbId]map[CmpId]struct{}),
		reverseIDMapping:   make(map[CmpId]BbId),
		targets:            make(map[CmpId]struct{}),
		solvedTargets:      make(map[CmpId]struct{}),
		indirectEdges:      make(map[Edge]struct{}),
		callsiteEdges:      make(map[CallSiteId]map[Edge]struct{}),
		callsiteDominators: make(map[CallSiteId]map[CmpId]struct{}),
		dominatorCmps:      make(map[CmpId]struct{}),
		magicBytes:         make(map[Edge][]MagicByte),
		bbIndex:            make(map[BbId]int),
		visited:            collections.NewVersionedBitset(1024),
		policy:             AggregatorHarmonic,
		tracer:             otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *ControlFlowGraph) debugf(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(format, args...)
	}
}

func (g *ControlFlowGraph) infof(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Info(format, args...)
	}
}

func (g *ControlFlowGraph) warnf(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Warn(format, args...)
	}
}

// ensureBb registers a BB in every adjacency structure if it is not
// already known. BBs are created implicitly on first edge reference and
// are never destroyed.
func (g *ControlFlowGraph) ensureBb(id BbId) {
	if _, ok := g.out[id]; ok {
		return
	}
	g.out[id] = make(map[BbId]Score)
	g.in[id] = make(map[BbId]struct{})
	g.bbIndex[id] = len(g.indexToBb)
	g.indexToBb = append(g.indexToBb, id)
}

// HasEdge reports whether the edge is present in the graph.
func (g *ControlFlowGraph) HasEdge(e Edge) bool {
	dsts, ok := g.out[e.Src]
	if !ok {
		return false
	}
	_, ok = dsts[e.Dst]
	return ok
}

// hasOpenTarget reports whether b has at least one CmpId currently in the
// open targets set.
func (g *ControlFlowGraph) hasOpenTarget(b BbId) bool {
	for c := range g.idMapping[b] {
		if _, ok := g.targets[c]; ok {
			return true
		}
	}
	return false
}

// localScore computes b's score from its outgoing-edge cache only (the
// algorithm in spec §4.3): an open target short-circuits to TARGET,
// otherwise the counted successor weights are aggregated and, if b itself
// hosts comparisons, bumped by one step per comparison.
func (g *ControlFlowGraph) localScore(b BbId, input []byte) Score {
	if g.hasOpenTarget(b) {
		return TARGET
	}

	var finite []Score
	for n, w := range g.out[b] {
		if !g.shouldCountEdge(Edge{Src: b, Dst: n}, input) {
			continue
		}
		if w == UNDEF {
			continue
		}
		finite = append(finite, w)
	}

	agg := aggregate(g.policy, finite)

	cmps := len(g.idMapping[b])
	if cmps > 0 && agg != UNDEF {
		return agg + Score(cmps)
	}
	return agg
}

// InitAddEdge bulk-inserts an edge with weight UNDEF, or TARGET if u
// itself holds an open target. No propagation is triggered; callers must
// invoke InitPropTargets once the whole edge set has been loaded. Returns
// whether the edge was previously absent.
func (g *ControlFlowGraph) InitAddEdge(u, v BbId) bool {
	g.ensureBb(u)
	g.ensureBb(v)

	_, existed := g.out[u][v]

	weight := UNDEF
	if g.hasOpenTarget(u) {
		weight = TARGET
	}
	g.out[u][v] = weight
	g.in[v][u] = struct{}{}

	return !existed
}

// AddEdge incrementally inserts (or overwrites) an edge, recomputing local
// scores and triggering backward propagation only when u's own score
// actually changes as a result. Returns whether the edge was previously
// absent; an edge re-inserted with a fresh weight does not count as new.
func (g *ControlFlowGraph) AddEdge(ctx context.Context, u, v BbId) bool {
	ctx, span := g.tracer.Start(ctx, "cfg.add_edge",
		trace.WithAttributes(attribute.Int64("cfg.src", int64(u)), attribute.Int64("cfg.dst", int64(v))))
	defer span.End()

	g.ensureBb(u)
	g.ensureBb(v)

	_, existed := g.out[u][v]

	sv := g.localScore(v, nil)
	suOld := g.localScore(u, nil)

	g.out[u][v] = sv
	g.in[v][u] = struct{}{}

	suNew := g.localScore(u, nil)

	if suNew == suOld {
		return !existed
	}

	// Re-insert the edge weight: idempotent here, but documents that both
	// the unconditional write above and this one are intentional, per
	// the open question on add_edge's double-refresh semantics.
	g.out[u][v] = sv

	vIsTarget := g.hasOpenTarget(v)
	g.debugf("cfg: added edge %d->%d, score of bb %d changed %d -> %d (dst is target: %v), propagating",
		u, v, u, suOld, suNew, vIsTarget)
	g.propagateScore(ctx, u)

	return !existed
}
