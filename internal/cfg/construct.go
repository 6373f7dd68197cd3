package cfg

import "context"

// ConstructionData is the decoded shape the populated constructor expects:
// the raw edge list, the initial open-target set, the BB<->Cmp identifier
// mapping, and the callsite dominator sets. It is the core's side of the
// contract with the surrounding CFG-file loader; pkg/loader is responsible
// for producing one from whatever wire format the external static-analysis
// tooling emits.
type ConstructionData struct {
	Edges              []Edge
	Targets            []CmpId
	IDMapping          map[BbId][]CmpId
	CallsiteDominators map[CallSiteId][]CmpId
}

// New builds a populated ControlFlowGraph from a construction payload.
//
// Order matters: the target set, BB<->Cmp mappings, and dominator tables
// are installed first, since InitAddEdge consults the open-target set
// while assigning initial edge weights. Edges are then bulk-inserted via
// InitAddEdge, and only once the whole edge set is loaded does
// InitPropTargets run backward propagation, once per target, instead of
// once per edge.
func New(data ConstructionData, opts ...Option) *ControlFlowGraph {
	g := NewEmpty(opts...)

	for bb, cmps := range data.IDMapping {
		g.ensureBb(bb)
		set := make(map[CmpId]struct{}, len(cmps))
		for _, c := range cmps {
			set[c] = struct{}{}
			// Reverse mapping: last-writer-wins if a CmpId appears under
			// more than one BB, since the source's own reverse-mapping
			// construction does the same and treats the situation as
			// unexpected rather than fatal.
			if prev, ok := g.reverseIDMapping[c]; ok && prev != bb {
				g.warnf("cfg: cmp %d remapped from bb %d to bb %d", c, prev, bb)
			}
			g.reverseIDMapping[c] = bb
		}
		g.idMapping[bb] = set
	}

	for _, t := range data.Targets {
		g.targets[t] = struct{}{}
	}

	for cs, doms := range data.CallsiteDominators {
		set := make(map[CmpId]struct{}, len(doms))
		for _, c := range doms {
			set[c] = struct{}{}
			g.dominatorCmps[c] = struct{}{}
		}
		g.callsiteDominators[cs] = set
	}

	for _, e := range data.Edges {
		g.InitAddEdge(e.Src, e.Dst)
	}

	g.infof("cfg: constructed with %d bbs, %d edges, %d targets, %d dominator cmps",
		len(g.out), len(data.Edges), len(g.targets), len(g.dominatorCmps))
	g.debugf("cfg: id_mapping=%v dominator_cmps=%v", g.idMapping, g.dominatorCmps)

	g.InitPropTargets(context.Background())

	return g
}

// InitPropTargets runs backward propagation once per open target, rooted
// at that target's BB. Call after bulk-loading edges with InitAddEdge;
// this amortises propagation cost across the whole load instead of paying
// it once per edge.
func (g *ControlFlowGraph) InitPropTargets(ctx context.Context) {
	for t := range g.targets {
		bb, ok := g.reverseIDMapping[t]
		if !ok {
			g.warnf("cfg: target cmp %d has no known bb, skipping propagation", t)
			continue
		}
		g.propagateScore(ctx, bb)
	}
}

// RemoveTarget moves c from the open-target set into solved_targets and,
// if c's BB is known, re-propagates from that BB so ancestors downgrade
// their scores to reflect the target no longer being open. A target that
// is not currently open is a no-op.
func (g *ControlFlowGraph) RemoveTarget(ctx context.Context, c CmpId) {
	if _, ok := g.targets[c]; !ok {
		return
	}
	delete(g.targets, c)
	g.solvedTargets[c] = struct{}{}

	bb, ok := g.reverseIDMapping[c]
	if !ok {
		g.warnf("cfg: remove_target: cmp %d has no known bb, skipping propagation", c)
		return
	}
	g.propagateScore(ctx, bb)
}

// IsTarget reports whether c is a target, open or solved; the solved set
// is retained so callers can still recognise a comparison that used to be
// a target.
func (g *ControlFlowGraph) IsTarget(c CmpId) bool {
	if _, ok := g.targets[c]; ok {
		return true
	}
	_, ok := g.solvedTargets[c]
	return ok
}
