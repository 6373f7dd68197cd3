package cfg

// HasScore reports whether bb has a known (non-UNDEF) local score — a
// cheap reachability-to-target test.
func (g *ControlFlowGraph) HasScore(bb BbId) bool {
	return g.ScoreForBb(bb) != UNDEF
}

// HasPathToTarget is equivalent to HasScore on cmp's BB; false if cmp has
// no known BB mapping.
func (g *ControlFlowGraph) HasPathToTarget(cmp CmpId) bool {
	bb, ok := g.reverseIDMapping[cmp]
	if !ok {
		return false
	}
	return g.HasPathToTargetBb(bb)
}

// HasPathToTargetBb reports whether bb has a known directed path to some
// target BB.
func (g *ControlFlowGraph) HasPathToTargetBb(bb BbId) bool {
	return g.HasScore(bb)
}

// ScoreForBb returns bb's local score computed with an empty input, so
// every indirect edge is masked in permissively.
func (g *ControlFlowGraph) ScoreForBb(bb BbId) Score {
	if _, ok := g.out[bb]; !ok {
		return UNDEF
	}
	return g.localScore(bb, nil)
}

// ScoreForBbInp returns bb's local score computed with input-dependent
// masking of indirect edges.
func (g *ControlFlowGraph) ScoreForBbInp(bb BbId, input []byte) Score {
	if _, ok := g.out[bb]; !ok {
		return UNDEF
	}
	return g.localScore(bb, input)
}

// Stats is a read-only snapshot of a graph's size, handy for logging and
// CLI summaries.
type Stats struct {
	BbCount           int
	EdgeCount         int
	OpenTargetCount   int
	SolvedTargetCount int
	IndirectEdgeCount int
	CallsiteCount     int
	DominatorCmpCount int
}

// Stats reports the graph's current size.
func (g *ControlFlowGraph) Stats() Stats {
	edges := 0
	for _, dsts := range g.out {
		edges += len(dsts)
	}
	return Stats{
		BbCount:           len(g.out),
		EdgeCount:         edges,
		OpenTargetCount:   len(g.targets),
		SolvedTargetCount: len(g.solvedTargets),
		IndirectEdgeCount: len(g.indirectEdges),
		CallsiteCount:     len(g.callsiteEdges),
		DominatorCmpCount: len(g.dominatorCmps),
	}
}
