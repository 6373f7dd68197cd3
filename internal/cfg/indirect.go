package cfg

import "sort"

// SetEdgeIndirect marks an edge as an indirect-call edge dispatched from
// the given callsite. Idempotent: marking the same edge/callsite pair
// twice has no additional effect.
func (g *ControlFlowGraph) SetEdgeIndirect(e Edge, cs CallSiteId) {
	g.ensureBb(e.Src)
	g.ensureBb(e.Dst)

	g.indirectEdges[e] = struct{}{}

	if g.callsiteEdges[cs] == nil {
		g.callsiteEdges[cs] = make(map[Edge]struct{})
	}
	g.callsiteEdges[cs][e] = struct{}{}
}

// SetMagicBytes gathers the union of offsets covered by segs, emits one
// (offset, buf[offset]) constraint per covered offset, and stores the list
// under e, overwriting any prior constraint for that edge. An offset
// covered by more than one segment contributes exactly one constraint; an
// offset at or beyond len(buf) contributes none.
func (g *ControlFlowGraph) SetMagicBytes(e Edge, buf []byte, segs []TagSeg) {
	offsets := make(map[uint32]struct{})
	for _, seg := range segs {
		for off := seg.Begin; off < seg.End; off++ {
			if int(off) >= len(buf) {
				continue
			}
			offsets[off] = struct{}{}
		}
	}

	constraints := make([]MagicByte, 0, len(offsets))
	for off := range offsets {
		constraints = append(constraints, MagicByte{Offset: off, Value: buf[off]})
	}
	sort.Slice(constraints, func(i, j int) bool { return constraints[i].Offset < constraints[j].Offset })

	g.magicBytes[e] = constraints
}

// GetMagicBytes returns a snapshot of the magic-byte constraints stored for
// e, or an empty slice if none are recorded.
func (g *ControlFlowGraph) GetMagicBytes(e Edge) []MagicByte {
	stored := g.magicBytes[e]
	out := make([]MagicByte, len(stored))
	copy(out, stored)
	return out
}

// shouldCountEdge implements §4.4: a direct edge always counts. An
// indirect edge with no recorded constraint counts unconditionally too.
// Otherwise every recorded constraint must be consistent with input: a
// constraint on an offset beyond input's length is treated as satisfied
// (permissive masking), since the fuzzer simply hasn't explored that deep
// into the input yet.
func (g *ControlFlowGraph) shouldCountEdge(e Edge, input []byte) bool {
	if _, indirect := g.indirectEdges[e]; !indirect {
		return true
	}

	constraints := g.magicBytes[e]
	if len(constraints) == 0 {
		return true
	}

	for _, c := range constraints {
		if int(c.Offset) >= len(input) {
			continue
		}
		if input[c.Offset] != c.Value {
			return false
		}
	}
	return true
}

// DominatesIndirectCall reports whether cmp constrains which indirect
// target is reached from some callsite.
func (g *ControlFlowGraph) DominatesIndirectCall(cmp CmpId) bool {
	_, ok := g.dominatorCmps[cmp]
	return ok
}

// GetCallsiteDominators returns a snapshot of the CmpIds known to
// constrain dispatch from cs, or nil if cs is unknown.
func (g *ControlFlowGraph) GetCallsiteDominators(cs CallSiteId) []CmpId {
	doms, ok := g.callsiteDominators[cs]
	if !ok {
		g.debugf("cfg: get_callsite_dominators: unknown callsite %d", cs)
		return nil
	}
	out := make([]CmpId, 0, len(doms))
	for c := range doms {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	g.debugf("cfg: get_callsite_dominators: callsite %d -> %v", cs, out)
	return out
}
