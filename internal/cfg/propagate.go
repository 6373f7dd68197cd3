package cfg

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// propagateScore walks reverse BFS from b over the live graph, recomputing
// each visited node's local score and writing it into the cached weight of
// every incoming edge. This replaces the source implementation's
// full-graph clone per call: reverse adjacency (g.in) is maintained
// incrementally by AddEdge/InitAddEdge, so propagation only ever touches
// the nodes it actually needs to visit.
//
// Traversal continues regardless of whether a node's score changed unless
// stopWhenUnchanged is enabled; BFS visits each node at most once, so
// termination and O(V+E) complexity are both guaranteed by construction.
func (g *ControlFlowGraph) propagateScore(ctx context.Context, b BbId) {
	_, span := g.tracer.Start(ctx, "cfg.propagate", trace.WithAttributes(attribute.Int64("cfg.root", int64(b))))
	defer span.End()

	if _, ok := g.out[b]; !ok {
		return
	}

	g.visited.Reset()
	queue := []BbId{b}
	g.markVisited(b)

	visitedCount := 0
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		visitedCount++

		sv := g.localScore(v, nil)

		changed := false
		for p := range g.in[v] {
			if old, ok := g.out[p][v]; !ok || old != sv {
				changed = true
			}
			g.out[p][v] = sv
		}

		if g.stopWhenUnchanged && v != b && !changed {
			continue
		}

		for p := range g.in[v] {
			if g.isVisited(p) {
				continue
			}
			g.markVisited(p)
			queue = append(queue, p)
		}
	}

	span.SetAttributes(attribute.Int64("cfg.visited", int64(visitedCount)))
}

func (g *ControlFlowGraph) bbIdx(id BbId) int {
	idx, ok := g.bbIndex[id]
	if !ok {
		return -1
	}
	return idx
}

func (g *ControlFlowGraph) markVisited(id BbId) {
	idx := g.bbIdx(id)
	if idx < 0 {
		return
	}
	g.visited.Set(idx)
}

func (g *ControlFlowGraph) isVisited(id BbId) bool {
	idx := g.bbIdx(id)
	if idx < 0 {
		return false
	}
	return g.visited.Test(idx)
}
