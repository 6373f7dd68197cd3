package cfg

// Scenarios S1-S6: concrete worked examples a correct implementation must
// reproduce exactly, not just "something plausible".

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: linear chain 0 -> 10 -> 20 -> 30, single target at bb 30. This is the
// scenario whose worked numbers (score_for_bb(20) must equal 1, the same as
// greedy's 1+min(0)) caught the harmonic-mean divide-by-zero bug: a naive
// 1/0 reciprocal would make the harmonic mean of {TARGET} collapse to 0.
func TestScenario1_LinearChainSingleTarget(t *testing.T) {
	g := New(ConstructionData{
		Edges:     []Edge{{Src: 0, Dst: 10}, {Src: 10, Dst: 20}, {Src: 20, Dst: 30}},
		Targets:   []CmpId{1100},
		IDMapping: map[BbId][]CmpId{10: {1000}, 30: {1100}},
	})

	assert.Equal(t, TARGET, g.ScoreForBb(30))
	assert.Equal(t, Score(1), g.ScoreForBb(20), "harmonic mean of a singleton TARGET successor must equal greedy's 1+min(0)")
	assert.LessOrEqual(t, g.ScoreForBb(10), g.ScoreForBb(0))

	for _, bb := range []BbId{0, 10, 20, 30} {
		assert.True(t, g.HasScore(bb), "bb %d should have a known score", bb)
	}
}

// S2: a branch with one dead side. 0 -> 10 -> 20 -> 30 (target), and a
// second branch 10 -> 40 -> 50 that never reaches the target.
func TestScenario2_BranchWithDeadSide(t *testing.T) {
	g := New(ConstructionData{
		Edges: []Edge{
			{Src: 0, Dst: 10}, {Src: 10, Dst: 20}, {Src: 20, Dst: 30},
			{Src: 10, Dst: 40}, {Src: 40, Dst: 50},
		},
		Targets:   []CmpId{1100},
		IDMapping: map[BbId][]CmpId{30: {1100}},
	})

	assert.False(t, g.HasPathToTargetBb(40))
	assert.False(t, g.HasScore(40))
	assert.False(t, g.HasScore(50))

	assert.True(t, g.HasScore(0))
	assert.True(t, g.HasScore(10))
	assert.True(t, g.HasScore(20))
}

// S3: after the target is solved via remove_target, every BB's score
// reverts to UNDEF, and is_target still recognises the solved comparison.
func TestScenario3_TargetSolvedViaRemoveTarget(t *testing.T) {
	g := New(ConstructionData{
		Edges:     []Edge{{Src: 0, Dst: 10}, {Src: 10, Dst: 20}, {Src: 20, Dst: 30}},
		Targets:   []CmpId{1100},
		IDMapping: map[BbId][]CmpId{10: {1000}, 30: {1100}},
	})
	require.True(t, g.HasScore(0))

	g.RemoveTarget(context.Background(), 1100)

	for _, bb := range []BbId{0, 10, 20, 30} {
		assert.Equal(t, UNDEF, g.ScoreForBb(bb), "bb %d should lose its score once the only target is solved", bb)
	}
	assert.True(t, g.IsTarget(1100))
	assert.False(t, g.HasPathToTargetBb(0))
}

// S4: an indirect edge gated by a single magic byte at offset 0. The cached
// edge weight is fixed at construction time and does not change when the
// edge is later marked indirect; only whether it counts toward aggregation
// depends on the queried input.
func TestScenario4_IndirectEdgeGatedByMagicByte(t *testing.T) {
	g := New(ConstructionData{
		Edges:     []Edge{{Src: 0, Dst: 10}, {Src: 10, Dst: 20}},
		Targets:   []CmpId{1200},
		IDMapping: map[BbId][]CmpId{20: {1200}},
	})

	edge := Edge{Src: 10, Dst: 20}
	g.SetEdgeIndirect(edge, 1)
	g.SetMagicBytes(edge, []byte{0xAA, 0xBB}, []TagSeg{{Begin: 0, End: 1}})

	// Marking an edge indirect and constraining it never rewrites a cached
	// weight by itself.
	assert.Equal(t, TARGET, g.out[10][20])

	assert.Equal(t, Score(1), g.ScoreForBbInp(10, []byte{0xAA}), "matching magic byte: edge counted, close to target")
	assert.Equal(t, UNDEF, g.ScoreForBbInp(10, []byte{0x00}), "wrong magic byte: edge masked out, no other path")
	assert.Equal(t, Score(1), g.ScoreForBbInp(10, nil), "offset beyond input: permissive, edge counted")
}

// S5 / property P5: building a graph via bulk InitAddEdge+InitPropTargets
// must agree with building the same graph by replaying the same edges, in
// shuffled order, through the incremental AddEdge path.
func TestScenario5_IncrementalMatchesBulk(t *testing.T) {
	edges := []Edge{
		{Src: 0, Dst: 10}, {Src: 10, Dst: 20}, {Src: 20, Dst: 30},
		{Src: 10, Dst: 40}, {Src: 40, Dst: 30}, {Src: 30, Dst: 50},
	}
	targets := []CmpId{9999}
	idMapping := map[BbId][]CmpId{50: {9999}}

	bulk := New(ConstructionData{Edges: edges, Targets: targets, IDMapping: idMapping})

	incremental := NewEmpty()
	incremental.idMapping[50] = map[CmpId]struct{}{9999: {}}
	incremental.reverseIDMapping[9999] = 50
	incremental.targets[9999] = struct{}{}

	shuffled := make([]Edge, len(edges))
	copy(shuffled, edges)
	rng := rand.New(rand.NewSource(1))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	ctx := context.Background()
	for _, e := range shuffled {
		incremental.AddEdge(ctx, e.Src, e.Dst)
	}

	for bb := BbId(0); bb <= 50; bb += 10 {
		assert.Equal(t, bulk.ScoreForBb(bb), incremental.ScoreForBb(bb), "bb %d score diverged between bulk and incremental construction", bb)
	}
}

// S6 (scaled down): a long chain must load and propagate correctly without
// blowing the stack or mis-terminating BFS. The full 10^6-BB scale is
// exercised separately as a benchmark.
func TestScenario6_LongChainScaledDown(t *testing.T) {
	const n = 2000

	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Edge{Src: BbId(i), Dst: BbId(i + 1)})
	}

	g := New(ConstructionData{
		Edges:     edges,
		Targets:   []CmpId{1},
		IDMapping: map[BbId][]CmpId{BbId(n): {1}},
	})

	for i := 0; i <= n; i++ {
		assert.True(t, g.HasScore(BbId(i)), "bb %d should have a known score in a fully connected chain", i)
	}
	assert.Equal(t, TARGET, g.ScoreForBb(BbId(n)))
	assert.Equal(t, Score(1), g.ScoreForBb(BbId(n-1)))
}

func BenchmarkPropagateLargeChain(b *testing.B) {
	const n = 1_000_000

	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		edges = append(edges, Edge{Src: BbId(i), Dst: BbId(i + 1)})
	}
	data := ConstructionData{
		Edges:     edges,
		Targets:   []CmpId{1},
		IDMapping: map[BbId][]CmpId{BbId(n): {1}},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		New(data)
	}
}
