package cfg

// Aggregator selects the policy used to combine a BB's outgoing-edge scores
// into its own local score. Harmonic is the default; the others are kept
// for experimentation, per the design notes on aggregation selection.
type Aggregator string

const (
	// AggregatorHarmonic combines successor scores via the harmonic mean,
	// H(x_1..x_k) = k / Σ(1/x_i). It weights short paths heavily: a
	// single close successor dominates the result, but unlike a plain
	// minimum it still rewards a BB with several viable paths.
	AggregatorHarmonic Aggregator = "harmonic"
	// AggregatorGreedy combines successor scores as 1 + min(x_i).
	AggregatorGreedy Aggregator = "greedy"
	// AggregatorCoverage sums successor scores, treating TARGET as 1.
	AggregatorCoverage Aggregator = "coverage"
)

// ParseAggregator validates a configured aggregator name, defaulting to
// AggregatorHarmonic for an empty string.
func ParseAggregator(name string) (Aggregator, bool) {
	switch Aggregator(name) {
	case "":
		return AggregatorHarmonic, true
	case AggregatorHarmonic, AggregatorGreedy, AggregatorCoverage:
		return Aggregator(name), true
	default:
		return "", false
	}
}

// aggregate combines the given finite (non-UNDEF) successor scores into a
// single score according to the selected aggregator. It is the caller's
// responsibility to have already filtered out UNDEF entries; an empty
// input always aggregates to UNDEF.
func aggregate(policy Aggregator, scores []Score) Score {
	if len(scores) == 0 {
		return UNDEF
	}
	switch policy {
	case AggregatorGreedy:
		return aggregateGreedy(scores)
	case AggregatorCoverage:
		return aggregateCoverage(scores)
	default:
		return aggregateHarmonic(scores)
	}
}

// aggregateHarmonic computes the harmonic mean in 64-bit floating point and
// truncates to u32. Per the numeric conventions, a truncated result that
// collides with UNDEF is nudged down by one — a documented saturation
// guard, not a real score.
func aggregateHarmonic(scores []Score) Score {
	var reciprocalSum float64
	for _, s := range scores {
		// A successor that is itself a target (score 0) would divide by
		// zero; treated as distance 1, same substitution the coverage
		// aggregator applies explicitly, so a single such successor's
		// harmonic mean still comes out to 1 rather than collapsing to 0.
		x := s
		if x == TARGET {
			x = 1
		}
		reciprocalSum += 1.0 / float64(x)
	}
	if reciprocalSum == 0 {
		return UNDEF
	}
	mean := float64(len(scores)) / reciprocalSum
	result := Score(uint32(mean))
	if result == UNDEF {
		return UNDEF - 1
	}
	return result
}

// aggregateGreedy is 1 + min(x_i), saturating instead of wrapping if the
// minimum is already UNDEF (which aggregate's caller never passes in, since
// UNDEF entries are filtered before this point, but the saturation guard is
// kept here too for defense against a future caller relaxing that).
func aggregateGreedy(scores []Score) Score {
	min := scores[0]
	for _, s := range scores[1:] {
		if s < min {
			min = s
		}
	}
	if min == UNDEF {
		return UNDEF
	}
	return min + 1
}

// aggregateCoverage sums successor scores, treating TARGET as 1 so that a
// BB with many close-to-target successors scores as "more covered" than
// one with a single such successor.
func aggregateCoverage(scores []Score) Score {
	var total uint64
	for _, s := range scores {
		if s == TARGET {
			total++
		} else {
			total += uint64(s)
		}
	}
	if total >= uint64(UNDEF) {
		return UNDEF - 1
	}
	return Score(total)
}
