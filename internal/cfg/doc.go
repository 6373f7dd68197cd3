// Package cfg implements the directed-guidance control-flow graph engine
// used to steer a coverage-guided, target-directed fuzzer. It maintains an
// in-memory, incrementally-updated directed multigraph over basic-block
// identifiers, annotates blocks that contain comparisons of interest
// ("targets"), and computes a numeric distance-to-target score for every
// block by aggregating its successors' cached scores.
//
// The engine is single-owner and non-concurrent: exactly one goroutine is
// expected to call its methods at a time, and no internal locking is
// performed. It persists nothing to disk; construction payloads are
// produced and fetched by the surrounding pkg/loader package.
package cfg
