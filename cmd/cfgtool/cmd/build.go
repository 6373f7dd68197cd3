package cmd

import (
	"context"
	"fmt"

	"github.com/dynguide/cfg-engine/internal/cfg"
	"github.com/dynguide/cfg-engine/pkg/loader"
)

// loadGraph fetches the construction payload at path through the
// configured loader backend, converts its wire shape into the engine's
// ConstructionData, and builds a populated ControlFlowGraph from it.
func loadGraph(ctx context.Context, path string) (*cfg.ControlFlowGraph, error) {
	store, err := loader.NewStorage(&appConfig.Loader)
	if err != nil {
		return nil, fmt.Errorf("configuring loader: %w", err)
	}

	payload, err := loader.Load(ctx, store, path)
	if err != nil {
		return nil, fmt.Errorf("loading construction payload: %w", err)
	}

	aggregator, ok := cfg.ParseAggregator(appConfig.Engine.Aggregator)
	if !ok {
		return nil, fmt.Errorf("unsupported aggregator %q", appConfig.Engine.Aggregator)
	}

	data := toConstructionData(payload)
	opts := []cfg.Option{
		cfg.WithAggregator(aggregator),
		cfg.WithStopWhenUnchanged(appConfig.Engine.StopWhenUnchanged),
		cfg.WithLogger(GetLogger()),
	}

	return cfg.New(data, opts...), nil
}

// toConstructionData adapts the loader's generic JSON-decoded payload
// shape into the engine's typed construction input.
func toConstructionData(payload *loader.ConstructionPayload) cfg.ConstructionData {
	data := cfg.ConstructionData{
		Edges:              make([]cfg.Edge, len(payload.Edges)),
		Targets:            make([]cfg.CmpId, len(payload.Targets)),
		IDMapping:          make(map[cfg.BbId][]cfg.CmpId, len(payload.IDMapping)),
		CallsiteDominators: make(map[cfg.CallSiteId][]cfg.CmpId, len(payload.CallsiteDominators)),
	}

	for i, e := range payload.Edges {
		data.Edges[i] = cfg.Edge{Src: cfg.BbId(e.Src), Dst: cfg.BbId(e.Dst)}
	}
	for i, t := range payload.Targets {
		data.Targets[i] = cfg.CmpId(t)
	}
	for bb, cmps := range payload.IDMapping {
		converted := make([]cfg.CmpId, len(cmps))
		for i, c := range cmps {
			converted[i] = cfg.CmpId(c)
		}
		data.IDMapping[cfg.BbId(bb)] = converted
	}
	for cs, doms := range payload.CallsiteDominators {
		converted := make([]cfg.CmpId, len(doms))
		for i, c := range doms {
			converted[i] = cfg.CmpId(c)
		}
		data.CallsiteDominators[cfg.CallSiteId(cs)] = converted
	}

	return data
}
