package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dynguide/cfg-engine/pkg/errors"
)

// ConstructionPayload is the on-disk/on-wire shape produced by an external
// CFG-file loader: the raw edge list, target set, BB/Cmp identifier mapping,
// and callsite dominator sets that the engine's populated constructor
// consumes. The core never parses SARIF or CFG files itself; this shape is
// the contract at that boundary.
type ConstructionPayload struct {
	// Edges is the full (possibly duplicated) edge list, each entry an
	// (src, dst) BB pair.
	Edges []EdgePair `json:"edges"`

	// Targets is the initial set of open target comparison IDs.
	Targets []uint32 `json:"targets"`

	// IDMapping maps a BB to the set of comparison IDs it contains.
	IDMapping map[uint32][]uint32 `json:"id_mapping"`

	// CallsiteDominators maps a callsite to the set of comparison IDs
	// that dominate (constrain) its indirect targets.
	CallsiteDominators map[uint32][]uint32 `json:"callsite_dominators"`
}

// EdgePair is a single directed (src, dst) BB edge in a construction payload.
type EdgePair struct {
	Src uint32 `json:"src"`
	Dst uint32 `json:"dst"`
}

// DecodePayload unmarshals a construction payload from its JSON wire
// representation.
func DecodePayload(data []byte) (*ConstructionPayload, error) {
	var payload ConstructionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(errors.CodeDecodeError, "failed to decode construction payload", err)
	}
	return &payload, nil
}

// Load fetches the construction payload stored at key under the given
// Storage backend and decodes it. Callers typically obtain storage via
// NewStorage and pass the result straight into an engine's populated
// constructor.
func Load(ctx context.Context, store Storage, key string) (*ConstructionPayload, error) {
	reader, err := store.Download(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorageError, fmt.Sprintf("failed to fetch construction payload %q", key), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(errors.CodeStorageError, fmt.Sprintf("failed to read construction payload %q", key), err)
	}

	return DecodePayload(data)
}
