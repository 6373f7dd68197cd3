// Package loader fetches a CFG construction payload's raw bytes from local
// disk or object storage and decodes it into the shape the engine's
// constructor expects. Decoding here means the generic unmarshalling of the
// already-defined construction-payload wire shape (spec §6); the actual
// SARIF/CFG-file parsing that produces that payload in the first place
// remains an external collaborator's job, per the engine's non-goals.
package loader

import (
	"context"
	"fmt"
	"io"

	"github.com/dynguide/cfg-engine/pkg/config"
)

// Storage defines the interface for fetching construction-payload blobs by
// key. It is intentionally narrow: cfgtool is a read-only inspection tool
// and never writes a payload back to a backend. NewLocalStorage and
// NewCOSStorage expose Upload/Delete/Exists/GetURL etc. on their concrete
// types for callers (and tests) that need the full backend surface, but
// Storage itself only declares what Load (pkg/loader/payload.go) uses.
type Storage interface {
	// Download downloads data from the specified key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// SourceType represents the type of storage backend.
type SourceType string

const (
	SourceTypeLocal SourceType = "local"
	SourceTypeCOS   SourceType = "cos"
)

// NewStorage creates a new Storage instance based on the loader configuration.
func NewStorage(cfg *config.LoaderConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch SourceType(cfg.Source) {
	case SourceTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case SourceTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the loader's storage configuration.
func ValidateConfig(cfg *config.LoaderConfig) error {
	if cfg == nil {
		return fmt.Errorf("loader config is nil")
	}

	sourceType := SourceType(cfg.Source)

	if sourceType == "" {
		sourceType = SourceTypeLocal
	}

	if sourceType != SourceTypeCOS && sourceType != SourceTypeLocal {
		return fmt.Errorf("unsupported loader source: %s", cfg.Source)
	}

	if sourceType == SourceTypeCOS {
		if cfg.Bucket == "" {
			return fmt.Errorf("COS bucket is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("COS credentials are required")
		}
	}

	if sourceType == SourceTypeLocal {
		if cfg.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	}

	return nil
}
