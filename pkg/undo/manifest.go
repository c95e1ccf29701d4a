package undo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/types"
)

// manifestVersion is bumped only if the manifest shape changes
// incompatibly. Readers accept any manifest whose version they know.
const manifestVersion = "1"

// Manifest records what one materialization run created, so a later undo
// can reverse it without re-reading the schema.
type Manifest struct {
	Version    string              `json:"version"`
	CreatedAt  string              `json:"created_at"`
	OutputRoot string              `json:"output_root"`
	Project    string              `json:"project,omitempty"`
	Items      []types.CreatedItem `json:"items"`
}

// NewManifest builds a manifest for the items a run just created.
func NewManifest(outputRoot, project string, items []types.CreatedItem) *Manifest {
	return &Manifest{
		Version:    manifestVersion,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		OutputRoot: outputRoot,
		Project:    project,
		Items:      items,
	}
}

// WriteManifest writes m as indented JSON at path, creating parent
// directories as needed. An existing manifest is replaced; each create run
// supersedes the previous one.
func WriteManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode undo manifest")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "failed to create manifest directory %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrPermission, "failed to write undo manifest %s", path)
	}
	return nil
}

// ReadManifest loads the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "no undo manifest at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrPermission, "failed to read undo manifest %s", path)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "undo manifest %s is not valid JSON", path)
	}
	if m.Version != manifestVersion {
		return nil, errors.Newf(errors.ErrInternal,
			"undo manifest %s has unsupported version %q", path, m.Version)
	}
	return &m, nil
}
