// Package generators creates the binary artifacts a schema can declare
// through the generate attribute: solid-color placeholder images and
// SQLite databases.
package generators

import (
	"sort"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Generator writes one generated artifact to disk.
type Generator interface {
	// Noun is the word run reports use for the artifact, as in
	// "Generated image".
	Noun() string

	// Generate resolves the node's generator config against vars and
	// writes the artifact at path. Dry-run handling belongs to the
	// caller; Generate always writes.
	Generate(node *types.SchemaNode, path string, vars map[string]string) error
}

// Registry resolves generate attribute values to generators.
type Registry struct {
	byName map[string]Generator
}

// NewRegistry builds the standard registry. cfg supplies the image
// generator's fallback dimensions and background.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{byName: map[string]Generator{
		"image":  NewImage(cfg.Image),
		"sqlite": NewSQLite(),
	}}
}

// Lookup returns the generator registered for name. Generate values are
// attribute values, not user input, so the match is case sensitive.
func (r *Registry) Lookup(name string) (Generator, bool) {
	gen, ok := r.byName[name]
	return gen, ok
}

// Names returns the registered generator names in sorted order, for
// "supported generators" messages.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Noun returns the report word for a generate value, falling back to
// "file" for unregistered generators.
func (r *Registry) Noun(name string) string {
	if gen, ok := r.byName[name]; ok {
		return gen.Noun()
	}
	return "file"
}
