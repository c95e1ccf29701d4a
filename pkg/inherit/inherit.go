// Package inherit resolves template inheritance chains. A schema whose
// wrapper carries extends="parent" is folded onto the named parent: the
// parent tree comes first, the child's top-level nodes replace same-kind
// same-name root children or are appended, hooks concatenate parent to
// child, and variable defaults merge with the child winning.
package inherit

import (
	"strings"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/schema"
	"github.com/arthur-debert/sprout/pkg/types"
)

// DefaultMaxDepth bounds how long an extends chain may grow.
const DefaultMaxDepth = 10

// LoaderFunc looks up a parent template by name. The second return value
// reports whether the template exists.
type LoaderFunc func(name string) (*types.TemplateData, bool)

// Result is a fully resolved tree plus the merged variable defaults.
type Result struct {
	Tree      *types.SchemaTree
	Variables map[string]string
	Warnings  []string
}

// Resolve folds the schema's inheritance chain with the default depth cap.
func Resolve(xmlContent string, loader LoaderFunc) (*Result, error) {
	return ResolveWithMaxDepth(xmlContent, loader, DefaultMaxDepth)
}

type chainLink struct {
	name string // empty for the starting document
	frag *schema.Fragment
	vars map[string]string // stored defaults of a loaded parent
}

// ResolveWithMaxDepth folds the schema's inheritance chain, walking
// parent links until a template without extends is reached. Cycles,
// missing parents, and over-deep chains are errors.
func ResolveWithMaxDepth(xmlContent string, loader LoaderFunc, maxDepth int) (*Result, error) {
	logger := logging.GetLogger("inherit")

	frag, err := schema.ParseFragment(xmlContent)
	if err != nil {
		return nil, err
	}

	chain := []chainLink{{frag: frag}}
	visited := make(map[string]bool)
	var order []string

	current := frag.Extends
	for current != "" {
		key := strings.ToLower(current)
		if visited[key] {
			return nil, errors.Newf(errors.ErrInheritanceCycle,
				"circular inheritance detected: %s", strings.Join(append(order, current), " -> "))
		}
		if len(order) >= maxDepth {
			return nil, errors.Newf(errors.ErrInheritance,
				"inheritance chain exceeds maximum depth of %d", maxDepth)
		}
		if loader == nil {
			return nil, errors.Newf(errors.ErrInheritance,
				"schema extends template %q but no template loader is available", current)
		}

		data, ok := loader(current)
		if !ok {
			return nil, errors.Newf(errors.ErrInheritance, "parent template %q not found", current)
		}
		visited[key] = true
		order = append(order, current)

		parentFrag, err := schema.ParseFragment(data.SchemaXML)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInheritance,
				"parent template %q has an invalid schema", current)
		}

		chain = append(chain, chainLink{name: current, frag: parentFrag, vars: data.Variables})
		current = parentFrag.Extends
	}

	if len(order) > 0 {
		logger.Debug().Strs("chain", order).Msg("resolved inheritance chain")
	}
	return fold(chain)
}

// fold merges the chain root-most ancestor first, so each descendant
// overrides what its parents laid down.
func fold(chain []chainLink) (*Result, error) {
	var tree *types.SchemaTree
	var warnings []string
	mergedVars := make(map[string]string)

	for i := len(chain) - 1; i >= 0; i-- {
		link := chain[i]
		warnings = append(warnings, link.frag.Warnings...)

		for k, v := range link.vars {
			mergedVars[strings.Trim(k, "%")] = v
		}
		for k, v := range link.frag.Variables {
			mergedVars[k] = v
		}

		if tree == nil {
			if len(link.frag.Nodes) == 0 {
				return nil, errors.Newf(errors.ErrInheritance,
					"base template %q has no folder or file nodes", link.name)
			}
			if len(link.frag.Nodes) > 1 {
				warnings = append(warnings, "base template has multiple top-level nodes: extra nodes become root children")
			}
			root := link.frag.Nodes[0]
			root.Children = mergeChildren(root.Children, link.frag.Nodes[1:])
			tree = &types.SchemaTree{Root: root, Hooks: link.frag.Hooks}
			continue
		}

		tree.Root.Children = mergeChildren(tree.Root.Children, link.frag.Nodes)
		tree.Hooks = append(tree.Hooks, link.frag.Hooks...)
	}

	if tree == nil {
		return nil, errors.New(errors.ErrInheritance, "empty inheritance chain")
	}

	tree.Stats = schema.ComputeStats(tree.Root)
	if len(mergedVars) > 0 {
		tree.Variables = mergedVars
	}
	return &Result{Tree: tree, Variables: mergedVars, Warnings: warnings}, nil
}

// mergeChildren overlays incoming nodes onto an existing sibling list. A
// named node replaces the first same-kind same-name sibling; everything
// else, control nodes included, is appended in order.
func mergeChildren(existing, incoming []*types.SchemaNode) []*types.SchemaNode {
	merged := make([]*types.SchemaNode, len(existing))
	copy(merged, existing)

	for _, node := range incoming {
		if node.Name != "" {
			replaced := false
			for i, sibling := range merged {
				if sibling.Kind == node.Kind && sibling.Name == node.Name {
					merged[i] = node
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}
		}
		merged = append(merged, node)
	}
	return merged
}
