// Package interp walks parsed schema trees and materializes them: folders
// and files are created on disk (or simulated in dry-run mode) while if,
// else and repeat nodes steer which parts of the tree take effect.
//
// Control flow and effects are kept apart. The Walker owns every traversal
// rule; a Visitor owns what happens at each folder or file. Materialization,
// dry runs and the diff preview are all visitors over the same walk, so
// their notion of which nodes apply can never drift apart.
package interp

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/sprout/pkg/directives"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Visitor receives the terminal events of one schema tree walk. The Walker
// resolves names, evaluates conditions and expands repeats before calling;
// visitors decide what a visit means (create, simulate, diff).
type Visitor interface {
	// EnterFolder is called once per folder with its resolved name and
	// target path. Returning descend=false prunes the folder's children;
	// returning an error aborts the whole walk.
	EnterFolder(node *types.SchemaNode, name, path string) (descend bool, err error)

	// LeaveFolder closes the matching EnterFolder after all children.
	LeaveFolder(node *types.SchemaNode, name, path string)

	// File is called once per file node. vars is the scope at this point
	// of the walk, including any repeat iteration variables.
	File(node *types.SchemaNode, name, path string, vars map[string]string) error

	// EnterIf and LeaveIf bracket the children of an if node whose
	// condition held. Untaken branches produce no events at all.
	EnterIf(node *types.SchemaNode)
	LeaveIf(node *types.SchemaNode)

	// EnterRepeat and LeaveRepeat bracket every iteration of a repeat
	// node that validated to a positive count.
	EnterRepeat(node *types.SchemaNode, count int, asVar string)
	LeaveRepeat(node *types.SchemaNode)

	// Issue reports a control-flow diagnostic: an orphaned else, an
	// invalid repeat count or variable name, a zero-count skip. The
	// affected node is skipped, never the walk.
	Issue(level types.LogType, message, details string)
}

// repeatVarPattern is what a repeat "as" variable name must look like.
var repeatVarPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Walker drives schema tree traversals. The zero value is not usable;
// construct with NewWalker.
type Walker struct {
	maxRepeat int
	visitor   Visitor
}

// NewWalker returns a Walker that reports to v and rejects repeat counts
// above maxRepeat.
func NewWalker(maxRepeat int, v Visitor) *Walker {
	return &Walker{maxRepeat: maxRepeat, visitor: v}
}

// Walk traverses the tree rooted at root, resolving names against vars and
// joining paths under basePath. It returns the first error a Visitor raised,
// or nil.
func (w *Walker) Walk(root *types.SchemaNode, basePath string, vars map[string]string) error {
	return w.walkNode(root, basePath, vars, nil)
}

// walkNode processes one node. lastIf carries the outcome of an immediately
// preceding sibling if node: nil when there was none (or another node kind
// broke the chain), otherwise the condition's value.
func (w *Walker) walkNode(node *types.SchemaNode, parentPath string, vars map[string]string, lastIf *bool) error {
	switch node.Kind {
	case types.NodeFolder:
		return w.walkFolder(node, parentPath, vars)
	case types.NodeFile:
		name := substitute.Substitute(node.Name, vars)
		return w.visitor.File(node, name, filepath.Join(parentPath, name), vars)
	case types.NodeIf:
		if !w.conditionHolds(node, vars) {
			return nil
		}
		w.visitor.EnterIf(node)
		err := w.walkChildren(node.Children, parentPath, vars)
		w.visitor.LeaveIf(node)
		return err
	case types.NodeElse:
		if lastIf == nil {
			w.visitor.Issue(types.LogWarning,
				"Skipped orphaned else block (no preceding if)",
				"Else blocks must immediately follow an if block")
			return nil
		}
		if *lastIf {
			return nil
		}
		return w.walkChildren(node.Children, parentPath, vars)
	case types.NodeRepeat:
		return w.walkRepeat(node, parentPath, vars)
	}
	return nil
}

func (w *Walker) walkFolder(node *types.SchemaNode, parentPath string, vars map[string]string) error {
	name := substitute.Substitute(node.Name, vars)
	path := filepath.Join(parentPath, name)

	descend, err := w.visitor.EnterFolder(node, name, path)
	if err != nil {
		return err
	}
	if descend {
		if err := w.walkChildren(node.Children, path, vars); err != nil {
			return err
		}
	}
	w.visitor.LeaveFolder(node, name, path)
	return nil
}

func (w *Walker) walkRepeat(node *types.SchemaNode, parentPath string, vars map[string]string) error {
	countStr := node.RepeatCount
	if countStr == "" {
		countStr = "1"
	}
	asVar := node.RepeatAs
	if asVar == "" {
		asVar = "i"
	}

	if !repeatVarPattern.MatchString(asVar) {
		w.visitor.Issue(types.LogError,
			fmt.Sprintf("Invalid repeat variable name: '%s'", asVar),
			"Variable name must be non-empty, start with a letter or underscore, and contain only alphanumeric characters or underscores")
		return nil
	}
	if strings.HasSuffix(asVar, "_1") {
		w.visitor.Issue(types.LogWarning,
			fmt.Sprintf("Variable name '%s' ends with '_1' which may be confusing", asVar),
			fmt.Sprintf("The 1-indexed variable will be '%%%s_1%%'. Consider using a different name.", asVar))
	}

	resolved := substitute.Substitute(countStr, vars)
	count, err := strconv.ParseInt(strings.TrimSpace(resolved), 10, 64)
	switch {
	case err != nil:
		w.visitor.Issue(types.LogError,
			fmt.Sprintf("Invalid repeat count: '%s'", resolved),
			fmt.Sprintf("Count must be a non-negative integer (resolved from '%s')", countStr))
		return nil
	case count < 0:
		w.visitor.Issue(types.LogError,
			fmt.Sprintf("Repeat count cannot be negative: '%s'", resolved),
			fmt.Sprintf("Count must be a non-negative integer (resolved from '%s')", countStr))
		return nil
	case count > int64(w.maxRepeat):
		w.visitor.Issue(types.LogError,
			fmt.Sprintf("Repeat count '%d' exceeds maximum of %d", count, w.maxRepeat),
			"Consider reducing the count or splitting into multiple repeat blocks")
		return nil
	case count == 0:
		details := fmt.Sprintf("Count '%s' resolved to 0", countStr)
		if countStr == "0" {
			details = "Count is explicitly set to 0"
		}
		w.visitor.Issue(types.LogInfo, "Skipping repeat block (count is 0)", details)
		return nil
	}

	w.visitor.EnterRepeat(node, int(count), asVar)

	// One scope for the whole loop; the iteration variables are rewritten
	// in place each pass.
	scoped := make(map[string]string, len(vars)+2)
	for k, v := range vars {
		scoped[k] = v
	}
	zeroKey := "%" + asVar + "%"
	oneKey := "%" + asVar + "_1%"
	for i := 0; i < int(count); i++ {
		scoped[zeroKey] = strconv.Itoa(i)
		scoped[oneKey] = strconv.Itoa(i + 1)
		if err := w.walkChildren(node.Children, parentPath, scoped); err != nil {
			return err
		}
	}

	w.visitor.LeaveRepeat(node)
	return nil
}

// walkChildren iterates siblings in order, maintaining the last-if register:
// an else only pairs with an if that is its immediate predecessor, and any
// other node kind in between breaks the chain.
func (w *Walker) walkChildren(children []*types.SchemaNode, parentPath string, vars map[string]string) error {
	var lastIf *bool
	for _, child := range children {
		if err := w.walkNode(child, parentPath, vars, lastIf); err != nil {
			return err
		}
		if child.Kind == types.NodeIf {
			held := w.conditionHolds(child, vars)
			lastIf = &held
		} else {
			lastIf = nil
		}
	}
	return nil
}

// conditionHolds evaluates an if node's condition. A node without a
// condition variable, or one whose variable is missing or falsy, does not
// hold.
func (w *Walker) conditionHolds(node *types.SchemaNode, vars map[string]string) bool {
	if node.ConditionVar == "" {
		return false
	}
	return directives.IsTruthy(vars, node.ConditionVar)
}

