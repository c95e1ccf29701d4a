// Package preview predicts what materializing a schema tree would change
// on disk without touching it. The tree is walked by the same interp.Walker
// the interpreter uses, so conditionals and repeats expand identically; the
// result is a DiffNode tree that annotates every folder and file with the
// action a real run would take, including line hunks for files that would
// be overwritten.
package preview

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/directives"
	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/interp"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/types"
)

const (
	// binarySampleSize is how many leading bytes are inspected when
	// deciding whether an existing file is binary.
	binarySampleSize = 8192

	// Condition values in a grouping label are shortened past this length.
	maxConditionDisplay       = 20
	truncatedConditionDisplay = 17
)

// Options select how the preview is computed. They mirror the interpreter
// options that change outcomes; there is no dry-run flag because a preview
// never writes to begin with.
type Options struct {
	// Overwrite marks existing files as overwrite targets instead of
	// skips, which is what enables hunk computation.
	Overwrite bool

	// ProjectName, when non-empty, is injected as %PROJECT_NAME%.
	ProjectName string
}

// Previewer computes diff previews for schema trees.
type Previewer struct {
	cfg        *config.Config
	fs         types.FS
	directives *directives.Processor
	logger     zerolog.Logger
}

// New builds a Previewer that reads existing state from fsys.
func New(cfg *config.Config, fsys types.FS) *Previewer {
	return &Previewer{
		cfg:        cfg,
		fs:         fsys,
		directives: directives.NewWithMaxDepth(cfg.Directives.MaxDepth),
		logger:     logging.GetLogger("preview"),
	}
}

// Preview reports the changes a Materialize call with the same arguments
// would make. The returned tree mirrors the schema layout: a repeat block
// groups its expanded iterations under one synthetic folder node, and an
// if block at the tree root keeps a grouping node naming its condition.
// Inline conditionals contribute their children directly to the
// surrounding container. Control-flow problems such as an orphaned else
// or an invalid repeat count surface as summary warnings.
func (p *Previewer) Preview(tree *types.SchemaTree, outputRoot string, vars map[string]string, opts Options) (*types.DiffResult, error) {
	if tree == nil || tree.Root == nil {
		return nil, errors.New(errors.ErrSchemaInvalid, "schema tree has no root node")
	}

	env := substitute.BuildEnv(vars, opts.ProjectName)
	c := &collector{
		fs:         p.fs,
		directives: p.directives,
		overwrite:  opts.Overwrite,
		maxChars:   p.cfg.Diff.MaxContentChars,
		maxLines:   p.cfg.Diff.MaxLines,
		env:        env,
		outputRoot: outputRoot,
	}

	p.logger.Debug().Str("output", outputRoot).Bool("overwrite", opts.Overwrite).Msg("generating diff preview")

	if err := interp.NewWalker(p.cfg.Repeat.MaxCount, c).Walk(tree.Root, outputRoot, env); err != nil {
		return nil, err
	}
	if c.root == nil {
		return nil, errors.New(errors.ErrSchemaInvalid, "Failed to generate diff for root node")
	}

	c.summary.TotalItems = c.summary.Creates + c.summary.Overwrites + c.summary.Skips + c.summary.UnchangedFolders

	p.logger.Debug().
		Int("total", c.summary.TotalItems).
		Int("creates", c.summary.Creates).
		Int("overwrites", c.summary.Overwrites).
		Int("warnings", len(c.summary.Warnings)).
		Msg("diff preview complete")

	return &types.DiffResult{Root: c.root, Summary: c.summary}, nil
}

// collector builds the DiffNode tree as walk events arrive. Open containers
// sit on a stack until their Leave event attaches them to their parent; the
// first node attached with the stack empty becomes the tree root.
type collector struct {
	fs         types.FS
	directives *directives.Processor
	overwrite  bool
	maxChars   int
	maxLines   int

	// env is the walk's base scope, used to render the condition value in
	// a root-level if grouping label.
	env map[string]string

	outputRoot string
	root       *types.DiffNode
	stack      []*types.DiffNode

	// ifPushed records, per open if, whether EnterIf created a grouping
	// node that the matching LeaveIf must close.
	ifPushed []bool

	summary types.DiffSummary
}

func (c *collector) push(n *types.DiffNode) {
	c.stack = append(c.stack, n)
}

func (c *collector) pop() *types.DiffNode {
	n := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return n
}

// attach adds n to the innermost open container, or promotes it to the
// tree root when none is open.
func (c *collector) attach(n *types.DiffNode) {
	if len(c.stack) > 0 {
		parent := c.stack[len(c.stack)-1]
		parent.Children = append(parent.Children, n)
		return
	}
	if c.root == nil {
		c.root = n
	}
}

// currentPath is the directory the walk is positioned in. Grouping nodes
// carry their parent's path, so the stack top always knows it.
func (c *collector) currentPath() string {
	if len(c.stack) == 0 {
		return c.outputRoot
	}
	return c.stack[len(c.stack)-1].Path
}

func (c *collector) warn(message string) {
	c.summary.Warnings = append(c.summary.Warnings, message)
}

func (c *collector) EnterFolder(_ *types.SchemaNode, name, path string) (bool, error) {
	n := &types.DiffNode{
		ID:       uuid.NewString(),
		NodeType: types.ItemFolder,
		Name:     name,
		Path:     path,
	}
	if _, err := c.fs.Stat(path); err == nil {
		n.Action = types.DiffUnchanged
		c.summary.UnchangedFolders++
	} else {
		n.Action = types.DiffCreate
		c.summary.Creates++
	}
	c.push(n)
	return true, nil
}

func (c *collector) LeaveFolder(*types.SchemaNode, string, string) {
	c.attach(c.pop())
}

func (c *collector) File(node *types.SchemaNode, name, path string, vars map[string]string) error {
	leaf := &types.DiffNode{
		ID:       uuid.NewString(),
		NodeType: types.ItemFile,
		Name:     name,
		Path:     path,
		URL:      node.URL,
	}

	_, err := c.fs.Stat(path)
	exists := err == nil

	switch {
	case !exists:
		leaf.Action = types.DiffCreate
		c.summary.Creates++
	case c.overwrite:
		leaf.Action = types.DiffOverwrite
		c.summary.Overwrites++
	default:
		leaf.Action = types.DiffSkip
		c.summary.Skips++
	}

	if leaf.Action == types.DiffOverwrite {
		c.diffExisting(leaf, node, name, path, vars)
	}

	c.attach(leaf)
	return nil
}

// diffExisting fills hunks for a file that would be replaced. Downloads
// and generated files have no renderable new content, so they get none;
// binary files are flagged instead of diffed.
func (c *collector) diffExisting(leaf *types.DiffNode, node *types.SchemaNode, name, path string, vars map[string]string) {
	if node.URL != "" || node.Content == "" {
		return
	}

	oldBytes, err := c.fs.ReadFile(path)
	if err != nil {
		return
	}
	if looksBinary(oldBytes) {
		leaf.IsBinary = true
		return
	}

	content := node.Content
	if node.Template {
		processed, perr := c.directives.Process(content, vars)
		if perr != nil {
			c.warn(fmt.Sprintf("Template error in %s", name))
		} else {
			content = processed
		}
	}

	newText := truncateChars(substitute.Substitute(content, vars), c.maxChars)
	oldText := truncateChars(string(oldBytes), c.maxChars)
	leaf.DiffHunks = computeHunks(oldText, newText, c.maxLines)
}

// EnterIf dissolves inline conditionals into the surrounding container.
// Only an if at the tree root keeps a grouping node, since the result
// needs a root to hang the taken branch off.
func (c *collector) EnterIf(node *types.SchemaNode) {
	if len(c.stack) > 0 {
		c.ifPushed = append(c.ifPushed, false)
		return
	}
	value := c.env["%"+node.ConditionVar+"%"]
	n := &types.DiffNode{
		ID:       uuid.NewString(),
		NodeType: types.ItemFolder,
		Name:     fmt.Sprintf("if %s (%s)", node.ConditionVar, conditionDisplay(value)),
		Path:     c.currentPath(),
		Action:   types.DiffUnchanged,
	}
	c.push(n)
	c.ifPushed = append(c.ifPushed, true)
}

func (c *collector) LeaveIf(*types.SchemaNode) {
	pushed := c.ifPushed[len(c.ifPushed)-1]
	c.ifPushed = c.ifPushed[:len(c.ifPushed)-1]
	if !pushed {
		return
	}
	n := c.pop()
	if len(n.Children) > 0 {
		c.attach(n)
	}
}

func (c *collector) EnterRepeat(_ *types.SchemaNode, count int, asVar string) {
	n := &types.DiffNode{
		ID:       uuid.NewString(),
		NodeType: types.ItemFolder,
		Name:     fmt.Sprintf("repeat %d as %s", count, asVar),
		Path:     c.currentPath(),
		Action:   types.DiffUnchanged,
	}
	c.push(n)
}

// LeaveRepeat closes the grouping node; one that expanded to nothing is
// dropped rather than shown empty.
func (c *collector) LeaveRepeat(*types.SchemaNode) {
	n := c.pop()
	if len(n.Children) > 0 {
		c.attach(n)
	}
}

// Issue surfaces control-flow diagnostics as summary warnings. Info-level
// notices, such as a repeat that counts to zero, are not worth one.
func (c *collector) Issue(level types.LogType, message, _ string) {
	if level == types.LogInfo {
		return
	}
	c.warn(message)
}

// conditionDisplay shortens a condition value for a grouping label.
func conditionDisplay(value string) string {
	runes := []rune(value)
	if len(runes) <= maxConditionDisplay {
		return value
	}
	return string(runes[:truncatedConditionDisplay]) + "..."
}

// looksBinary samples the head of data for null bytes or a high share of
// control characters.
func looksBinary(data []byte) bool {
	sample := data
	if len(sample) > binarySampleSize {
		sample = sample[:binarySampleSize]
	}
	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}
	nonPrintable := 0
	for _, b := range sample {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			nonPrintable++
		}
	}
	return nonPrintable > len(sample)/10
}

// truncateChars caps s at max runes, appending a marker when it was cut.
func truncateChars(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "... (truncated)"
}

// splitLines splits on newlines without keeping terminators. A trailing
// newline does not produce a phantom empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineChange is one diff line with its zero-based source indexes; -1 marks
// a side the line does not exist on.
type lineChange struct {
	lineType types.DiffLineType
	oldIndex int
	newIndex int
	content  string
}

// expandGroup flattens one opcode group into per-line changes, deletions
// before insertions within a replace, the way unified diffs print them.
func expandGroup(group []difflib.OpCode, oldLines, newLines []string) []lineChange {
	var out []lineChange
	for _, op := range group {
		if op.Tag == 'e' {
			for k := 0; op.I1+k < op.I2; k++ {
				out = append(out, lineChange{types.DiffLineContext, op.I1 + k, op.J1 + k, oldLines[op.I1+k]})
			}
			continue
		}
		if op.Tag == 'd' || op.Tag == 'r' {
			for i := op.I1; i < op.I2; i++ {
				out = append(out, lineChange{types.DiffLineRemove, i, -1, oldLines[i]})
			}
		}
		if op.Tag == 'i' || op.Tag == 'r' {
			for j := op.J1; j < op.J2; j++ {
				out = append(out, lineChange{types.DiffLineAdd, -1, j, newLines[j]})
			}
		}
	}
	return out
}

// computeHunks runs a line diff and renders it as unified-style hunks with
// three lines of context. Start and count fields are 1-indexed as in hunk
// headers. Output stops at maxLines content lines; hitting the cap closes
// the current hunk with a marker line and drops everything after it.
func computeHunks(oldText, newText string, maxLines int) []types.DiffHunk {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)
	matcher := difflib.NewMatcher(oldLines, newLines)

	var hunks []types.DiffHunk
	total := 0
	for _, group := range matcher.GetGroupedOpCodes(3) {
		hunk := types.DiffHunk{OldStart: 1, NewStart: 1}
		first := true
		truncated := false

		for _, ch := range expandGroup(group, oldLines, newLines) {
			if total >= maxLines {
				hunk.Lines = append(hunk.Lines, types.DiffLine{
					LineType: types.DiffLineTruncated,
					Content:  "... (diff truncated)",
				})
				truncated = true
				break
			}
			if first {
				if ch.oldIndex >= 0 {
					hunk.OldStart = ch.oldIndex + 1
				}
				if ch.newIndex >= 0 {
					hunk.NewStart = ch.newIndex + 1
				}
				first = false
			}
			switch ch.lineType {
			case types.DiffLineRemove:
				hunk.OldCount++
			case types.DiffLineAdd:
				hunk.NewCount++
			default:
				hunk.OldCount++
				hunk.NewCount++
			}
			hunk.Lines = append(hunk.Lines, types.DiffLine{LineType: ch.lineType, Content: ch.content})
			total++
		}

		if len(hunk.Lines) > 0 {
			hunks = append(hunks, hunk)
		}
		if truncated {
			break
		}
	}
	return hunks
}
