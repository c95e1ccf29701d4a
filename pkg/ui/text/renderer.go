// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/arthur-debert/sprout/pkg/validate"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.CreateResult:
		return r.renderCreate(v)
	case *types.UndoResult:
		return r.renderUndo(v)
	case *types.DiffResult:
		return r.renderDiff(v)
	case *validate.Result:
		return r.renderValidation(v)
	case *types.SchemaTree:
		return r.renderSchemaTree(v)
	case []*types.Template:
		return r.renderTemplateList(v)
	case *types.Template:
		return r.renderTemplate(v)
	case *types.ImportResult:
		return r.renderImport(v)
	case *types.VariableReport:
		return r.renderVariables(v)
	default:
		// For unknown types, just print them
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %v\n", err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// logMarker maps a log class to its fixed-width plain text tag
func logMarker(t types.LogType) string {
	switch t {
	case types.LogSuccess:
		return "ok"
	case types.LogError:
		return "err"
	case types.LogWarning:
		return "warn"
	default:
		return "info"
	}
}

func (r *Renderer) writeLog(e types.LogEntry) error {
	line := fmt.Sprintf("%-5s %s", logMarker(e.LogType), e.Message)
	if e.Details != "" {
		line += fmt.Sprintf(" (%s)", e.Details)
	}
	_, err := fmt.Fprintln(r.output, line)
	return err
}

func (r *Renderer) renderCreate(res *types.CreateResult) error {
	for _, entry := range res.Logs {
		if err := r.writeLog(entry); err != nil {
			return err
		}
	}

	if len(res.HookResults) > 0 {
		if _, err := fmt.Fprintln(r.output, "\nHooks:"); err != nil {
			return err
		}
		for _, h := range res.HookResults {
			marker := "ok"
			suffix := ""
			if !h.Success {
				marker = "err"
				if h.ExitCode != nil {
					suffix = fmt.Sprintf(" (exit %d)", *h.ExitCode)
				}
			}
			if _, err := fmt.Fprintf(r.output, "%-5s %s%s\n", marker, h.Command, suffix); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(r.output, "\n%s\n", summaryLine(res.Summary))
	return err
}

func summaryLine(s types.ResultSummary) string {
	line := fmt.Sprintf("Summary: %d folders, %d files created", s.FoldersCreated, s.FilesCreated)

	var extras []string
	if s.FilesDownloaded > 0 {
		extras = append(extras, fmt.Sprintf("%d downloaded", s.FilesDownloaded))
	}
	if s.FilesGenerated > 0 {
		extras = append(extras, fmt.Sprintf("%d generated", s.FilesGenerated))
	}
	if len(extras) > 0 {
		line += " (" + strings.Join(extras, ", ") + ")"
	}

	if s.Skipped > 0 {
		line += fmt.Sprintf(", %d skipped", s.Skipped)
	}
	if s.Errors > 0 {
		line += fmt.Sprintf(", %d errors", s.Errors)
	}
	return line
}

func (r *Renderer) renderUndo(res *types.UndoResult) error {
	for _, entry := range res.Logs {
		if err := r.writeLog(entry); err != nil {
			return err
		}
	}

	s := res.Summary
	line := fmt.Sprintf("Summary: %d files, %d folders removed", s.FilesDeleted, s.FoldersDeleted)
	if s.ItemsSkipped > 0 {
		line += fmt.Sprintf(", %d skipped", s.ItemsSkipped)
	}
	if s.Errors > 0 {
		line += fmt.Sprintf(", %d errors", s.Errors)
	}
	_, err := fmt.Fprintf(r.output, "\n%s\n", line)
	return err
}

func (r *Renderer) renderDiff(res *types.DiffResult) error {
	if res.Root != nil {
		if err := r.writeDiffNode(res.Root, 0); err != nil {
			return err
		}
	}

	for _, w := range res.Summary.Warnings {
		if _, err := fmt.Fprintf(r.output, "%-5s %s\n", "warn", w); err != nil {
			return err
		}
	}

	s := res.Summary
	line := fmt.Sprintf("Summary: %d items: %d create, %d overwrite, %d skip",
		s.TotalItems, s.Creates, s.Overwrites, s.Skips)
	if s.UnchangedFolders > 0 {
		line += fmt.Sprintf(", %d unchanged", s.UnchangedFolders)
	}
	_, err := fmt.Fprintf(r.output, "\n%s\n", line)
	return err
}

func (r *Renderer) writeDiffNode(n *types.DiffNode, depth int) error {
	indent := strings.Repeat("  ", depth)
	name := n.Name
	if n.NodeType == types.ItemFolder {
		name += "/"
	}

	line := fmt.Sprintf("%-9s %s%s", string(n.Action), indent, name)
	if n.URL != "" {
		line += fmt.Sprintf("  <- %s", n.URL)
	}
	if n.IsBinary {
		line += "  (binary)"
	}
	if _, err := fmt.Fprintln(r.output, line); err != nil {
		return err
	}

	hunkIndent := indent + "  "
	for _, h := range n.DiffHunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
		if _, err := fmt.Fprintf(r.output, "%-9s %s%s\n", "", hunkIndent, header); err != nil {
			return err
		}
		for _, l := range h.Lines {
			gutter := " "
			switch l.LineType {
			case types.DiffLineAdd:
				gutter = "+"
			case types.DiffLineRemove:
				gutter = "-"
			}
			if _, err := fmt.Fprintf(r.output, "%-9s %s%s %s\n", "", hunkIndent, gutter, l.Content); err != nil {
				return err
			}
		}
	}

	for _, child := range n.Children {
		if err := r.writeDiffNode(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderValidation(res *validate.Result) error {
	if res.Valid && len(res.Warnings) == 0 {
		_, err := fmt.Fprintln(r.output, "Schema is valid")
		return err
	}

	for _, issue := range res.Errors {
		if err := r.writeIssue("error", issue); err != nil {
			return err
		}
	}
	for _, issue := range res.Warnings {
		if err := r.writeIssue("warning", issue); err != nil {
			return err
		}
	}

	if res.Valid {
		_, err := fmt.Fprintf(r.output, "\nSchema is valid (%d warnings)\n", len(res.Warnings))
		return err
	}
	_, err := fmt.Fprintf(r.output, "\nSchema is invalid: %d errors, %d warnings\n",
		len(res.Errors), len(res.Warnings))
	return err
}

func (r *Renderer) writeIssue(severity string, issue validate.Issue) error {
	line := fmt.Sprintf("%s: %s", severity, issue.Message)
	if issue.NodePath != "" {
		line += fmt.Sprintf(" (at %s)", issue.NodePath)
	}
	_, err := fmt.Fprintln(r.output, line)
	return err
}

func (r *Renderer) renderSchemaTree(tree *types.SchemaTree) error {
	if tree.Root != nil {
		if err := r.writeSchemaNode(tree.Root, 0); err != nil {
			return err
		}
	}

	for _, hook := range tree.Hooks {
		if _, err := fmt.Fprintf(r.output, "hook: %s\n", hook); err != nil {
			return err
		}
	}

	s := tree.Stats
	_, err := fmt.Fprintf(r.output, "\n%d folders, %d files, %d downloads\n",
		s.Folders, s.Files, s.Downloads)
	return err
}

func (r *Renderer) writeSchemaNode(n *types.SchemaNode, depth int) error {
	indent := strings.Repeat("  ", depth)

	var line string
	switch n.Kind {
	case types.NodeFolder:
		line = indent + n.Name + "/"
	case types.NodeFile:
		line = indent + n.Name
		if n.URL != "" {
			line += fmt.Sprintf("  <- %s", n.URL)
		}
		if n.Generate != "" {
			line += fmt.Sprintf("  [generate: %s]", n.Generate)
		}
	case types.NodeIf:
		line = fmt.Sprintf("%sif %%%s%%", indent, n.ConditionVar)
	case types.NodeElse:
		line = indent + "else"
	case types.NodeRepeat:
		line = fmt.Sprintf("%srepeat %s as %%%s%%", indent, n.RepeatCount, n.RepeatAs)
	}
	if _, err := fmt.Fprintln(r.output, line); err != nil {
		return err
	}

	for _, child := range n.Children {
		if err := r.writeSchemaNode(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTemplateList(templates []*types.Template) error {
	if len(templates) == 0 {
		_, err := fmt.Fprintln(r.output, "No templates saved")
		return err
	}

	for _, t := range templates {
		marker := " "
		if t.IsFavorite {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s", marker, t.Name)
		if t.Description != "" {
			line += " - " + t.Description
		}
		if len(t.Tags) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(t.Tags, ", "))
		}
		if t.UseCount > 0 {
			line += fmt.Sprintf(" (%d uses)", t.UseCount)
		}
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTemplate(t *types.Template) error {
	header := t.Name
	if t.IsFavorite {
		header += " *"
	}
	if _, err := fmt.Fprintln(r.output, header); err != nil {
		return err
	}

	if t.Description != "" {
		if _, err := fmt.Fprintf(r.output, "  %s\n", t.Description); err != nil {
			return err
		}
	}
	if len(t.Tags) > 0 {
		if _, err := fmt.Fprintf(r.output, "  tags: %s\n", strings.Join(t.Tags, ", ")); err != nil {
			return err
		}
	}
	if len(t.Variables) > 0 {
		if _, err := fmt.Fprintln(r.output, "  variables:"); err != nil {
			return err
		}
		names := make([]string, 0, len(t.Variables))
		for name := range t.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(r.output, "    %s = %s\n", name, t.Variables[name]); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(r.output, "  used %d times, updated %s\n", t.UseCount, t.UpdatedAt); err != nil {
		return err
	}

	_, err := fmt.Fprintf(r.output, "\n%s\n", t.SchemaXML)
	return err
}

func (r *Renderer) renderVariables(rep *types.VariableReport) error {
	if len(rep.Variables) == 0 && len(rep.Provided) == 0 {
		_, err := fmt.Fprintln(r.output, "No variables referenced")
		return err
	}

	for _, name := range rep.Variables {
		if _, err := fmt.Fprintf(r.output, "%%%s%%\n", name); err != nil {
			return err
		}
	}
	for _, name := range rep.Provided {
		if _, err := fmt.Fprintf(r.output, "%%%s%%  (provided)\n", name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderImport(res *types.ImportResult) error {
	for _, name := range res.Imported {
		if _, err := fmt.Fprintf(r.output, "%-5s imported %s\n", "ok", name); err != nil {
			return err
		}
	}
	for _, name := range res.Skipped {
		if _, err := fmt.Fprintf(r.output, "%-5s skipped %s\n", "warn", name); err != nil {
			return err
		}
	}
	for _, msg := range res.Errors {
		if _, err := fmt.Fprintf(r.output, "%-5s %s\n", "err", msg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(r.output, "\nImported %d, skipped %d, %d errors\n",
		len(res.Imported), len(res.Skipped), len(res.Errors))
	return err
}
