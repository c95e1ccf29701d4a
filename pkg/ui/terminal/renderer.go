// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/style"
	"github.com/arthur-debert/sprout/pkg/types"
	"github.com/arthur-debert/sprout/pkg/validate"
)

// Renderer provides rich terminal output built on the shared style palette
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any result type with rich terminal formatting
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

// RenderError renders an error with its code muted after the message
func (r *Renderer) RenderError(err error) error {
	line := style.ErrorStyle.Render("Error:") + " " + errors.UserMessage(err)
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		line += " " + style.MutedStyle.Render("["+string(code)+"]")
	}
	_, werr := fmt.Fprintln(r.output, line)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

func (r *Renderer) renderCreate(res *types.CreateResult) error {
	for _, entry := range res.Logs {
		if _, err := fmt.Fprintln(r.output, style.RenderLogEntry(entry)); err != nil {
			return err
		}
	}

	if len(res.HookResults) > 0 {
		if _, err := fmt.Fprintln(r.output, "\n"+style.SubtitleStyle.Render("Hooks")); err != nil {
			return err
		}
		for _, h := range res.HookResults {
			if _, err := fmt.Fprintln(r.output, style.RenderHookResult(h)); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(r.output, "\n"+style.RenderSummary(res.Summary))
	return err
}

func (r *Renderer) renderUndo(res *types.UndoResult) error {
	for _, entry := range res.Logs {
		if _, err := fmt.Fprintln(r.output, style.RenderLogEntry(entry)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(r.output, "\n"+style.RenderUndoSummary(res.Summary))
	return err
}

func (r *Renderer) renderDiff(res *types.DiffResult) error {
	if res.Root != nil {
		if err := r.writeDiffNode(res.Root, 0); err != nil {
			return err
		}
	}

	for _, w := range res.Summary.Warnings {
		line := fmt.Sprintf("%s %s", style.WarningIndicator, w)
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}

	s := res.Summary
	summary := style.SubtitleStyle.Render(fmt.Sprintf("%d items:", s.TotalItems)) + " " +
		style.SuccessStyle.Render(fmt.Sprintf("%d create", s.Creates)) + ", " +
		style.WarningStyle.Render(fmt.Sprintf("%d overwrite", s.Overwrites)) + ", " +
		style.MutedStyle.Render(fmt.Sprintf("%d skip", s.Skips))
	if s.UnchangedFolders > 0 {
		summary += ", " + style.MutedStyle.Render(fmt.Sprintf("%d unchanged", s.UnchangedFolders))
	}
	_, err := fmt.Fprintln(r.output, "\n"+summary)
	return err
}

func (r *Renderer) writeDiffNode(n *types.DiffNode, depth int) error {
	indent := strings.Repeat("  ", depth)
	name := n.Name
	if n.NodeType == types.ItemFolder {
		name += "/"
	}

	line := fmt.Sprintf("%s %s%s", style.ActionLabel(n.Action), indent, style.NodeStyle(n).Render(name))
	if n.URL != "" {
		line += "  " + style.MutedStyle.Render("<- "+n.URL)
	}
	if n.IsBinary {
		line += "  " + style.MutedStyle.Render("(binary)")
	}
	if _, err := fmt.Fprintln(r.output, line); err != nil {
		return err
	}

	// Hunks sit under the 9-column action gutter
	hunkIndent := strings.Repeat(" ", 10) + indent + "  "
	for _, h := range n.DiffHunks {
		if _, err := fmt.Fprintln(r.output, hunkIndent+style.RenderHunkHeader(h)); err != nil {
			return err
		}
		for _, l := range h.Lines {
			if _, err := fmt.Fprintln(r.output, hunkIndent+style.RenderDiffLine(l)); err != nil {
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
		line := fmt.Sprintf("%s %s", style.SuccessIndicator, "Schema is valid")
		_, err := fmt.Fprintln(r.output, line)
		return err
	}

	for _, issue := range res.Errors {
		if err := r.writeIssue(style.ErrorIndicator, issue); err != nil {
			return err
		}
	}
	for _, issue := range res.Warnings {
		if err := r.writeIssue(style.WarningIndicator, issue); err != nil {
			return err
		}
	}

	var footer string
	if res.Valid {
		footer = style.WarningStyle.Render(fmt.Sprintf("Schema is valid (%d warnings)", len(res.Warnings)))
	} else {
		footer = style.ErrorStyle.Render(fmt.Sprintf("Schema is invalid: %d errors, %d warnings",
			len(res.Errors), len(res.Warnings)))
	}
	_, err := fmt.Fprintln(r.output, "\n"+footer)
	return err
}

func (r *Renderer) writeIssue(indicator string, issue validate.Issue) error {
	line := fmt.Sprintf("%s %s", indicator, issue.Message)
	if issue.NodePath != "" {
		line += " " + style.MutedStyle.Render("(at "+issue.NodePath+")")
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
		line := style.MutedStyle.Render("hook:") + " " + style.CodeStyle.Render(hook)
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}

	s := tree.Stats
	summary := style.SubtitleStyle.Render(fmt.Sprintf("%d folders, %d files, %d downloads",
		s.Folders, s.Files, s.Downloads))
	_, err := fmt.Fprintln(r.output, "\n"+summary)
	return err
}

func (r *Renderer) writeSchemaNode(n *types.SchemaNode, depth int) error {
	indent := strings.Repeat("  ", depth)

	var line string
	switch n.Kind {
	case types.NodeFolder:
		line = indent + style.FolderStyle.Render(n.Name+"/")
	case types.NodeFile:
		switch {
		case n.URL != "":
			line = indent + style.DownloadStyle.Render(n.Name) + "  " + style.MutedStyle.Render("<- "+n.URL)
		case n.Generate != "":
			line = indent + style.GeneratorStyle.Render(n.Name) + "  " + style.MutedStyle.Render("[generate: "+n.Generate+"]")
		default:
			line = indent + style.FileStyle.Render(n.Name)
		}
	case types.NodeIf:
		line = indent + style.InfoStyle.Render(fmt.Sprintf("if %%%s%%", n.ConditionVar))
	case types.NodeElse:
		line = indent + style.InfoStyle.Render("else")
	case types.NodeRepeat:
		line = indent + style.InfoStyle.Render(fmt.Sprintf("repeat %s as %%%s%%", n.RepeatCount, n.RepeatAs))
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
		_, err := fmt.Fprintln(r.output, style.MutedStyle.Render("No templates saved"))
		return err
	}

	for _, t := range templates {
		marker := " "
		if t.IsFavorite {
			marker = style.WarningStyle.Render("*")
		}
		line := fmt.Sprintf("%s %s", marker, style.Bold(t.Name))
		if t.Description != "" {
			line += " " + style.NormalStyle.Render(t.Description)
		}
		if len(t.Tags) > 0 {
			line += " " + style.MutedStyle.Render("["+strings.Join(t.Tags, ", ")+"]")
		}
		if t.UseCount > 0 {
			line += " " + style.MutedStyle.Render(fmt.Sprintf("(%d uses)", t.UseCount))
		}
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderTemplate(t *types.Template) error {
	header := style.TitleStyle.Render(t.Name)
	if t.IsFavorite {
		header += " " + style.WarningStyle.Render("*")
	}
	if _, err := fmt.Fprintln(r.output, header); err != nil {
		return err
	}

	if t.Description != "" {
		if _, err := fmt.Fprintln(r.output, style.Indent(t.Description, 1)); err != nil {
			return err
		}
	}
	if len(t.Tags) > 0 {
		line := style.MutedStyle.Render("tags: " + strings.Join(t.Tags, ", "))
		if _, err := fmt.Fprintln(r.output, style.Indent(line, 1)); err != nil {
			return err
		}
	}
	if len(t.Variables) > 0 {
		if _, err := fmt.Fprintln(r.output, style.Indent("variables:", 1)); err != nil {
			return err
		}
		names := make([]string, 0, len(t.Variables))
		for name := range t.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			line := style.CodeStyle.Render(name) + " = " + t.Variables[name]
			if _, err := fmt.Fprintln(r.output, style.Indent(line, 2)); err != nil {
				return err
			}
		}
	}
	meta := style.MutedStyle.Render(fmt.Sprintf("used %d times, updated %s", t.UseCount, t.UpdatedAt))
	if _, err := fmt.Fprintln(r.output, style.Indent(meta, 1)); err != nil {
		return err
	}

	_, err := fmt.Fprintf(r.output, "\n%s\n", t.SchemaXML)
	return err
}

func (r *Renderer) renderVariables(rep *types.VariableReport) error {
	if len(rep.Variables) == 0 && len(rep.Provided) == 0 {
		_, err := fmt.Fprintln(r.output, style.MutedStyle.Render("No variables referenced"))
		return err
	}

	for _, name := range rep.Variables {
		if _, err := fmt.Fprintln(r.output, style.CodeStyle.Render("%"+name+"%")); err != nil {
			return err
		}
	}
	for _, name := range rep.Provided {
		line := style.CodeStyle.Render("%"+name+"%") + "  " + style.MutedStyle.Render("(provided)")
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderImport(res *types.ImportResult) error {
	for _, name := range res.Imported {
		line := fmt.Sprintf("%s imported %s", style.SuccessIndicator, style.Bold(name))
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	for _, name := range res.Skipped {
		line := fmt.Sprintf("%s skipped %s", style.WarningIndicator, style.Bold(name))
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}
	for _, msg := range res.Errors {
		line := fmt.Sprintf("%s %s", style.ErrorIndicator, msg)
		if _, err := fmt.Fprintln(r.output, line); err != nil {
			return err
		}
	}

	summary := style.SubtitleStyle.Render(fmt.Sprintf("Imported %d, skipped %d, %d errors",
		len(res.Imported), len(res.Skipped), len(res.Errors)))
	_, err := fmt.Fprintln(r.output, "\n"+summary)
	return err
}
