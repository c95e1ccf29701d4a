package style

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/sprout/pkg/types"
)

// LogStyle returns the style used for a log entry class.
func LogStyle(t types.LogType) lipgloss.Style {
	switch t {
	case types.LogSuccess:
		return SuccessStyle
	case types.LogError:
		return ErrorStyle
	case types.LogWarning:
		return WarningStyle
	default:
		return InfoStyle
	}
}

// LogIndicator returns the status glyph for a log entry class.
func LogIndicator(t types.LogType) string {
	switch t {
	case types.LogSuccess:
		return SuccessIndicator
	case types.LogError:
		return ErrorIndicator
	case types.LogWarning:
		return WarningIndicator
	default:
		return InfoIndicator
	}
}

// RenderLogEntry renders a single run log line
func RenderLogEntry(e types.LogEntry) string {
	line := fmt.Sprintf("%s %s", LogIndicator(e.LogType), e.Message)
	if e.Details != "" {
		line += " " + MutedStyle.Render("("+e.Details+")")
	}
	return line
}

// RenderHookResult renders one post-create hook outcome line
func RenderHookResult(h types.HookResult) string {
	indicator := SuccessIndicator
	if !h.Success {
		indicator = ErrorIndicator
	}
	line := fmt.Sprintf("%s %s", indicator, CodeStyle.Render(h.Command))
	if !h.Success && h.ExitCode != nil {
		line += " " + MutedStyle.Render(fmt.Sprintf("exit %d", *h.ExitCode))
	}
	return line
}

// RenderSummary renders the counters of a materialization run on one line
func RenderSummary(s types.ResultSummary) string {
	head := fmt.Sprintf("%d folders, %d files created", s.FoldersCreated, s.FilesCreated)

	var extras []string
	if s.FilesDownloaded > 0 {
		extras = append(extras, fmt.Sprintf("%d downloaded", s.FilesDownloaded))
	}
	if s.FilesGenerated > 0 {
		extras = append(extras, fmt.Sprintf("%d generated", s.FilesGenerated))
	}
	if len(extras) > 0 {
		head += " (" + strings.Join(extras, ", ") + ")"
	}

	line := SubtitleStyle.Render(head)
	if s.Skipped > 0 {
		line += ", " + WarningStyle.Render(fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Errors > 0 {
		line += ", " + ErrorStyle.Render(fmt.Sprintf("%d errors", s.Errors))
	}
	return line
}

// RenderUndoSummary renders the counters of an undo pass on one line
func RenderUndoSummary(s types.UndoSummary) string {
	head := fmt.Sprintf("%d files, %d folders removed", s.FilesDeleted, s.FoldersDeleted)

	line := SubtitleStyle.Render(head)
	if s.ItemsSkipped > 0 {
		line += ", " + WarningStyle.Render(fmt.Sprintf("%d skipped", s.ItemsSkipped))
	}
	if s.Errors > 0 {
		line += ", " + ErrorStyle.Render(fmt.Sprintf("%d errors", s.Errors))
	}
	return line
}

// ActionStyle returns the style for a predicted diff action
func ActionStyle(a types.DiffAction) lipgloss.Style {
	switch a {
	case types.DiffCreate:
		return SuccessStyle
	case types.DiffOverwrite:
		return WarningStyle
	case types.DiffSkip:
		return MutedStyle
	default:
		return NormalStyle
	}
}

// ActionLabel returns a fixed-width label for a predicted diff action,
// so tree listings line up in columns.
func ActionLabel(a types.DiffAction) string {
	return ActionStyle(a).Render(fmt.Sprintf("%-9s", string(a)))
}

// RenderDiffLine renders one line of a diff hunk with its +/- gutter
func RenderDiffLine(l types.DiffLine) string {
	switch l.LineType {
	case types.DiffLineAdd:
		return DiffAddStyle.Render("+ " + l.Content)
	case types.DiffLineRemove:
		return DiffRemoveStyle.Render("- " + l.Content)
	case types.DiffLineTruncated:
		return MutedStyle.Render("  " + l.Content)
	default:
		return DiffContextStyle.Render("  " + l.Content)
	}
}

// RenderHunkHeader renders a unified diff range header
func RenderHunkHeader(h types.DiffHunk) string {
	return DiffHeaderStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
		h.OldStart, h.OldCount, h.NewStart, h.NewCount))
}

// NodeStyle returns the style for a preview tree node. Downloaded files
// get their own color so remote content stands out.
func NodeStyle(n *types.DiffNode) lipgloss.Style {
	if n.NodeType == types.ItemFolder {
		return FolderStyle
	}
	if n.URL != "" {
		return DownloadStyle
	}
	return FileStyle
}
