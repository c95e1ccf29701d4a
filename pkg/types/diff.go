package types

// DiffAction is the action preview predicts for a filesystem entry.
type DiffAction string

const (
	// DiffCreate: item does not exist and would be created.
	DiffCreate DiffAction = "create"
	// DiffOverwrite: item exists and would be rewritten (overwrite=true).
	DiffOverwrite DiffAction = "overwrite"
	// DiffSkip: item exists and would be left alone (overwrite=false).
	DiffSkip DiffAction = "skip"
	// DiffUnchanged: folder already exists; children may still change.
	DiffUnchanged DiffAction = "unchanged"
)

// DiffLineType tags one line inside a hunk.
type DiffLineType string

const (
	DiffLineAdd     DiffLineType = "add"
	DiffLineRemove  DiffLineType = "remove"
	DiffLineContext DiffLineType = "context"
	// DiffLineTruncated marks a synthetic marker line, not file content.
	DiffLineTruncated DiffLineType = "truncated"
)

// DiffLine is a single line in a diff hunk.
type DiffLine struct {
	LineType DiffLineType `json:"line_type"`
	Content  string       `json:"content"`
}

// DiffHunk is a contiguous block of changes with context. Line numbers are
// 1-indexed as in unified diff headers.
type DiffHunk struct {
	OldStart int        `json:"old_start"`
	OldCount int        `json:"old_count"`
	NewStart int        `json:"new_start"`
	NewCount int        `json:"new_count"`
	Lines    []DiffLine `json:"lines"`
}

// DiffNode is a file or folder in the preview tree.
type DiffNode struct {
	ID       string     `json:"id"`
	NodeType ItemType   `json:"node_type"`
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Action   DiffAction `json:"action"`

	// File fields; hunks only for overwritten text files.
	DiffHunks []DiffHunk `json:"diff_hunks,omitempty"`
	URL       string     `json:"url,omitempty"`
	IsBinary  bool       `json:"is_binary,omitempty"`

	Children []*DiffNode `json:"children,omitempty"`
}

// DiffSummary aggregates the preview.
type DiffSummary struct {
	TotalItems       int      `json:"total_items"`
	Creates          int      `json:"creates"`
	Overwrites       int      `json:"overwrites"`
	Skips            int      `json:"skips"`
	UnchangedFolders int      `json:"unchanged_folders"`
	Warnings         []string `json:"warnings,omitempty"`
}

// DiffResult is the complete preview outcome.
type DiffResult struct {
	Root    *DiffNode   `json:"root"`
	Summary DiffSummary `json:"summary"`
}
