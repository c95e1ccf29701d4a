package types

// LogType classifies one LogEntry.
type LogType string

const (
	LogSuccess LogType = "success"
	LogError   LogType = "error"
	LogWarning LogType = "warning"
	LogInfo    LogType = "info"
)

// LogEntry is one append-only record of a semantically meaningful action.
// Entries are ordered and never edited after the fact.
type LogEntry struct {
	LogType LogType `json:"log_type"`
	Message string  `json:"message"`
	Details string  `json:"details,omitempty"`
}

// ItemType distinguishes created filesystem entries for undo tracking.
type ItemType string

const (
	ItemFolder ItemType = "folder"
	ItemFile   ItemType = "file"
)

// CreatedItem records one filesystem entry produced during materialization.
// PreExisted is sticky: undo must never delete an item that carries it.
type CreatedItem struct {
	Path       string   `json:"path"`
	ItemType   ItemType `json:"item_type"`
	PreExisted bool     `json:"pre_existed"`
}

// ResultSummary carries the monotonic counters of one materialization run.
// Zeroed at run start, finalized at the end, never mutated afterward.
type ResultSummary struct {
	FoldersCreated  int `json:"folders_created"`
	FilesCreated    int `json:"files_created"`
	FilesDownloaded int `json:"files_downloaded"`
	FilesGenerated  int `json:"files_generated"`
	Errors          int `json:"errors"`
	Skipped         int `json:"skipped"`
	HooksExecuted   int `json:"hooks_executed"`
	HooksFailed     int `json:"hooks_failed"`
}

// HookResult records one post-create hook execution.
type HookResult struct {
	Command  string `json:"command"`
	Success  bool   `json:"success"`
	ExitCode *int   `json:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// CreateResult is the aggregate outcome of one materialization run. It is
// always produced, however many individual nodes errored.
type CreateResult struct {
	Logs         []LogEntry    `json:"logs"`
	Summary      ResultSummary `json:"summary"`
	HookResults  []HookResult  `json:"hook_results,omitempty"`
	CreatedItems []CreatedItem `json:"created_items,omitempty"`
}
