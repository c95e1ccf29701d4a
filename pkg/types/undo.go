package types

// UndoSummary counts the outcomes of one undo pass.
type UndoSummary struct {
	FilesDeleted   int `json:"files_deleted"`
	FoldersDeleted int `json:"folders_deleted"`
	ItemsSkipped   int `json:"items_skipped"`
	Errors         int `json:"errors"`
}

// UndoResult is the outcome of reversing a prior materialization.
type UndoResult struct {
	Logs    []LogEntry  `json:"logs"`
	Summary UndoSummary `json:"summary"`
}
