// Package undo reverses a materialization run using the created-item
// records it produced. Files are removed in reverse creation order, then
// folders deepest first, and only empty folders are ever deleted. Items
// that pre-existed the run are never touched.
package undo

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Run deletes the files and folders recorded in items. With dryRun set,
// nothing is removed; logs and counters report what a real pass would do,
// based on the current state of the filesystem.
func Run(fsys types.FS, items []types.CreatedItem, dryRun bool) *types.UndoResult {
	u := &undoer{fs: fsys, dry: dryRun}
	u.run(items)

	logger := logging.GetLogger("undo")
	logger.Debug().
		Bool("dry_run", dryRun).
		Int("files_deleted", u.result.Summary.FilesDeleted).
		Int("folders_deleted", u.result.Summary.FoldersDeleted).
		Int("skipped", u.result.Summary.ItemsSkipped).
		Int("errors", u.result.Summary.Errors).
		Msg("undo pass complete")

	return &u.result
}

type undoer struct {
	fs     types.FS
	dry    bool
	result types.UndoResult
}

func (u *undoer) log(t types.LogType, message, details string) {
	u.result.Logs = append(u.result.Logs, types.LogEntry{LogType: t, Message: message, Details: details})
}

func (u *undoer) run(items []types.CreatedItem) {
	var files, folders []types.CreatedItem

	for _, item := range items {
		if item.PreExisted {
			u.result.Summary.ItemsSkipped++
			u.log(types.LogInfo, "Skipped (pre-existed): "+item.Path,
				"This item existed before creation and was overwritten")
			continue
		}
		switch item.ItemType {
		case types.ItemFile:
			files = append(files, item)
		case types.ItemFolder:
			folders = append(folders, item)
		}
	}

	// Files go first, newest first, so folders empty out before their turn.
	for i := len(files) - 1; i >= 0; i-- {
		u.file(files[i].Path)
	}

	// Deepest folders first; a longer path cannot be a parent.
	sort.SliceStable(folders, func(i, j int) bool {
		return len(folders[i].Path) > len(folders[j].Path)
	})
	for _, item := range folders {
		u.folder(item.Path)
	}
}

func (u *undoer) file(path string) {
	if _, err := u.fs.Stat(path); err != nil {
		u.result.Summary.ItemsSkipped++
		u.log(types.LogInfo, "File already deleted: "+path, "")
		return
	}

	if u.dry {
		u.result.Summary.FilesDeleted++
		u.log(types.LogInfo, "Would delete file: "+path, "")
		return
	}

	if err := u.fs.Remove(path); err != nil {
		u.result.Summary.Errors++
		u.log(types.LogError, "Failed to delete file: "+path, fmt.Sprintf("Error: %v", err))
		return
	}
	u.result.Summary.FilesDeleted++
	u.log(types.LogSuccess, "Deleted file: "+path, "")
}

func (u *undoer) folder(path string) {
	if _, err := u.fs.Stat(path); err != nil {
		u.result.Summary.ItemsSkipped++
		u.log(types.LogInfo, "Folder already deleted: "+path, "")
		return
	}

	empty, err := u.fs.IsDirEmpty(path)

	if u.dry {
		switch {
		case err != nil:
			u.result.Summary.ItemsSkipped++
			u.log(types.LogInfo, "Would skip folder (unreadable): "+path, "")
		case empty:
			u.result.Summary.FoldersDeleted++
			u.log(types.LogInfo, "Would delete folder: "+path, "")
		default:
			u.result.Summary.ItemsSkipped++
			u.log(types.LogInfo, "Would skip folder (not empty): "+path, "")
		}
		return
	}

	switch {
	case err != nil:
		u.result.Summary.Errors++
		u.log(types.LogError, "Failed to read folder: "+path, fmt.Sprintf("Error: %v", err))
	case empty:
		if rmErr := u.fs.Remove(path); rmErr != nil {
			u.result.Summary.Errors++
			u.log(types.LogError, "Failed to delete folder: "+path, fmt.Sprintf("Error: %v", rmErr))
			return
		}
		u.result.Summary.FoldersDeleted++
		u.log(types.LogSuccess, "Deleted folder: "+path, "")
	default:
		u.result.Summary.ItemsSkipped++
		u.log(types.LogWarning, "Folder not empty, skipped: "+path,
			"Only empty folders are deleted to prevent data loss")
	}
}
