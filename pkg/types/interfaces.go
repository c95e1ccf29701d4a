package types

import "io/fs"

// FS abstracts filesystem effects so the interpreter and the undo engine
// run identically against the real filesystem, an in-memory one in tests,
// or a no-op recorder in dry-run mode.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Removal; Remove must fail on non-empty directories
	Remove(name string) error
	RemoveAll(path string) error

	// IsDirEmpty reports whether the directory has no entries.
	// Undo relies on this to never delete folders holding user content.
	IsDirEmpty(path string) (bool, error)

	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}
