// Package filesystem provides filesystem implementations for sprout.
//
// This package contains implementations of the types.FS interface the
// interpreter and undo engine write through; the standard OS-backed one
// lives here, the in-memory test one in pkg/testutil.
package filesystem
