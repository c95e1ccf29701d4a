// Package types defines the core types shared throughout sprout.
// This includes the schema tree nodes consumed by the interpreter, the
// result and log structures produced by materialization, diff preview and
// undo, and the filesystem interface effectful code writes through.
package types
