package interp

import (
	"io/fs"

	"github.com/arthur-debert/sprout/pkg/types"
)

// dryFS is the dry-run effect sink: reads pass through to the wrapped
// filesystem so existence checks stay accurate, and every mutation is a
// successful no-op. Materializing through it is what guarantees a dry run
// cannot touch the disk, independent of any flag checks in the visitor.
type dryFS struct {
	types.FS
}

func (dryFS) WriteFile(string, []byte, fs.FileMode) error { return nil }

func (dryFS) MkdirAll(string, fs.FileMode) error { return nil }

func (dryFS) Remove(string) error { return nil }

func (dryFS) RemoveAll(string) error { return nil }
