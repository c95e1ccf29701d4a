// Package docs embeds the help topic documents shipped inside the sprout
// binary, so `sprout help <topic>` works without any files on disk.
package docs

import "embed"

//go:embed topics
var Topics embed.FS
