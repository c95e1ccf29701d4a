package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/types"
)

// maxInlineContent caps how much file content a scan inlines (1 MiB).
// Larger files become empty <file> nodes.
const maxInlineContent = 1 << 20

var skipNames = map[string]bool{
	"node_modules": true,
	"target":       true,
	"__pycache__":  true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

var binaryExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "ico": true, "webp": true,
	"mp3": true, "mp4": true, "wav": true, "avi": true, "mov": true, "mkv": true, "webm": true,
	"zip": true, "tar": true, "gz": true, "rar": true, "7z": true,
	"exe": true, "dll": true, "so": true, "dylib": true,
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true, "pptx": true,
	"ttf": true, "otf": true, "woff": true, "woff2": true, "eot": true,
	"db": true, "sqlite": true, "sqlite3": true,
	"pyc": true, "class": true, "o": true, "obj": true,
}

// ScanFolder walks a real directory into a SchemaTree, the inverse of
// materialization. Hidden entries and well-known build or dependency
// directories are skipped; text files up to 1 MiB get inline content.
func ScanFolder(folderPath string) (*types.SchemaTree, error) {
	logger := logging.GetLogger("schema.scan")

	info, err := os.Stat(folderPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "folder does not exist: %s", folderPath)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot access %s", folderPath)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, "path is not a directory: %s", folderPath)
	}

	name := filepath.Base(filepath.Clean(folderPath))
	if name == "." || name == string(filepath.Separator) {
		name = "root"
	}

	root, err := scanDirectory(folderPath, name)
	if err != nil {
		return nil, err
	}

	tree := &types.SchemaTree{Root: root, Stats: ComputeStats(root)}
	logger.Debug().
		Str("path", folderPath).
		Int("folders", tree.Stats.Folders).
		Int("files", tree.Stats.Files).
		Msg("scanned folder into schema")
	return tree, nil
}

func scanDirectory(dirPath, name string) (*types.SchemaNode, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", dirPath)
	}

	// Folders first, then files, alphabetical within each group.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	node := &types.SchemaNode{Kind: types.NodeFolder, Name: name}
	for _, entry := range entries {
		entryName := entry.Name()
		if strings.HasPrefix(entryName, ".") || skipNames[entryName] {
			continue
		}

		entryPath := filepath.Join(dirPath, entryName)
		if entry.IsDir() {
			child, err := scanDirectory(entryPath, entryName)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		node.Children = append(node.Children, &types.SchemaNode{
			Kind:    types.NodeFile,
			Name:    entryName,
			Content: readInlineContent(entryPath),
		})
	}
	return node, nil
}

// readInlineContent returns a file's text, or "" when the file is too
// large, binary, or unreadable.
func readInlineContent(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxInlineContent {
		return ""
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if binaryExtensions[ext] {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return ""
	}
	return string(data)
}
