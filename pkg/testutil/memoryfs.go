// Package testutil provides an in-memory types.FS for engine tests.
// MemoryFS mirrors the osFS contract, including Remove failing on
// non-empty directories and WriteFile failing on missing parents, and
// adds path-level error injection for exercising failure branches that
// are awkward to produce on a real filesystem.
package testutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MemoryFS is an in-memory filesystem rooted at "/".
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string]*fileNode

	// errorPaths makes every operation on a path fail with the
	// configured error.
	errorPaths map[string]error
}

type fileNode struct {
	name     string
	mode     fs.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	children map[string]*fileNode
}

// NewMemoryFS returns an empty filesystem containing only the root
// directory.
func NewMemoryFS() *MemoryFS {
	root := &fileNode{
		name:     "/",
		mode:     0o755 | fs.ModeDir,
		modTime:  time.Now(),
		isDir:    true,
		children: make(map[string]*fileNode),
	}
	return &MemoryFS{
		files:      map[string]*fileNode{"/": root},
		errorPaths: make(map[string]error),
	}
}

// WithError configures every operation on path to fail with err.
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorPaths[normalize(path)] = err
	return m
}

// normalize anchors relative paths at the root and cleans the result.
func normalize(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

func (m *MemoryFS) getNode(path string) (*fileNode, error) {
	path = normalize(path)
	if err, ok := m.errorPaths[path]; ok {
		return nil, err
	}
	node, exists := m.files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

func (m *MemoryFS) getParent(path string) (*fileNode, string, error) {
	path = normalize(path)
	parent, err := m.getNode(filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	if !parent.isDir {
		return nil, "", &fs.PathError{Op: "open", Path: filepath.Dir(path), Err: errors.New("not a directory")}
	}
	return parent, filepath.Base(path), nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}
	return &fileInfo{node: node, name: filepath.Base(normalize(name))}, nil
}

// Lstat behaves like Stat; MemoryFS holds no symlinks.
func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	return m.Stat(name)
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(name)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}

	// Copy so callers cannot mutate stored content.
	content := make([]byte, len(node.content))
	copy(content, node.content)
	return content, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalize(name)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}

	parent, filename, err := m.getParent(path)
	if err != nil {
		return err
	}
	if existing, ok := parent.children[filename]; ok && existing.isDir {
		return &fs.PathError{Op: "write", Path: name, Err: errors.New("is a directory")}
	}

	node := &fileNode{
		name:    filename,
		mode:    perm,
		modTime: time.Now(),
		content: make([]byte, len(data)),
	}
	copy(node.content, data)

	parent.children[filename] = node
	m.files[path] = node
	return nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = normalize(path)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}

	if node, err := m.getNode(path); err == nil {
		if !node.isDir {
			return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("file exists")}
		}
		return nil
	}

	current := "/"
	currentNode := m.files["/"]
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next := filepath.Join(current, part)

		if child, exists := currentNode.children[part]; exists {
			if !child.isDir {
				return &fs.PathError{Op: "mkdir", Path: next, Err: errors.New("not a directory")}
			}
			currentNode = child
			current = next
			continue
		}

		dir := &fileNode{
			name:     part,
			mode:     perm | fs.ModeDir,
			modTime:  time.Now(),
			isDir:    true,
			children: make(map[string]*fileNode),
		}
		currentNode.children[part] = dir
		m.files[next] = dir
		currentNode = dir
		current = next
	}
	return nil
}

// Remove deletes a file or an empty directory.
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := normalize(name)
	node, err := m.getNode(path)
	if err != nil {
		return err
	}
	if node.isDir && len(node.children) > 0 {
		return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
	}

	parent, filename, err := m.getParent(path)
	if err != nil {
		return err
	}
	delete(parent.children, filename)
	delete(m.files, path)
	return nil
}

func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = normalize(path)
	if err, ok := m.errorPaths[path]; ok {
		return err
	}

	var doomed []string
	for p := range m.files {
		if p == path || strings.HasPrefix(p, path+"/") {
			doomed = append(doomed, p)
		}
	}
	for _, p := range doomed {
		delete(m.files, p)
		if dir := filepath.Dir(p); dir != p {
			if parent, ok := m.files[dir]; ok && parent.isDir {
				delete(parent.children, filepath.Base(p))
			}
		}
	}
	return nil
}

func (m *MemoryFS) IsDirEmpty(path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.getNode(path)
	if err != nil {
		return false, err
	}
	if !node.isDir {
		return false, &fs.PathError{Op: "readdir", Path: path, Err: errors.New("not a directory")}
	}
	return len(node.children) == 0, nil
}

type fileInfo struct {
	node *fileNode
	name string
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return int64(len(fi.node.content)) }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.node.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.node.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.node.isDir }
func (fi *fileInfo) Sys() interface{}   { return fi.node }
