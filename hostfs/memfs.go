// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package hostfs

import (
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

type memNode struct {
	isDir   bool
	content []byte
	modTime time.Time
}

// MemFS is an in-memory Filesystem, sandboxed to its own tree rather
// than the host OS. It is the default Filesystem a Shell is
// constructed with.
type MemFS struct {
	mu    sync.Mutex
	nodes map[string]*memNode
}

// NewMemFS returns an empty MemFS with "/" present as a directory.
func NewMemFS() *MemFS {
	fs := &MemFS{nodes: map[string]*memNode{}}
	fs.nodes["/"] = &memNode{isDir: true, modTime: time.Time{}}
	return fs
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	c := path.Clean(p)
	if !strings.HasPrefix(c, "/") {
		c = "/" + c
	}
	return c
}

func parentOf(p string) string {
	if p == "/" {
		return "/"
	}
	return clean(path.Dir(p))
}

// MkdirAll creates path and any missing ancestor directories,
// bypassing the Filesystem interface; used to seed a shell's initial
// working directory.
func (fs *MemFS) MkdirAll(p string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mkdirAllLocked(clean(p))
}

func (fs *MemFS) mkdirAllLocked(p string) {
	if p == "/" {
		return
	}
	if _, ok := fs.nodes[p]; ok {
		return
	}
	fs.mkdirAllLocked(parentOf(p))
	fs.nodes[p] = &memNode{isDir: true, modTime: time.Now()}
}

func (fs *MemFS) ReadFile(p string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, ok := fs.nodes[clean(p)]
	if !ok {
		return "", &PathError{Code: ENOENT, Op: "read", Path: p}
	}
	if n.isDir {
		return "", &PathError{Code: EISDIR, Op: "read", Path: p}
	}
	return string(n.content), nil
}

func (fs *MemFS) WriteFile(p, data string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	if existing, ok := fs.nodes[cp]; ok && existing.isDir {
		return &PathError{Code: EISDIR, Op: "write", Path: p}
	}
	dir := parentOf(cp)
	if n, ok := fs.nodes[dir]; !ok || !n.isDir {
		return &PathError{Code: ENOENT, Op: "write", Path: p}
	}
	fs.nodes[cp] = &memNode{content: []byte(data), modTime: time.Now()}
	return nil
}

func (fs *MemFS) AppendFile(p, data string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	n, ok := fs.nodes[cp]
	if ok && n.isDir {
		return &PathError{Code: EISDIR, Op: "append", Path: p}
	}
	dir := parentOf(cp)
	if pn, ok := fs.nodes[dir]; !ok || !pn.isDir {
		return &PathError{Code: ENOENT, Op: "append", Path: p}
	}
	if !ok {
		fs.nodes[cp] = &memNode{content: []byte(data), modTime: time.Now()}
		return nil
	}
	n.content = append(n.content, data...)
	n.modTime = time.Now()
	return nil
}

func (fs *MemFS) Readdir(p string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	n, ok := fs.nodes[cp]
	if !ok {
		return nil, &PathError{Code: ENOENT, Op: "readdir", Path: p}
	}
	if !n.isDir {
		return nil, &PathError{Code: EISDIR, Op: "readdir", Path: p}
	}
	prefix := cp
	if prefix != "/" {
		prefix += "/"
	}
	var out []string
	for child := range fs.nodes {
		if child == cp || !strings.HasPrefix(child, prefix) {
			continue
		}
		rest := strings.TrimPrefix(child, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		out = append(out, rest)
	}
	sort.Strings(out)
	return out, nil
}

func (fs *MemFS) Mkdir(p string, opts MkdirOptions) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	if _, ok := fs.nodes[cp]; ok {
		if opts.Recursive {
			return nil
		}
		return &PathError{Code: EEXIST, Op: "mkdir", Path: p}
	}
	dir := parentOf(cp)
	if _, ok := fs.nodes[dir]; !ok {
		if !opts.Recursive {
			return &PathError{Code: ENOENT, Op: "mkdir", Path: p}
		}
		fs.mkdirAllLocked(dir)
	}
	fs.nodes[cp] = &memNode{isDir: true, modTime: time.Now()}
	return nil
}

func (fs *MemFS) Rmdir(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	n, ok := fs.nodes[cp]
	if !ok {
		return &PathError{Code: ENOENT, Op: "rmdir", Path: p}
	}
	if !n.isDir {
		return &PathError{Code: EISDIR, Op: "rmdir", Path: p}
	}
	prefix := cp
	if prefix != "/" {
		prefix += "/"
	}
	for child := range fs.nodes {
		if strings.HasPrefix(child, prefix) {
			return &PathError{Code: ENOTEMPTY, Op: "rmdir", Path: p}
		}
	}
	delete(fs.nodes, cp)
	return nil
}

func (fs *MemFS) Stat(p string) (FileInfo, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, ok := fs.nodes[clean(p)]
	if !ok {
		return FileInfo{}, &PathError{Code: ENOENT, Op: "stat", Path: p}
	}
	return FileInfo{
		IsFile:      !n.isDir,
		IsDirectory: n.isDir,
		Size:        int64(len(n.content)),
		ModTime:     n.modTime,
	}, nil
}

func (fs *MemFS) Access(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.nodes[clean(p)]; !ok {
		return &PathError{Code: ENOENT, Op: "access", Path: p}
	}
	return nil
}

func (fs *MemFS) Unlink(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	n, ok := fs.nodes[cp]
	if !ok {
		return &PathError{Code: ENOENT, Op: "unlink", Path: p}
	}
	if n.isDir {
		return &PathError{Code: EISDIR, Op: "unlink", Path: p}
	}
	delete(fs.nodes, cp)
	return nil
}

func (fs *MemFS) Rename(oldpath, newpath string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	co := clean(oldpath)
	n, ok := fs.nodes[co]
	if !ok {
		return &PathError{Code: ENOENT, Op: "rename", Path: oldpath}
	}
	cn := clean(newpath)
	fs.nodes[cn] = n
	delete(fs.nodes, co)
	return nil
}

func (fs *MemFS) CopyFile(src, dst string) error {
	fs.mu.Lock()
	n, ok := fs.nodes[clean(src)]
	fs.mu.Unlock()
	if !ok {
		return &PathError{Code: ENOENT, Op: "copy", Path: src}
	}
	if n.isDir {
		return &PathError{Code: EISDIR, Op: "copy", Path: src}
	}
	return fs.WriteFile(dst, string(n.content))
}

func (fs *MemFS) Realpath(p string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := clean(p)
	if _, ok := fs.nodes[cp]; !ok {
		return "", &PathError{Code: ENOENT, Op: "realpath", Path: p}
	}
	return cp, nil
}
