// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package hostfs

import (
	"io"
	"os"
	"path/filepath"

	maybeio "github.com/google/renameio/v2/maybe"
)

// OSFS is a Filesystem backed by the real operating system. WriteFile
// and CopyFile go through renameio/maybe so that a crash mid-write
// never leaves a truncated file in place; AppendFile appends to the
// file in place.
type OSFS struct{}

// NewOSFS returns an OSFS.
func NewOSFS() *OSFS { return &OSFS{} }

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	code := EACCES
	switch {
	case os.IsNotExist(err):
		code = ENOENT
	case os.IsExist(err):
		code = EEXIST
	}
	return &PathError{Code: code, Op: op, Path: path, Err: err}
}

func (fs *OSFS) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", wrap("read", path, err)
	}
	return string(b), nil
}

func (fs *OSFS) WriteFile(path, data string) error {
	if err := maybeio.WriteFile(path, []byte(data), 0o644); err != nil {
		return wrap("write", path, err)
	}
	return nil
}

func (fs *OSFS) AppendFile(path, data string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return wrap("append", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(data); err != nil {
		return wrap("append", path, err)
	}
	return nil
}

func (fs *OSFS) Readdir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, wrap("readdir", path, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func (fs *OSFS) Mkdir(path string, opts MkdirOptions) error {
	var err error
	if opts.Recursive {
		err = os.MkdirAll(path, 0o755)
	} else {
		err = os.Mkdir(path, 0o755)
	}
	return wrap("mkdir", path, err)
}

func (fs *OSFS) Rmdir(path string) error {
	if err := os.Remove(path); err != nil {
		if pe, ok := err.(*os.PathError); ok && pe.Err != nil && pe.Err.Error() == "directory not empty" {
			return &PathError{Code: ENOTEMPTY, Op: "rmdir", Path: path, Err: err}
		}
		return wrap("rmdir", path, err)
	}
	return nil
}

func (fs *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, wrap("stat", path, err)
	}
	return FileInfo{
		IsFile:      !st.IsDir(),
		IsDirectory: st.IsDir(),
		Size:        st.Size(),
		ModTime:     st.ModTime(),
	}, nil
}

func (fs *OSFS) Access(path string) error {
	if _, err := os.Stat(path); err != nil {
		return wrap("access", path, err)
	}
	return nil
}

func (fs *OSFS) Unlink(path string) error {
	return wrap("unlink", path, os.Remove(path))
}

func (fs *OSFS) Rename(oldpath, newpath string) error {
	return wrap("rename", oldpath, os.Rename(oldpath, newpath))
}

func (fs *OSFS) CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return wrap("copy", src, err)
	}
	defer in.Close()
	b, err := io.ReadAll(in)
	if err != nil {
		return wrap("copy", src, err)
	}
	if err := maybeio.WriteFile(dst, b, 0o644); err != nil {
		return wrap("copy", dst, err)
	}
	return nil
}

func (fs *OSFS) Realpath(path string) (string, error) {
	p, err := filepath.Abs(path)
	if err != nil {
		return "", wrap("realpath", path, err)
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", wrap("realpath", path, err)
	}
	return resolved, nil
}
