package virtual

import (
	"bytes"
	"io"
	"io/fs"
	"time"
)

// fileInfo is the metadata for a virtual file or directory.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi fileInfo) Name() string       { return fi.name }
func (fi fileInfo) Size() int64        { return fi.size }
func (fi fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi fileInfo) ModTime() time.Time { return fi.modTime }
func (fi fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi fileInfo) Sys() any           { return nil }

// memFile is a rendered file held in memory. It supports seeking so that
// http.ServeContent can do range requests.
type memFile struct {
	info   fileInfo
	reader *bytes.Reader
}

func newMemFile(name string, data []byte, modTime time.Time) *memFile {
	return &memFile{
		info:   fileInfo{name: name, size: int64(len(data)), mode: 0o444, modTime: modTime},
		reader: bytes.NewReader(data),
	}
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Read(b []byte) (int, error) { return f.reader.Read(b) }
func (f *memFile) Close() error               { return nil }

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

// dirEntry is a directory entry backed by a fileInfo snapshot taken at
// the time of the directory read.
type dirEntry struct {
	info fileInfo
}

func (de dirEntry) Name() string               { return de.info.name }
func (de dirEntry) IsDir() bool                { return de.info.IsDir() }
func (de dirEntry) Type() fs.FileMode          { return de.info.Mode().Type() }
func (de dirEntry) Info() (fs.FileInfo, error) { return de.info, nil }

// virtualDir is an open directory handle over a fixed entry list.
type virtualDir struct {
	info    fileInfo
	entries []fs.DirEntry
	offset  int
}

func (d *virtualDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *virtualDir) Close() error               { return nil }

func (d *virtualDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile, including the paging behavior
// expected when n > 0.
func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}
