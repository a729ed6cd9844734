package feed

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File is one feed file pulled from a source. The caller owns closing it.
type File struct {
	Name   string
	Reader io.ReadCloser
}

// Source yields buyer feed files from one location: the upload directory,
// an object store bucket, or a shared Drive folder.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]File, error)
}

// DirSource reads CSV files dropped into a local directory, typically by the
// upload endpoint.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Name() string { return "upload-dir" }

func (s *DirSource) Fetch(_ context.Context) ([]File, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		f, err := os.Open(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			closeAll(files)
			return nil, err
		}
		files = append(files, File{Name: entry.Name(), Reader: f})
	}

	return files, nil
}

func closeAll(files []File) {
	for _, f := range files {
		f.Reader.Close()
	}
}
