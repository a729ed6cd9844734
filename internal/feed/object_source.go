package feed

import (
	"context"
	"path"
	"strings"

	"github.com/bluebird1313/reporder/internal/storage"
)

// ObjectSource pulls feed files from an S3-compatible bucket, under a fixed
// key prefix.
type ObjectSource struct {
	store  storage.ObjectStorage
	prefix string
}

func NewObjectSource(store storage.ObjectStorage, prefix string) *ObjectSource {
	return &ObjectSource{store: store, prefix: prefix}
}

func (s *ObjectSource) Name() string { return "object-storage" }

func (s *ObjectSource) Fetch(ctx context.Context) ([]File, error) {
	objects, err := s.store.ListObjects(ctx, s.prefix)
	if err != nil {
		return nil, err
	}

	var files []File
	for _, object := range objects {
		if !strings.EqualFold(path.Ext(object.Key), ".csv") {
			continue
		}

		reader, err := s.store.GetObject(ctx, object.Key)
		if err != nil {
			closeAll(files)
			return nil, err
		}
		files = append(files, File{Name: path.Base(object.Key), Reader: reader})
	}

	return files, nil
}
