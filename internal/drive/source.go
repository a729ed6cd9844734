package drive

import (
	"context"
	"path"
	"strings"

	"github.com/bluebird1313/reporder/internal/feed"
)

// FeedSource exposes a Drive folder of buyer feed CSVs as a feed source.
type FeedSource struct {
	service  *Service
	folderID string
}

func NewFeedSource(service *Service, folderID string) *FeedSource {
	return &FeedSource{service: service, folderID: folderID}
}

func (s *FeedSource) Name() string { return "google-drive" }

func (s *FeedSource) Fetch(ctx context.Context) ([]feed.File, error) {
	driveFiles, err := s.service.ListFiles(ctx, s.folderID)
	if err != nil {
		return nil, err
	}

	var files []feed.File
	for _, f := range driveFiles {
		if !isCSV(f) {
			continue
		}

		reader, err := s.service.OpenFile(ctx, f.ID)
		if err != nil {
			for _, opened := range files {
				opened.Reader.Close()
			}
			return nil, err
		}
		files = append(files, feed.File{Name: f.Name, Reader: reader})
	}

	return files, nil
}

func isCSV(f *File) bool {
	return f.MimeType == "text/csv" || strings.EqualFold(path.Ext(f.Name), ".csv")
}
