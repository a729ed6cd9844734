package feed

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluebird1313/reporder/internal/domain"
	"github.com/bluebird1313/reporder/internal/repository"
)

type fakeProductFinder struct {
	products map[string]*domain.Product
}

func (f *fakeProductFinder) FindProduct(_ context.Context, productID, styleNumber, upcCode string) (*domain.Product, error) {
	for _, key := range []string{productID, styleNumber, upcCode} {
		if p, ok := f.products[key]; ok && key != "" {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeSyncer struct {
	mu     sync.Mutex
	synced []domain.StoreProduct
}

func (f *fakeSyncer) SyncInventoryLevel(_ context.Context, sp *domain.StoreProduct) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, *sp)
	return sp.Quantity <= sp.MinimumStock, nil
}

func newTestFeedService(finder *fakeProductFinder, syncer *fakeSyncer, sources ...Source) *Service {
	svc := NewService(finder, syncer, sources...)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC) }
	return svc
}

func catalogWith(products ...domain.Product) *fakeProductFinder {
	finder := &fakeProductFinder{products: map[string]*domain.Product{}}
	for i := range products {
		p := &products[i]
		finder.products[p.ID] = p
		if p.StyleNumber != "" {
			finder.products[p.StyleNumber] = p
		}
		if p.UPCCode != "" {
			finder.products[p.UPCCode] = p
		}
	}
	return finder
}

func TestSyncReaderCountsOutcomes(t *testing.T) {
	finder := catalogWith(
		domain.Product{ID: "prod-1", StyleNumber: "STY-1"},
		domain.Product{ID: "prod-2", StyleNumber: "STY-2"},
	)
	syncer := &fakeSyncer{}
	svc := newTestFeedService(finder, syncer)

	input := strings.Join([]string{
		"store_id,style_number,current_quantity,minimum_threshold",
		"store-1,STY-1,0,5",
		"store-1,STY-2,20,5",
		"store-1,STY-MISSING,3,5",
		",STY-1,3,5",
	}, "\n")

	summary, err := svc.SyncReader(context.Background(), "upload-dir", "feed.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 1, summary.AlertsRaised)
	assert.Equal(t, 1, summary.Resolved)
	require.Len(t, summary.Errors, 2)
	assert.Contains(t, summary.Errors[0], "product not found")
	assert.Contains(t, summary.Errors[1], "missing store_id")
	assert.NotEmpty(t, summary.RunID)

	require.Len(t, syncer.synced, 2)
	assert.Equal(t, "prod-1", syncer.synced[0].ProductID)
}

func TestSyncReaderFallsBackToProductDefaultThreshold(t *testing.T) {
	finder := catalogWith(domain.Product{ID: "prod-1", StyleNumber: "STY-1", DefaultMinStock: 8})
	syncer := &fakeSyncer{}
	svc := newTestFeedService(finder, syncer)

	input := strings.Join([]string{
		"store_id,style_number,current_quantity",
		"store-1,STY-1,6",
	}, "\n")

	_, err := svc.SyncReader(context.Background(), "upload-dir", "feed.csv", strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, syncer.synced, 1)
	assert.Equal(t, 8, syncer.synced[0].MinimumStock)
}

type staticSource struct {
	name  string
	files map[string]string
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Fetch(context.Context) ([]File, error) {
	var files []File
	for name, content := range s.files {
		files = append(files, File{Name: name, Reader: io.NopCloser(strings.NewReader(content))})
	}
	return files, nil
}

func TestSyncAllProcessesEverySourceFile(t *testing.T) {
	finder := catalogWith(domain.Product{ID: "prod-1", StyleNumber: "STY-1"})
	syncer := &fakeSyncer{}

	feedBody := "store_id,style_number,current_quantity,minimum_threshold\nstore-1,STY-1,1,5\n"
	svc := newTestFeedService(finder, syncer,
		&staticSource{name: "upload-dir", files: map[string]string{"a.csv": feedBody}},
		&staticSource{name: "object-storage", files: map[string]string{"b.csv": feedBody, "c.csv": feedBody}},
	)

	summaries, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, summaries, 3)
	assert.Len(t, syncer.synced, 3)
}
