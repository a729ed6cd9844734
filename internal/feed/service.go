package feed

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bluebird1313/reporder/internal/domain"
)

// fileConcurrency bounds parallel feed file processing within one sync run.
const fileConcurrency = 4

// ProductFinder resolves a feed row's product reference, trying the explicit
// id first, then the style number, then the UPC.
type ProductFinder interface {
	FindProduct(ctx context.Context, productID, styleNumber, upcCode string) (*domain.Product, error)
}

// InventorySyncer records an inventory level and reconciles its alerts.
type InventorySyncer interface {
	SyncInventoryLevel(ctx context.Context, sp *domain.StoreProduct) (bool, error)
}

// SyncSummary reports the outcome of ingesting one feed file. Row failures
// are collected, not fatal; a partially bad feed still lands its good rows.
type SyncSummary struct {
	RunID        string    `json:"run_id"`
	Source       string    `json:"source"`
	FileName     string    `json:"file_name"`
	TotalRows    int       `json:"total_rows"`
	AlertsRaised int       `json:"alerts_raised"`
	Resolved     int       `json:"resolved"`
	Errors       []string  `json:"errors,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// Service ingests buyer feeds and pushes their inventory levels through the
// alert pipeline.
type Service struct {
	products ProductFinder
	alerts   InventorySyncer
	sources  []Source
	now      func() time.Time
}

func NewService(products ProductFinder, alerts InventorySyncer, sources ...Source) *Service {
	return &Service{
		products: products,
		alerts:   alerts,
		sources:  sources,
		now:      time.Now,
	}
}

// SyncReader ingests one feed file from an open reader.
func (s *Service) SyncReader(ctx context.Context, sourceName, fileName string, r io.Reader) (*SyncSummary, error) {
	summary := &SyncSummary{
		RunID:     uuid.NewString(),
		Source:    sourceName,
		FileName:  fileName,
		StartedAt: s.now(),
	}

	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	summary.TotalRows = len(rows)

	for _, row := range rows {
		if err := s.syncRow(ctx, row, summary); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
		}
	}

	summary.CompletedAt = s.now()

	log.Info().
		Str("run_id", summary.RunID).
		Str("source", summary.Source).
		Str("file", summary.FileName).
		Int("total_rows", summary.TotalRows).
		Int("alerts_raised", summary.AlertsRaised).
		Int("errors", len(summary.Errors)).
		Msg("buyer feed sync completed")

	return summary, nil
}

func (s *Service) syncRow(ctx context.Context, row Row, summary *SyncSummary) error {
	if row.StoreID == "" {
		return fmt.Errorf("missing store_id")
	}

	product, err := s.products.FindProduct(ctx, row.ProductID, row.StyleNumber, row.UPCCode)
	if err != nil {
		return fmt.Errorf("product not found for store %s: %w", row.StoreID, err)
	}

	threshold := row.Threshold
	if threshold == 0 {
		threshold = product.DefaultMinStock
	}

	flagged, err := s.alerts.SyncInventoryLevel(ctx, &domain.StoreProduct{
		StoreID:      row.StoreID,
		ProductID:    product.ID,
		Quantity:     row.Quantity,
		MinimumStock: threshold,
	})
	if err != nil {
		return fmt.Errorf("store %s product %s: %w", row.StoreID, product.ID, err)
	}

	if flagged {
		summary.AlertsRaised++
	} else {
		summary.Resolved++
	}
	return nil
}

// SyncAll pulls every configured source and ingests its files, a few in
// parallel. A failing source aborts the run; row-level errors do not.
func (s *Service) SyncAll(ctx context.Context) ([]*SyncSummary, error) {
	var (
		mu        sync.Mutex
		summaries []*SyncSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileConcurrency)

	for _, source := range s.sources {
		files, err := source.Fetch(gctx)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", source.Name(), err)
		}

		for _, file := range files {
			g.Go(func() error {
				defer file.Reader.Close()

				summary, err := s.SyncReader(gctx, source.Name(), file.Name, file.Reader)
				if err != nil {
					return fmt.Errorf("file %s: %w", file.Name, err)
				}

				mu.Lock()
				summaries = append(summaries, summary)
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summaries, nil
}
