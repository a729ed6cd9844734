package feed

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const syncRunTimeout = 10 * time.Minute

// Watcher runs the feed sync on a cron schedule.
type Watcher struct {
	service  *Service
	schedule string
	cron     *cron.Cron
}

func NewWatcher(service *Service, schedule string) *Watcher {
	return &Watcher{
		service:  service,
		schedule: schedule,
		cron:     cron.New(),
	}
}

func (w *Watcher) Start() error {
	if _, err := w.cron.AddFunc(w.schedule, w.runOnce); err != nil {
		return err
	}

	w.cron.Start()
	log.Info().Str("schedule", w.schedule).Msg("feed watcher started")
	return nil
}

// Stop halts the schedule and waits for any in-flight run to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	log.Info().Msg("feed watcher stopped")
}

func (w *Watcher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
	defer cancel()

	summaries, err := w.service.SyncAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled feed sync failed")
		return
	}

	log.Info().Int("files", len(summaries)).Msg("scheduled feed sync finished")
}
