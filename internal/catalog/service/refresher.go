package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher periodically reloads the whole catalog, picking up writes made
// outside this process.
type Refresher struct {
	store   *Store
	spec    string
	timeout time.Duration
	log     *zap.Logger
	cron    *cron.Cron
}

func NewRefresher(store *Store, spec string, log *zap.Logger) *Refresher {
	return &Refresher{
		store:   store,
		spec:    spec,
		timeout: 30 * time.Second,
		log:     log,
	}
}

// Start schedules the reload job.
func (r *Refresher) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(r.spec, r.Run); err != nil {
		return fmt.Errorf("failed to schedule catalog refresh %q: %w", r.spec, err)
	}
	r.cron = c
	c.Start()

	r.log.Info("catalog refresher started", zap.String("spec", r.spec))
	return nil
}

// Run performs one reload.
func (r *Refresher) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := r.store.LoadAll(ctx); err != nil {
		r.log.Error("scheduled catalog refresh failed", zap.Error(err))
		return
	}
	r.log.Debug("catalog refreshed",
		zap.Int("products", r.store.Len()),
		zap.Duration("took", time.Since(start)),
	)
}

// Stop unschedules the job and waits for a running reload to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
	r.log.Info("catalog refresher stopped")
}
