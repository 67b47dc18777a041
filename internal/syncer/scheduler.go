package syncer

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler periodically runs one full-mode page with nobody waiting on
// the result. A fixed inter-attachment pause bounds burst load on the
// remote service.
type Scheduler struct {
	service   *Service
	interval  time.Duration
	batchSize int
	pause     time.Duration
	ticker    *time.Ticker
	done      chan bool
	logger    zerolog.Logger
}

func NewScheduler(service *Service, interval time.Duration, batchSize int, pause time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Scheduler{
		service:   service,
		interval:  interval,
		batchSize: batchSize,
		pause:     pause,
		done:      make(chan bool),
		logger:    logger,
	}
}

func (s *Scheduler) Start() {
	s.ticker = time.NewTicker(s.interval)
	s.logger.Info().Dur("interval", s.interval).Int("batchSize", s.batchSize).Msg("Auto-sync scheduler started")
	go s.loop()
}

func (s *Scheduler) loop() {
	for {
		select {
		case <-s.ticker.C:
			s.runOnce()
		case <-s.done:
			s.ticker.Stop()
			return
		}
	}
}

func (s *Scheduler) runOnce() {
	result, err := s.service.RunBatch(context.Background(), Params{
		Mode:      ModeFull,
		BatchSize: s.batchSize,
		Pause:     s.pause,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Auto-sync batch failed")
		return
	}
	if result.Processed == 0 {
		s.logger.Debug().Msg("Auto-sync: no unsynced attachments found")
		return
	}
	s.logger.Info().
		Int("processed", result.Processed).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Str("runId", result.RunID).
		Msg("Auto-sync batch completed")
}

func (s *Scheduler) Stop() {
	s.logger.Info().Msg("Stopping auto-sync scheduler")
	if s.ticker != nil {
		s.done <- true
	}
}

// RunNow executes one batch immediately, outside the ticker.
func (s *Scheduler) RunNow() {
	s.runOnce()
}
