package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/strongclose/media-offload/internal/remote"
)

const DefaultBatchSize = 10

// Params configures one page of batch work. The caller owns the paging
// loop: it keeps requesting pages while Processed == BatchSize.
type Params struct {
	Mode               Mode
	Offset             int
	BatchSize          int
	RegenerateMetadata bool
	Pause              time.Duration
}

// Service is the batch orchestrator: one page of candidates per call,
// processed strictly sequentially, each attachment's state durable
// before the next one starts.
type Service struct {
	store    attachment.Store
	remote   RemoteStore
	executor *Executor
	planner  *Planner
	logger   zerolog.Logger
}

func NewService(store attachment.Store, files *attachment.Files, remoteStore RemoteStore, executor *Executor, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		remote:   remoteStore,
		executor: executor,
		planner:  NewPlanner(store, files),
		logger:   logger,
	}
}

// RunBatch processes one page. Per-attachment errors are collected and
// the page continues; only a misconfigured remote store aborts, since
// every subsequent attachment would fail identically.
func (s *Service) RunBatch(ctx context.Context, p Params) (*BatchResult, error) {
	if p.BatchSize <= 0 {
		p.BatchSize = DefaultBatchSize
	}
	if !s.remote.IsConfigured() {
		return nil, remote.ErrNotConfigured
	}

	candidates, err := s.planner.SelectCandidates(p.Mode, p.Offset, p.BatchSize)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		RunID:  uuid.NewString(),
		Mode:   p.Mode,
		Offset: p.Offset,
	}

	for i, att := range candidates {
		// Cooperative cancellation between attachments; the one in
		// flight always finishes so its record stays consistent.
		if ctx.Err() != nil {
			break
		}
		if i > 0 && p.Pause > 0 {
			time.Sleep(p.Pause)
		}

		outcome := s.executor.SyncOne(ctx, att, p.Mode, p.RegenerateMetadata)
		result.Processed++
		result.Messages = append(result.Messages, Message{
			AssetID: att.ID,
			Title:   att.DisplayTitle(),
			Kind:    outcome.Kind,
			Message: outcome.Message,
		})

		switch outcome.Kind {
		case OutcomeSuccess:
			result.Succeeded++
			s.logger.Info().Int64("attachmentId", att.ID).Int("uploaded", outcome.Uploaded).Str("runId", result.RunID).Msg(outcome.Message)
		case OutcomeSkipped:
			result.Skipped++
			s.logger.Debug().Int64("attachmentId", att.ID).Str("runId", result.RunID).Msg(outcome.Message)
		case OutcomeError:
			result.Failed++
			s.logger.Error().Int64("attachmentId", att.ID).Str("runId", result.RunID).Msg(outcome.Message)
		}
	}

	return result, nil
}

// SyncAttachment runs a single manual sync, e.g. from a media row
// action.
func (s *Service) SyncAttachment(ctx context.Context, id int64, mode Mode, regenerate bool) (Outcome, error) {
	if !s.remote.IsConfigured() {
		return Outcome{}, remote.ErrNotConfigured
	}
	att, err := s.store.Get(id)
	if err != nil {
		return Outcome{}, err
	}
	return s.executor.SyncOne(ctx, att, mode, regenerate), nil
}

// PurgeRemote removes every remote copy of an attachment and clears its
// record.
func (s *Service) PurgeRemote(ctx context.Context, id int64) error {
	att, err := s.store.Get(id)
	if err != nil {
		return err
	}
	return s.executor.PurgeRemote(ctx, att)
}

func (s *Service) TestConnection(ctx context.Context) error {
	return s.remote.TestConnection(ctx)
}

func (s *Service) Progress() (Progress, error) {
	total, err := s.store.CountAll()
	if err != nil {
		return Progress{}, err
	}
	synced, err := s.store.CountSynced()
	if err != nil {
		return Progress{}, err
	}
	return Progress{Total: total, Synced: synced}, nil
}

// IsNotConfigured reports whether err is the missing-credentials error.
func IsNotConfigured(err error) bool {
	return errors.Is(err, remote.ErrNotConfigured)
}
