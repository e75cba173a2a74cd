package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/domeohq/doors-backend/pkg/config"
	"github.com/domeohq/doors-backend/pkg/db/models"
	"github.com/domeohq/doors-backend/pkg/logger"
)

const (
	defaultBatchSize   = 50
	defaultPollMs      = 500
	defaultMaxAttempts = 10
)

type outboxRepository interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type eventSink interface {
	Publish(ctx context.Context, channel string, payload any) error
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Sink       eventSink
}

// Service drains the outbox table into the event channel, one aggregate type
// per channel.
type Service struct {
	logg         *logger.Logger
	repo         outboxRepository
	sink         eventSink
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Sink == nil {
		return nil, errors.New("event sink is required")
	}

	batchSize := params.Config.Outbox.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}

	return &Service{
		logg:         params.Logger,
		repo:         params.Repository,
		sink:         params.Sink,
		batchSize:    batchSize,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

// Run polls until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.DrainOnce(ctx); err != nil {
				s.logg.Error(ctx, "outbox drain failed", err)
			}
		}
	}
}

// DrainOnce publishes one batch and reports how many events went out.
func (s *Service) DrainOnce(ctx context.Context) (int, error) {
	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return 0, err
	}

	published := 0
	for _, event := range events {
		channel := string(event.AggregateType)
		if err := s.sink.Publish(ctx, channel, []byte(event.Payload)); err != nil {
			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				s.logg.Error(ctx, "failed to record publish failure", markErr)
			}
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"event_id":   event.ID.String(),
				"event_type": string(event.EventType),
			})
			s.logg.Error(logCtx, "failed to publish outbox event", err)
			continue
		}
		if err := s.repo.MarkPublished(event.ID); err != nil {
			s.logg.Error(ctx, "failed to mark event published", err)
			continue
		}
		published++
	}

	if published > 0 {
		logCtx := s.logg.WithField(ctx, "published", published)
		s.logg.Info(logCtx, "outbox batch published")
	}
	return published, nil
}
