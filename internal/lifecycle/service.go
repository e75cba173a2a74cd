package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/domeohq/doors-backend/internal/documents"
	"github.com/domeohq/doors-backend/pkg/enums"
	pkgerrors "github.com/domeohq/doors-backend/pkg/errors"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/metrics"
	"github.com/domeohq/doors-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// TransitionInput carries one status change request.
type TransitionInput struct {
	Type       enums.DocumentType
	DocumentID uuid.UUID
	NewStatus  string
	ActorID    uuid.UUID
	ActorRole  enums.UserRole
}

// TransitionResult reports the applied change.
type TransitionResult struct {
	DocumentID     uuid.UUID          `json:"document_id"`
	DocumentNumber string             `json:"document_number"`
	Type           enums.DocumentType `json:"type"`
	FromStatus     string             `json:"from_status"`
	ToStatus       string             `json:"to_status"`
	Changed        bool               `json:"changed"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// DocumentStatusChangedEvent is the outbox payload for an applied transition.
type DocumentStatusChangedEvent struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Number     string             `json:"number"`
	Type       enums.DocumentType `json:"type"`
	FromStatus string             `json:"from_status"`
	ToStatus   string             `json:"to_status"`
}

// Service applies role-gated status transitions.
type Service interface {
	Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	cache   *documents.Cache
	metrics *metrics.DocumentMetrics
	logg    *logger.Logger
}

// NewService builds a lifecycle service. Cache, metrics and logger are optional.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, cache *documents.Cache, docMetrics *metrics.DocumentMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lifecycle repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		outbox:  outboxSvc,
		cache:   cache,
		metrics: docMetrics,
		logg:    logg,
	}, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown document type %q", string(input.Type))
	}
	if input.DocumentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document id is required")
	}
	if !input.ActorRole.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown role %q", string(input.ActorRole))
	}
	nextStatus, err := ParseStatus(input.Type, input.NewStatus)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid target status")
	}

	if s.logg != nil {
		ctx = s.logg.WithDocument(ctx, string(input.Type), input.DocumentID.String())
		ctx = s.logg.WithActorRole(ctx, string(input.ActorRole))
	}

	var result *TransitionResult
	var clientID *uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		row, err := repo.FindStatusRow(ctx, input.Type, input.DocumentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "%s %s not found", string(input.Type), input.DocumentID)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document status")
		}
		clientID = row.ClientID

		if !CanActorTransition(input.ActorRole, input.Type, row.Status) {
			s.metrics.IncTransitionDenied(string(input.Type), "role")
			return pkgerrors.Newf(pkgerrors.CodeForbidden,
				"role %s may not change %s %s in status %s",
				string(input.ActorRole), string(input.Type), row.Number, row.Status)
		}

		result = &TransitionResult{
			DocumentID:     row.ID,
			DocumentNumber: row.Number,
			Type:           input.Type,
			FromStatus:     row.Status,
			ToStatus:       nextStatus,
			UpdatedAt:      time.Now().UTC(),
		}
		if row.Status == nextStatus {
			return nil
		}

		if !CanTransition(input.Type, row.Status, nextStatus) {
			s.metrics.IncTransitionDenied(string(input.Type), "edge")
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"%s %s cannot move from %s to %s",
				string(input.Type), row.Number, row.Status, nextStatus)
		}

		if err := repo.UpdateStatus(ctx, input.Type, input.DocumentID, nextStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document status")
		}
		result.Changed = true

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDocumentStatusChanged,
			AggregateType: enums.AggregateForDocument(input.Type),
			AggregateID:   input.DocumentID,
			Actor:         &outbox.ActorRef{UserID: input.ActorID, Role: string(input.ActorRole)},
			Data: DocumentStatusChangedEvent{
				DocumentID: row.ID,
				Number:     row.Number,
				Type:       input.Type,
				FromStatus: row.Status,
				ToStatus:   nextStatus,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		if s.metrics != nil {
			s.metrics.IncTransition(string(input.Type), result.ToStatus)
		}
		s.invalidateAfterWrite(ctx, input, clientID)
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"from_status": result.FromStatus,
				"to_status":   result.ToStatus,
			}), "document status changed")
		}
	}
	return result, nil
}

func (s *service) invalidateAfterWrite(ctx context.Context, input TransitionInput, clientID *uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateDocument(ctx, input.Type, input.DocumentID.String())
	s.cache.InvalidateType(ctx, input.Type)
	if clientID != nil {
		s.cache.InvalidateClient(ctx, clientID.String())
	}
}
