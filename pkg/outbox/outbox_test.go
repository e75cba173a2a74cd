package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/domeohq/doors-backend/pkg/db/models"
	"github.com/domeohq/doors-backend/pkg/enums"
)

func setupOutbox(t *testing.T) (*gorm.DB, *Repository) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		published_at DATETIME,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	)`).Error)
	return conn, NewRepository(conn)
}

func TestEmitWrapsPayloadEnvelope(t *testing.T) {
	conn, repo := setupOutbox(t)
	svc := NewService(repo, nil)

	aggregateID := uuid.New()
	actorID := uuid.New()
	err := conn.Transaction(func(tx *gorm.DB) error {
		return svc.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.EventDocumentCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   aggregateID,
			Actor:         &ActorRef{UserID: actorID, Role: "COMPLECTATOR"},
			Data:          map[string]string{"number": "ORD-1"},
			Version:       1,
		})
	})
	require.NoError(t, err)

	var row models.OutboxEvent
	require.NoError(t, conn.First(&row).Error)
	assert.Equal(t, enums.EventDocumentCreated, row.EventType)
	assert.Equal(t, enums.AggregateOrder, row.AggregateType)
	assert.Equal(t, aggregateID, row.AggregateID)
	assert.Nil(t, row.PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	assert.False(t, envelope.OccurredAt.IsZero())
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, actorID, envelope.Actor.UserID)

	var data map[string]string
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "ORD-1", data["number"])
}

func TestEmitRequiresTransaction(t *testing.T) {
	_, repo := setupOutbox(t)
	svc := NewService(repo, nil)

	err := svc.Emit(context.Background(), nil, DomainEvent{
		EventType:     enums.EventDocumentCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Data:          map[string]string{},
	})
	assert.Error(t, err)
}

func TestFetchUnpublishedSkipsBurnedAttempts(t *testing.T) {
	conn, repo := setupOutbox(t)

	fresh := models.OutboxEvent{
		ID: uuid.New(), EventType: enums.EventDocumentCreated,
		AggregateType: enums.AggregateOrder, AggregateID: uuid.New(),
		Payload: json.RawMessage(`{}`),
	}
	burned := models.OutboxEvent{
		ID: uuid.New(), EventType: enums.EventDocumentCreated,
		AggregateType: enums.AggregateInvoice, AggregateID: uuid.New(),
		Payload: json.RawMessage(`{}`), AttemptCount: 10,
	}
	require.NoError(t, conn.Create(&fresh).Error)
	require.NoError(t, conn.Create(&burned).Error)

	rows, err := repo.FetchUnpublished(10, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)

	all, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMarkPublishedAndFailed(t *testing.T) {
	conn, repo := setupOutbox(t)

	event := models.OutboxEvent{
		ID: uuid.New(), EventType: enums.EventDocumentCreated,
		AggregateType: enums.AggregateOrder, AggregateID: uuid.New(),
		Payload: json.RawMessage(`{}`),
	}
	require.NoError(t, conn.Create(&event).Error)

	require.NoError(t, repo.MarkFailed(event.ID, errors.New("channel closed")))
	var row models.OutboxEvent
	require.NoError(t, conn.First(&row, "id = ?", event.ID).Error)
	assert.Equal(t, 1, row.AttemptCount)
	require.NotNil(t, row.LastError)
	assert.Equal(t, "channel closed", *row.LastError)
	assert.Nil(t, row.PublishedAt)

	require.NoError(t, repo.MarkPublished(event.ID))
	require.NoError(t, conn.First(&row, "id = ?", event.ID).Error)
	assert.NotNil(t, row.PublishedAt)

	rows, err := repo.FetchUnpublished(10, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
