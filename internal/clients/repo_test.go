package clients

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupClientsRepo(t *testing.T) *Repository {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE clients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		address TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error)
	return NewRepository(conn)
}

func TestExists(t *testing.T) {
	repo := setupClientsRepo(t)
	ctx := context.Background()
	clientID := uuid.New()

	require.NoError(t, repo.db.Exec(
		`INSERT INTO clients (id, name, created_at, updated_at) VALUES (?, ?, datetime('now'), datetime('now'))`,
		clientID.String(), "Ivanova Ltd",
	).Error)

	ok, err := repo.Exists(ctx, nil, clientID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, nil, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindByID(t *testing.T) {
	repo := setupClientsRepo(t)
	ctx := context.Background()
	clientID := uuid.New()

	require.NoError(t, repo.db.Exec(
		`INSERT INTO clients (id, name, phone, created_at, updated_at) VALUES (?, ?, ?, datetime('now'), datetime('now'))`,
		clientID.String(), "Petrov", "+7 900 000 00 00",
	).Error)

	client, err := repo.FindByID(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, "Petrov", client.Name)
	require.NotNil(t, client.Phone)
	assert.Equal(t, "+7 900 000 00 00", *client.Phone)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
