package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/domeohq/doors-backend/pkg/db/models"
)

// Repository exposes the client lookups the document engine needs.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a clients repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Exists reports whether the client row is present. When tx is non-nil the
// check runs inside that transaction.
func (r *Repository) Exists(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	var count int64
	err := conn.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID loads one client.
func (r *Repository) FindByID(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("id = ?", clientID).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}
