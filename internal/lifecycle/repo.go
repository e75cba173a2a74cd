package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/domeohq/doors-backend/pkg/enums"
)

// StatusRow is the minimal document projection the status machine needs.
type StatusRow struct {
	ID               uuid.UUID
	Number           string
	Status           string
	ClientID         *uuid.UUID
	ParentDocumentID *uuid.UUID
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindStatusRow(ctx context.Context, docType enums.DocumentType, documentID uuid.UUID) (*StatusRow, error)
	UpdateStatus(ctx context.Context, docType enums.DocumentType, documentID uuid.UUID, status string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func tableFor(docType enums.DocumentType) string {
	switch docType {
	case enums.DocumentTypeOrder:
		return "orders"
	case enums.DocumentTypeQuote:
		return "quotes"
	case enums.DocumentTypeInvoice:
		return "invoices"
	default:
		return "supplier_orders"
	}
}

func (r *repository) FindStatusRow(ctx context.Context, docType enums.DocumentType, documentID uuid.UUID) (*StatusRow, error) {
	var row StatusRow
	query := r.db.WithContext(ctx).Table(tableFor(docType)).Where("id = ?", documentID)

	if docType == enums.DocumentTypeOrder {
		query = query.Select("id, number, status, client_id, NULL AS parent_document_id")
	} else {
		query = query.Select("id, number, status, client_id, parent_document_id")
	}
	if err := query.Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpdateStatus(ctx context.Context, docType enums.DocumentType, documentID uuid.UUID, status string) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if docType == enums.DocumentTypeInvoice && enums.InvoiceStatus(status) == enums.InvoiceStatusPaid {
		updates["paid_at"] = time.Now().UTC()
	}
	return r.db.WithContext(ctx).
		Table(tableFor(docType)).
		Where("id = ?", documentID).
		Updates(updates).Error
}
