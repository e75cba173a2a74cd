package documents

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/domeohq/doors-backend/pkg/db/models"
	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/pagination"
)

// Repository defines persistence operations for the four document tables and
// their shared items table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// AcquireCreateLock serializes racing creation requests sharing the same
	// (type, parent, client) scope for the duration of the transaction.
	AcquireCreateLock(ctx context.Context, key string) error

	FindCandidates(ctx context.Context, query CandidateQuery) ([]Candidate, error)

	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateQuote(ctx context.Context, quote *models.Quote) error
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	CreateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error
	CreateItems(ctx context.Context, items []models.DocumentItem) error
	SetOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID) error

	FindDocument(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*DocumentView, error)
	FindRelated(ctx context.Context, orderID uuid.UUID) (*RelatedDocuments, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, docType *enums.DocumentType, params pagination.Params) (*ClientDocumentList, error)
}

// ClientChecker verifies a client exists before a document references it.
type ClientChecker interface {
	Exists(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (bool, error)
}
