package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/pkg/enums"
)

// CreateDocumentInput carries everything needed to create one document from a
// cart snapshot. Items keep their raw shape; normalization owns field reading.
type CreateDocumentInput struct {
	Type              enums.DocumentType
	ParentDocumentID  *uuid.UUID
	CartSessionID     *string
	ClientID          *uuid.UUID
	Items             []map[string]any
	TotalAmount       decimal.Decimal
	Subtotal          decimal.Decimal
	TaxAmount         decimal.Decimal
	Comment           *string
	PreventDuplicates bool
	CreatedBy         uuid.UUID
	ActorRole         enums.UserRole
}

// CreateDocumentResult reports the created or matched document.
type CreateDocumentResult struct {
	DocumentID       uuid.UUID          `json:"document_id"`
	Number           string             `json:"document_number"`
	Type             enums.DocumentType `json:"type"`
	ParentDocumentID *uuid.UUID         `json:"parent_document_id,omitempty"`
	CartSessionID    string             `json:"cart_session_id"`
	Status           string             `json:"status"`
	IsNew            bool               `json:"is_new"`
	CreatedAt        time.Time          `json:"created_at"`
}

// Candidate is the lightweight projection the duplicate search works on.
type Candidate struct {
	ID            uuid.UUID
	Number        string
	Status        string
	CartData      *string
	CartSessionID *string
	CreatedAt     time.Time
}

// CandidateQuery scopes a duplicate-candidate lookup. Parent and session
// filters distinguish "unset" from "must be null", so each carries its own
// enable flag.
type CandidateQuery struct {
	Type          enums.DocumentType
	ClientID      *uuid.UUID
	Parent        *uuid.UUID
	FilterParent  bool
	Session       *string
	FilterSession bool
	TotalExact    *decimal.Decimal
	TotalMin      *decimal.Decimal
	TotalMax      *decimal.Decimal
	Limit         int
}

// ItemView is the read-side projection of one document line.
type ItemView struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  *string         `json:"product_id,omitempty"`
	HandleID   *string         `json:"handle_id,omitempty"`
	Model      *string         `json:"model,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Notes      *string         `json:"notes,omitempty"`
}

// DocumentView is the read-side projection of one document with its items.
type DocumentView struct {
	ID               uuid.UUID          `json:"id"`
	Number           string             `json:"number"`
	Type             enums.DocumentType `json:"type"`
	Status           string             `json:"status"`
	ClientID         uuid.UUID          `json:"client_id"`
	ParentDocumentID *uuid.UUID         `json:"parent_document_id,omitempty"`
	CartSessionID    *string            `json:"cart_session_id,omitempty"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	TaxAmount        decimal.Decimal    `json:"tax_amount"`
	Comment          *string            `json:"comment,omitempty"`
	Items            []ItemView         `json:"items"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// DocumentSummary is the compact listing row used by related/client views.
type DocumentSummary struct {
	ID          uuid.UUID          `json:"id"`
	Number      string             `json:"number"`
	Type        enums.DocumentType `json:"type"`
	Status      string             `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	CreatedAt   time.Time          `json:"created_at"`
}

// RelatedDocuments groups every document hanging off one Order.
type RelatedDocuments struct {
	Order          *DocumentSummary  `json:"order,omitempty"`
	Quotes         []DocumentSummary `json:"quotes"`
	Invoices       []DocumentSummary `json:"invoices"`
	SupplierOrders []DocumentSummary `json:"supplier_orders"`
}

// ClientDocumentList is one page of a client's documents across all types.
type ClientDocumentList struct {
	Documents  []DocumentSummary `json:"documents"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
