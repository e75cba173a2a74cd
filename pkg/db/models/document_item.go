package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/pkg/enums"
)

// DocumentItem captures the snapshot of a single line within any document.
// Rows are keyed by (document_type, document_id) so all four document kinds
// share one table.
type DocumentItem struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DocumentType  enums.DocumentType `gorm:"column:document_type;type:text;not null;index:idx_document_items_doc"`
	DocumentID    uuid.UUID          `gorm:"column:document_id;type:uuid;not null;index:idx_document_items_doc"`
	ProductID     *string            `gorm:"column:product_id"`
	HandleID      *string            `gorm:"column:handle_id"`
	Model         *string            `gorm:"column:model"`
	Style         *string            `gorm:"column:style"`
	SKU           *string            `gorm:"column:sku"`
	Finish        *string            `gorm:"column:finish"`
	Color         *string            `gorm:"column:color"`
	Width         *int               `gorm:"column:width"`
	Height        *int               `gorm:"column:height"`
	HardwareKitID *string            `gorm:"column:hardware_kit_id"`
	Quantity      int                `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice    decimal.Decimal    `gorm:"column:total_price;type:numeric(12,2);not null"`
	Notes         *string            `gorm:"column:notes"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}
