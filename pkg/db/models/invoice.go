package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/pkg/enums"
)

// Invoice is the billing document attached to exactly one order.
type Invoice struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number           string              `gorm:"column:number;not null;uniqueIndex"`
	ClientID         uuid.UUID           `gorm:"column:client_id;type:uuid;not null;index"`
	ParentDocumentID *uuid.UUID          `gorm:"column:parent_document_id;type:uuid;index"`
	Status           enums.InvoiceStatus `gorm:"column:status;type:text;not null;default:'DRAFT'"`
	TotalAmount      decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Subtotal         decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null;default:0"`
	TaxAmount        decimal.Decimal     `gorm:"column:tax_amount;type:numeric(12,2);not null;default:0"`
	CartData         *string             `gorm:"column:cart_data;type:text"`
	CartSessionID    *string             `gorm:"column:cart_session_id;index"`
	Comment          *string             `gorm:"column:comment"`
	CreatedBy        *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	Items            []DocumentItem      `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
