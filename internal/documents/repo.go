package documents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/domeohq/doors-backend/pkg/db/models"
	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a documents repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
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

// AcquireCreateLock takes a transaction-scoped advisory lock keyed by the
// creation scope. On dialects without advisory locks this is a no-op; tests
// run on SQLite where a single writer already serializes creation.
func (r *repository) AcquireCreateLock(ctx context.Context, key string) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

func (r *repository) FindCandidates(ctx context.Context, query CandidateQuery) ([]Candidate, error) {
	q := r.db.WithContext(ctx).
		Table(tableFor(query.Type)).
		Select("id", "number", "status", "cart_data", "cart_session_id", "created_at").
		Order("created_at DESC")

	if query.ClientID != nil {
		q = q.Where("client_id = ?", *query.ClientID)
	}
	// Orders are always roots and carry no parent column at all.
	if query.FilterParent && query.Type != enums.DocumentTypeOrder {
		if query.Parent == nil {
			q = q.Where("parent_document_id IS NULL")
		} else {
			q = q.Where("parent_document_id = ?", *query.Parent)
		}
	}
	if query.FilterSession {
		if query.Session == nil {
			q = q.Where("cart_session_id IS NULL")
		} else {
			q = q.Where("cart_session_id = ?", *query.Session)
		}
	}
	if query.TotalExact != nil {
		q = q.Where("total_amount = ?", *query.TotalExact)
	}
	if query.TotalMin != nil {
		q = q.Where("total_amount >= ?", *query.TotalMin)
	}
	if query.TotalMax != nil {
		q = q.Where("total_amount <= ?", *query.TotalMax)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var rows []Candidate
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *repository) CreateQuote(ctx context.Context, quote *models.Quote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Items").Create(quote).Error
}

func (r *repository) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Items").Create(invoice).Error
}

func (r *repository) CreateSupplierOrder(ctx context.Context, supplierOrder *models.SupplierOrder) error {
	if supplierOrder.ID == uuid.Nil {
		supplierOrder.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Items").Create(supplierOrder).Error
}

func (r *repository) CreateItems(ctx context.Context, items []models.DocumentItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) SetOrderInvoice(ctx context.Context, orderID, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("invoice_id", invoiceID).Error
}

func (r *repository) FindDocument(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*DocumentView, error) {
	var view *DocumentView

	switch docType {
	case enums.DocumentTypeOrder:
		var row models.Order
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
			return nil, err
		}
		view = &DocumentView{
			ID: row.ID, Number: row.Number, Type: docType, Status: string(row.Status),
			ClientID: row.ClientID, CartSessionID: row.CartSessionID,
			TotalAmount: row.TotalAmount, Subtotal: row.Subtotal, TaxAmount: row.TaxAmount,
			Comment: row.Comment, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		}
	case enums.DocumentTypeQuote:
		var row models.Quote
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
			return nil, err
		}
		view = &DocumentView{
			ID: row.ID, Number: row.Number, Type: docType, Status: string(row.Status),
			ClientID: row.ClientID, ParentDocumentID: row.ParentDocumentID, CartSessionID: row.CartSessionID,
			TotalAmount: row.TotalAmount, Subtotal: row.Subtotal, TaxAmount: row.TaxAmount,
			Comment: row.Comment, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		}
	case enums.DocumentTypeInvoice:
		var row models.Invoice
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
			return nil, err
		}
		view = &DocumentView{
			ID: row.ID, Number: row.Number, Type: docType, Status: string(row.Status),
			ClientID: row.ClientID, ParentDocumentID: row.ParentDocumentID, CartSessionID: row.CartSessionID,
			TotalAmount: row.TotalAmount, Subtotal: row.Subtotal, TaxAmount: row.TaxAmount,
			Comment: row.Comment, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		}
	default:
		var row models.SupplierOrder
		if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
			return nil, err
		}
		var clientID uuid.UUID
		if row.ClientID != nil {
			clientID = *row.ClientID
		}
		view = &DocumentView{
			ID: row.ID, Number: row.Number, Type: docType, Status: string(row.Status),
			ClientID: clientID, ParentDocumentID: row.ParentDocumentID, CartSessionID: row.CartSessionID,
			TotalAmount: row.TotalAmount, Subtotal: row.Subtotal, TaxAmount: row.TaxAmount,
			Comment: row.Comment, CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
		}
	}

	var items []models.DocumentItem
	err := r.db.WithContext(ctx).
		Where("document_type = ? AND document_id = ?", docType, id).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		view.Items = append(view.Items, ItemView{
			ID:         item.ID,
			ProductID:  item.ProductID,
			HandleID:   item.HandleID,
			Model:      item.Model,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Notes:      item.Notes,
		})
	}
	return view, nil
}

func (r *repository) FindRelated(ctx context.Context, orderID uuid.UUID) (*RelatedDocuments, error) {
	order, err := r.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	related := &RelatedDocuments{
		Order: &DocumentSummary{
			ID:          order.ID,
			Number:      order.Number,
			Type:        enums.DocumentTypeOrder,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
			CreatedAt:   order.CreatedAt,
		},
		Quotes:         []DocumentSummary{},
		Invoices:       []DocumentSummary{},
		SupplierOrders: []DocumentSummary{},
	}

	children := []struct {
		docType enums.DocumentType
		dest    *[]DocumentSummary
	}{
		{enums.DocumentTypeQuote, &related.Quotes},
		{enums.DocumentTypeInvoice, &related.Invoices},
		{enums.DocumentTypeSupplierOrder, &related.SupplierOrders},
	}
	for _, child := range children {
		var rows []childRow
		err := r.db.WithContext(ctx).
			Table(tableFor(child.docType)).
			Select("id", "number", "status", "total_amount", "created_at").
			Where("parent_document_id = ?", orderID).
			Order("created_at DESC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			*child.dest = append(*child.dest, DocumentSummary{
				ID:          row.ID,
				Number:      row.Number,
				Type:        child.docType,
				Status:      row.Status,
				TotalAmount: row.TotalAmount,
				CreatedAt:   row.CreatedAt,
			})
		}
	}
	return related, nil
}

type childRow struct {
	ID          uuid.UUID
	Number      string
	Status      string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

type clientDocRow struct {
	ID          uuid.UUID
	Number      string
	DocType     string
	Status      string
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

const clientDocsQuery = `
SELECT id, number, 'order' AS doc_type, status, total_amount, created_at FROM orders WHERE client_id = @client
UNION ALL
SELECT id, number, 'quote' AS doc_type, status, total_amount, created_at FROM quotes WHERE client_id = @client
UNION ALL
SELECT id, number, 'invoice' AS doc_type, status, total_amount, created_at FROM invoices WHERE client_id = @client
UNION ALL
SELECT id, number, 'supplier_order' AS doc_type, status, total_amount, created_at FROM supplier_orders WHERE client_id = @client
`

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID, docType *enums.DocumentType, params pagination.Params) (*ClientDocumentList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.LimitWithBuffer(params.Limit)

	sub := r.db.WithContext(ctx).Raw(clientDocsQuery, map[string]any{"client": clientID})
	q := r.db.WithContext(ctx).
		Table("(?) AS docs", sub).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if docType != nil {
		q = q.Where("doc_type = ?", string(*docType))
	}
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []clientDocRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &ClientDocumentList{Documents: []DocumentSummary{}}
	pageSize := pagination.NormalizeLimit(params.Limit)
	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}
	for _, row := range rows {
		list.Documents = append(list.Documents, DocumentSummary{
			ID:          row.ID,
			Number:      row.Number,
			Type:        enums.DocumentType(row.DocType),
			Status:      row.Status,
			TotalAmount: row.TotalAmount,
			CreatedAt:   row.CreatedAt,
		})
	}
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}
