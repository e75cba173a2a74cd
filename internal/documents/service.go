package documents

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/domeohq/doors-backend/pkg/enums"
	"github.com/domeohq/doors-backend/pkg/db/models"
	pkgerrors "github.com/domeohq/doors-backend/pkg/errors"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/metrics"
	"github.com/domeohq/doors-backend/pkg/outbox"
	"github.com/domeohq/doors-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines document creation and read operations.
type Service interface {
	Create(ctx context.Context, input CreateDocumentInput) (*CreateDocumentResult, error)
	Get(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*DocumentView, error)
	Related(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*RelatedDocuments, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, docType *enums.DocumentType, params pagination.Params) (*ClientDocumentList, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	resolver *Resolver
	clients  ClientChecker
	cache    *Cache
	metrics  *metrics.DocumentMetrics
	logg     *logger.Logger
}

// DocumentCreatedEvent is emitted when a brand-new document is persisted.
type DocumentCreatedEvent struct {
	DocumentID       uuid.UUID          `json:"document_id"`
	Number           string             `json:"number"`
	Type             enums.DocumentType `json:"type"`
	ParentDocumentID *uuid.UUID         `json:"parent_document_id,omitempty"`
	ClientID         *uuid.UUID         `json:"client_id,omitempty"`
	CartSessionID    string             `json:"cart_session_id"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
}

// DocumentDeduplicatedEvent is emitted when creation resolved to an existing document.
type DocumentDeduplicatedEvent struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Number     string             `json:"number"`
	Type       enums.DocumentType `json:"type"`
	MatchPhase string             `json:"match_phase"`
}

// NewService builds a documents service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher, resolver *Resolver, clients ClientChecker, cache *Cache, docMetrics *metrics.DocumentMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("duplicate resolver required")
	}
	if clients == nil {
		return nil, fmt.Errorf("client checker required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   outboxSvc,
		resolver: resolver,
		clients:  clients,
		cache:    cache,
		metrics:  docMetrics,
		logg:     logg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateDocumentInput) (*CreateDocumentResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	started := time.Now()
	normalized := NormalizeItems(input.Items)

	sessionID := ""
	if input.CartSessionID != nil && *input.CartSessionID != "" {
		sessionID = *input.CartSessionID
	} else {
		clientKey := ""
		if input.ClientID != nil {
			clientKey = input.ClientID.String()
		}
		sessionID = GenerateCartSessionID(clientKey, input.Items, input.TotalAmount)
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"document_type": input.Type,
			"items_count":   len(input.Items),
		})
		s.logg.Info(logCtx, "document creation requested")

		// Historical snapshots carry rounding drift, so a mismatch between
		// the item sum and the stated total is logged rather than rejected.
		if drift := itemsTotal(normalized).Sub(input.TotalAmount).Abs(); drift.GreaterThan(decimal.NewFromFloat(0.01)) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"document_type": input.Type,
				"stated_total":  input.TotalAmount.String(),
				"items_total":   itemsTotal(normalized).String(),
			}), "item sum does not match stated total")
		}
	}

	var result *CreateDocumentResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.AcquireCreateLock(ctx, creationLockKey(input)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire creation lock")
		}

		if input.PreventDuplicates {
			existing, phase, err := s.resolver.Find(ctx, repo, input.Type, input.ParentDocumentID, &sessionID, input.ClientID, normalized, input.TotalAmount)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "duplicate search")
			}
			if existing != nil {
				result = &CreateDocumentResult{
					DocumentID:       existing.ID,
					Number:           existing.Number,
					Type:             input.Type,
					ParentDocumentID: input.ParentDocumentID,
					CartSessionID:    sessionID,
					Status:           existing.Status,
					IsNew:            false,
					CreatedAt:        existing.CreatedAt,
				}
				s.metrics.IncDeduplicated(string(input.Type), phase)
				return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
					EventType:     enums.EventDocumentDeduplicated,
					AggregateType: enums.AggregateForDocument(input.Type),
					AggregateID:   existing.ID,
					Version:       1,
					Actor:         s.buildActor(input),
					Data: DocumentDeduplicatedEvent{
						DocumentID: existing.ID,
						Number:     existing.Number,
						Type:       input.Type,
						MatchPhase: phase,
					},
				})
			}
		}

		if err := s.checkRelations(ctx, repo, input); err != nil {
			return err
		}

		if input.ClientID != nil {
			ok, err := s.clients.Exists(ctx, tx, *input.ClientID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check client")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("client %s not found", input.ClientID)).
					WithDetails(map[string]any{"client_id": input.ClientID.String()})
			}
		}

		created, err := s.persistDocument(ctx, repo, input, sessionID)
		if err != nil {
			return err
		}
		result = created

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDocumentCreated,
			AggregateType: enums.AggregateForDocument(input.Type),
			AggregateID:   created.DocumentID,
			Version:       1,
			Actor:         s.buildActor(input),
			Data: DocumentCreatedEvent{
				DocumentID:       created.DocumentID,
				Number:           created.Number,
				Type:             input.Type,
				ParentDocumentID: input.ParentDocumentID,
				ClientID:         input.ClientID,
				CartSessionID:    sessionID,
				TotalAmount:      input.TotalAmount,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCreateDuration(string(input.Type), time.Since(started))
	if result.IsNew {
		s.metrics.IncCreated(string(input.Type))
	}
	s.invalidateAfterWrite(ctx, input.Type, input.ParentDocumentID, input.ClientID)
	return result, nil
}

func itemsTotal(items []CanonicalItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func validateCreateInput(input CreateDocumentInput) error {
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid document type %q", input.Type))
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "items required")
	}
	if input.TotalAmount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total amount must not be negative")
	}
	if input.Type != enums.DocumentTypeSupplierOrder && input.ClientID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	if input.Type == enums.DocumentTypeOrder && input.ParentDocumentID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "orders are root documents and cannot reference a parent")
	}
	return nil
}

// checkRelations enforces the Order-rooted hierarchy before any row is written.
func (s *service) checkRelations(ctx context.Context, repo Repository, input CreateDocumentInput) error {
	if input.ParentDocumentID == nil {
		return nil
	}

	parent, err := repo.FindOrderByID(ctx, *input.ParentDocumentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound,
				fmt.Sprintf("order %s not found; a %s must be created from an order", input.ParentDocumentID, input.Type)).
				WithDetails(map[string]any{"parent_document_id": input.ParentDocumentID.String()})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent order")
	}

	if input.Type == enums.DocumentTypeInvoice && parent.InvoiceID != nil {
		existingNumber := ""
		if existing, err := repo.FindDocument(ctx, enums.DocumentTypeInvoice, *parent.InvoiceID); err == nil {
			existingNumber = existing.Number
		}
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("order %s already has invoice %s; one order may have only one invoice", parent.Number, existingNumber)).
			WithDetails(map[string]any{
				"order_id":       parent.ID.String(),
				"invoice_id":     parent.InvoiceID.String(),
				"invoice_number": existingNumber,
			})
	}
	return nil
}

func (s *service) persistDocument(ctx context.Context, repo Repository, input CreateDocumentInput, sessionID string) (*CreateDocumentResult, error) {
	number := generateNumber(input.Type)
	cartData := serializeCartData(input.Items)
	session := sessionID

	var createdBy *uuid.UUID
	if input.CreatedBy != uuid.Nil {
		actor := input.CreatedBy
		createdBy = &actor
	}

	var (
		docID  uuid.UUID
		status string
	)

	switch input.Type {
	case enums.DocumentTypeOrder:
		row := &models.Order{
			Number:        number,
			ClientID:      *input.ClientID,
			Status:        enums.OrderStatusNewPlanned,
			TotalAmount:   input.TotalAmount,
			Subtotal:      input.Subtotal,
			TaxAmount:     input.TaxAmount,
			CartData:      &cartData,
			CartSessionID: &session,
			Comment:       input.Comment,
			CreatedBy:     createdBy,
		}
		if err := repo.CreateOrder(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		docID, status = row.ID, string(row.Status)

	case enums.DocumentTypeQuote:
		row := &models.Quote{
			Number:           number,
			ClientID:         *input.ClientID,
			ParentDocumentID: input.ParentDocumentID,
			Status:           enums.QuoteStatusDraft,
			TotalAmount:      input.TotalAmount,
			Subtotal:         input.Subtotal,
			TaxAmount:        input.TaxAmount,
			CartData:         &cartData,
			CartSessionID:    &session,
			Comment:          input.Comment,
			CreatedBy:        createdBy,
		}
		if err := repo.CreateQuote(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
		}
		docID, status = row.ID, string(row.Status)

	case enums.DocumentTypeInvoice:
		row := &models.Invoice{
			Number:           number,
			ClientID:         *input.ClientID,
			ParentDocumentID: input.ParentDocumentID,
			Status:           enums.InvoiceStatusDraft,
			TotalAmount:      input.TotalAmount,
			Subtotal:         input.Subtotal,
			TaxAmount:        input.TaxAmount,
			CartData:         &cartData,
			CartSessionID:    &session,
			Comment:          input.Comment,
			CreatedBy:        createdBy,
		}
		if err := repo.CreateInvoice(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
		}
		// The order's back-reference commits or rolls back together with the
		// invoice row; a reader never sees one without the other.
		if input.ParentDocumentID != nil {
			if err := repo.SetOrderInvoice(ctx, *input.ParentDocumentID, row.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link invoice to order")
			}
		}
		docID, status = row.ID, string(row.Status)

	default:
		row := &models.SupplierOrder{
			Number:           number,
			ClientID:         input.ClientID,
			ParentDocumentID: input.ParentDocumentID,
			Status:           enums.SupplierOrderStatusPending,
			TotalAmount:      input.TotalAmount,
			Subtotal:         input.Subtotal,
			TaxAmount:        input.TaxAmount,
			CartData:         &cartData,
			CartSessionID:    &session,
			Comment:          input.Comment,
			CreatedBy:        createdBy,
		}
		if err := repo.CreateSupplierOrder(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier order")
		}
		docID, status = row.ID, string(row.Status)
	}

	if err := repo.CreateItems(ctx, buildItems(input.Type, docID, input.Items)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document items")
	}

	return &CreateDocumentResult{
		DocumentID:       docID,
		Number:           number,
		Type:             input.Type,
		ParentDocumentID: input.ParentDocumentID,
		CartSessionID:    sessionID,
		Status:           status,
		IsNew:            true,
		CreatedAt:        time.Now(),
	}, nil
}

func (s *service) buildActor(input CreateDocumentInput) *outbox.ActorRef {
	if input.CreatedBy == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: input.CreatedBy, Role: string(input.ActorRole)}
}

func (s *service) invalidateAfterWrite(ctx context.Context, docType enums.DocumentType, parent *uuid.UUID, clientID *uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.InvalidateType(ctx, docType)
	if parent != nil {
		s.cache.InvalidateDocument(ctx, enums.DocumentTypeOrder, parent.String())
	}
	if clientID != nil {
		s.cache.InvalidateClient(ctx, clientID.String())
	}
}

func creationLockKey(input CreateDocumentInput) string {
	parent := ""
	if input.ParentDocumentID != nil {
		parent = input.ParentDocumentID.String()
	}
	client := ""
	if input.ClientID != nil {
		client = input.ClientID.String()
	}
	return fmt.Sprintf("doc_create:%s:%s:%s", input.Type, parent, client)
}

func generateNumber(docType enums.DocumentType) string {
	return fmt.Sprintf("%s-%d", docType.NumberPrefix(), time.Now().UnixMilli())
}

// serializeCartData snapshots the raw items. A snapshot failure falls back to
// the reduced canonical projection instead of failing the creation.
func serializeCartData(items []map[string]any) string {
	raw, err := json.Marshal(items)
	if err == nil {
		return string(raw)
	}
	reduced, err := json.Marshal(NormalizeItems(items))
	if err != nil {
		return "[]"
	}
	return string(reduced)
}

func buildItems(docType enums.DocumentType, docID uuid.UUID, items []map[string]any) []models.DocumentItem {
	rows := make([]models.DocumentItem, 0, len(items))
	for _, item := range items {
		quantity := intField(item, 1, quantityKeys...)
		unitPrice := decimalField(item, "unitPrice", "price", "unit_price")

		row := models.DocumentItem{
			DocumentType:  docType,
			DocumentID:    docID,
			ProductID:     optionalString(stringField(item, "productId", "product_id")),
			HandleID:      optionalString(stringField(item, "handleId")),
			Model:         optionalString(stringField(item, modelKeys...)),
			Style:         optionalString(stringField(item, "style")),
			SKU:           optionalString(stringField(item, skuKeys...)),
			Finish:        optionalString(stringField(item, "finish")),
			Color:         optionalString(stringField(item, "color")),
			HardwareKitID: optionalString(stringField(item, "hardwareKitId")),
			Quantity:      quantity,
			UnitPrice:     unitPrice,
			TotalPrice:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
			Notes:         optionalString(stringField(item, "name", "model")),
		}
		if width := intField(item, 0, "width"); width != 0 {
			row.Width = &width
		}
		if height := intField(item, 0, "height"); height != 0 {
			row.Height = &height
		}
		rows = append(rows, row)
	}
	return rows
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func (s *service) Get(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*DocumentView, error) {
	if !docType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid document type %q", docType))
	}
	if cached := s.cache.GetDocument(ctx, docType, id.String()); cached != nil {
		return cached, nil
	}

	view, err := s.repo.FindDocument(ctx, docType, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	s.cache.SetDocument(ctx, view)
	return view, nil
}

func (s *service) Related(ctx context.Context, docType enums.DocumentType, id uuid.UUID) (*RelatedDocuments, error) {
	if !docType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid document type %q", docType))
	}

	orderID := id
	if docType != enums.DocumentTypeOrder {
		view, err := s.repo.FindDocument(ctx, docType, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
		}
		if view.ParentDocumentID == nil {
			return &RelatedDocuments{
				Quotes:         []DocumentSummary{},
				Invoices:       []DocumentSummary{},
				SupplierOrders: []DocumentSummary{},
			}, nil
		}
		orderID = *view.ParentDocumentID
	}

	if cached := s.cache.GetRelated(ctx, enums.DocumentTypeOrder, orderID.String()); cached != nil {
		return cached, nil
	}

	related, err := s.repo.FindRelated(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load related documents")
	}
	s.cache.SetRelated(ctx, enums.DocumentTypeOrder, orderID.String(), related)
	return related, nil
}

func (s *service) ListByClient(ctx context.Context, clientID uuid.UUID, docType *enums.DocumentType, params pagination.Params) (*ClientDocumentList, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	list, err := s.repo.ListByClient(ctx, clientID, docType, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list client documents")
	}
	return list, nil
}
