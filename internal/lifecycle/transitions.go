package lifecycle

import (
	"github.com/domeohq/doors-backend/pkg/enums"
)

// Per-type transition tables. A missing source status means no transition is
// allowed out of it.
var quoteTransitions = map[enums.QuoteStatus][]enums.QuoteStatus{
	enums.QuoteStatusDraft:    {enums.QuoteStatusSent},
	enums.QuoteStatusSent:     {enums.QuoteStatusAccepted, enums.QuoteStatusRejected},
	enums.QuoteStatusAccepted: {enums.QuoteStatusSent, enums.QuoteStatusRejected},
	enums.QuoteStatusRejected: {enums.QuoteStatusSent},
}

var invoiceTransitions = map[enums.InvoiceStatus][]enums.InvoiceStatus{
	enums.InvoiceStatusDraft:                {enums.InvoiceStatusSent, enums.InvoiceStatusCancelled},
	enums.InvoiceStatusSent:                 {enums.InvoiceStatusPaid, enums.InvoiceStatusCancelled},
	enums.InvoiceStatusPaid:                 {enums.InvoiceStatusOrdered, enums.InvoiceStatusCancelled},
	enums.InvoiceStatusOrdered:              {enums.InvoiceStatusReceivedFromSupplier, enums.InvoiceStatusCancelled},
	enums.InvoiceStatusReceivedFromSupplier: {enums.InvoiceStatusCompleted, enums.InvoiceStatusCancelled},
}

var orderTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusNewPlanned:          {enums.OrderStatusUnderReview, enums.OrderStatusCancelled},
	enums.OrderStatusUnderReview:         {enums.OrderStatusAwaitingMeasurement, enums.OrderStatusCancelled},
	enums.OrderStatusAwaitingMeasurement: {enums.OrderStatusAwaitingInvoice, enums.OrderStatusCancelled},
	enums.OrderStatusAwaitingInvoice:     {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:           {enums.OrderStatusInProduction, enums.OrderStatusCancelled},
	enums.OrderStatusInProduction:        {enums.OrderStatusReady, enums.OrderStatusCancelled},
	enums.OrderStatusReady:               {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
}

var supplierOrderTransitions = map[enums.SupplierOrderStatus][]enums.SupplierOrderStatus{
	enums.SupplierOrderStatusPending:      {enums.SupplierOrderStatusOrdered, enums.SupplierOrderStatusCancelled},
	enums.SupplierOrderStatusOrdered:      {enums.SupplierOrderStatusInProduction, enums.SupplierOrderStatusCancelled},
	enums.SupplierOrderStatusInProduction: {enums.SupplierOrderStatusReady, enums.SupplierOrderStatusCancelled},
	enums.SupplierOrderStatusReady:        {enums.SupplierOrderStatusCompleted, enums.SupplierOrderStatusCancelled},
}

// CanTransition reports whether the state machine for docType permits moving
// from current to next. Unknown statuses never transition.
func CanTransition(docType enums.DocumentType, current, next string) bool {
	switch docType {
	case enums.DocumentTypeQuote:
		return contains(quoteTransitions[enums.QuoteStatus(current)], enums.QuoteStatus(next))
	case enums.DocumentTypeInvoice:
		return contains(invoiceTransitions[enums.InvoiceStatus(current)], enums.InvoiceStatus(next))
	case enums.DocumentTypeOrder:
		return contains(orderTransitions[enums.OrderStatus(current)], enums.OrderStatus(next))
	case enums.DocumentTypeSupplierOrder:
		return contains(supplierOrderTransitions[enums.SupplierOrderStatus(current)], enums.SupplierOrderStatus(next))
	default:
		return false
	}
}

// ParseStatus validates a raw status value against its document type.
func ParseStatus(docType enums.DocumentType, value string) (string, error) {
	switch docType {
	case enums.DocumentTypeQuote:
		status, err := enums.ParseQuoteStatus(value)
		return string(status), err
	case enums.DocumentTypeInvoice:
		status, err := enums.ParseInvoiceStatus(value)
		return string(status), err
	case enums.DocumentTypeOrder:
		status, err := enums.ParseOrderStatus(value)
		return string(status), err
	default:
		status, err := enums.ParseSupplierOrderStatus(value)
		return string(status), err
	}
}

func contains[T comparable](list []T, value T) bool {
	for _, candidate := range list {
		if candidate == value {
			return true
		}
	}
	return false
}
