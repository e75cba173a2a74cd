package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column in outbox_events.
type OutboxAggregateType string

const (
	AggregateOrder         OutboxAggregateType = "order"
	AggregateQuote         OutboxAggregateType = "quote"
	AggregateInvoice       OutboxAggregateType = "invoice"
	AggregateSupplierOrder OutboxAggregateType = "supplier_order"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateQuote,
	AggregateInvoice,
	AggregateSupplierOrder,
}

// IsValid reports whether the value matches the canonical aggregate_type set.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// AggregateForDocument maps a document type onto its outbox aggregate.
func AggregateForDocument(docType DocumentType) OutboxAggregateType {
	return OutboxAggregateType(docType)
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column in outbox_events.
type OutboxEventType string

const (
	EventDocumentCreated       OutboxEventType = "document_created"
	EventDocumentDeduplicated  OutboxEventType = "document_deduplicated"
	EventDocumentStatusChanged OutboxEventType = "document_status_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventDocumentCreated,
	EventDocumentDeduplicated,
	EventDocumentStatusChanged,
}

// IsValid reports whether the value matches the canonical event_type set.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
