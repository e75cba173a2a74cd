package enums

import "fmt"

// InvoiceStatus tracks the lifecycle of a client Invoice. Statuses from PAID
// onward reflect the fulfillment side of the payment boundary.
type InvoiceStatus string

const (
	InvoiceStatusDraft                InvoiceStatus = "DRAFT"
	InvoiceStatusSent                 InvoiceStatus = "SENT"
	InvoiceStatusPaid                 InvoiceStatus = "PAID"
	InvoiceStatusOrdered              InvoiceStatus = "ORDERED"
	InvoiceStatusReceivedFromSupplier InvoiceStatus = "RECEIVED_FROM_SUPPLIER"
	InvoiceStatusCompleted            InvoiceStatus = "COMPLETED"
	InvoiceStatusCancelled            InvoiceStatus = "CANCELLED"
)

var validInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOrdered,
	InvoiceStatusReceivedFromSupplier,
	InvoiceStatusCompleted,
	InvoiceStatusCancelled,
}

// String implements fmt.Stringer.
func (i InvoiceStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoiceStatus.
func (i InvoiceStatus) IsValid() bool {
	for _, candidate := range validInvoiceStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// IsPrePayment reports whether the status precedes the payment boundary.
func (i InvoiceStatus) IsPrePayment() bool {
	return i == InvoiceStatusDraft || i == InvoiceStatusSent
}

// ParseInvoiceStatus converts raw input into an InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	for _, candidate := range validInvoiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice status %q", value)
}
