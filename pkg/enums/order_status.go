package enums

import "fmt"

// OrderStatus tracks the lifecycle of a client Order, the hierarchy root.
type OrderStatus string

const (
	OrderStatusNewPlanned          OrderStatus = "NEW_PLANNED"
	OrderStatusUnderReview         OrderStatus = "UNDER_REVIEW"
	OrderStatusAwaitingMeasurement OrderStatus = "AWAITING_MEASUREMENT"
	OrderStatusAwaitingInvoice     OrderStatus = "AWAITING_INVOICE"
	OrderStatusConfirmed           OrderStatus = "CONFIRMED"
	OrderStatusInProduction        OrderStatus = "IN_PRODUCTION"
	OrderStatusReady               OrderStatus = "READY"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusCancelled           OrderStatus = "CANCELLED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusNewPlanned,
	OrderStatusUnderReview,
	OrderStatusAwaitingMeasurement,
	OrderStatusAwaitingInvoice,
	OrderStatusConfirmed,
	OrderStatusInProduction,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
