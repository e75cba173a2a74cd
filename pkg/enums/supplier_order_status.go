package enums

import "fmt"

// SupplierOrderStatus tracks the lifecycle of an order placed with a supplier.
type SupplierOrderStatus string

const (
	SupplierOrderStatusPending      SupplierOrderStatus = "PENDING"
	SupplierOrderStatusOrdered      SupplierOrderStatus = "ORDERED"
	SupplierOrderStatusInProduction SupplierOrderStatus = "IN_PRODUCTION"
	SupplierOrderStatusReady        SupplierOrderStatus = "READY"
	SupplierOrderStatusCompleted    SupplierOrderStatus = "COMPLETED"
	SupplierOrderStatusCancelled    SupplierOrderStatus = "CANCELLED"
)

var validSupplierOrderStatuses = []SupplierOrderStatus{
	SupplierOrderStatusPending,
	SupplierOrderStatusOrdered,
	SupplierOrderStatusInProduction,
	SupplierOrderStatusReady,
	SupplierOrderStatusCompleted,
	SupplierOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s SupplierOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SupplierOrderStatus.
func (s SupplierOrderStatus) IsValid() bool {
	for _, candidate := range validSupplierOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupplierOrderStatus converts raw input into a SupplierOrderStatus.
func ParseSupplierOrderStatus(value string) (SupplierOrderStatus, error) {
	for _, candidate := range validSupplierOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid supplier order status %q", value)
}
