package lifecycle

import (
	"github.com/domeohq/doors-backend/pkg/enums"
)

// CanActorTransition implements the role matrix guarding status writes. The
// check runs against the document's current status, before any mutation.
//
// Admins bypass every per-type restriction. Complectators own client paperwork
// up to the payment boundary: they manage quotes freely and invoices only
// while still unpaid. Executors own fulfillment: orders and supplier orders,
// never invoices directly. Managers share quote duties with complectators.
func CanActorTransition(role enums.UserRole, docType enums.DocumentType, currentStatus string) bool {
	if role == enums.UserRoleAdmin {
		return true
	}

	switch docType {
	case enums.DocumentTypeQuote:
		// Quote status is never blocked by downstream document state.
		return role == enums.UserRoleComplectator || role == enums.UserRoleManager

	case enums.DocumentTypeInvoice:
		if role != enums.UserRoleComplectator {
			return false
		}
		status := enums.InvoiceStatus(currentStatus)
		return status == enums.InvoiceStatusDraft || status == enums.InvoiceStatusSent

	case enums.DocumentTypeOrder, enums.DocumentTypeSupplierOrder:
		return role == enums.UserRoleExecutor

	default:
		return false
	}
}
