package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/domeohq/doors-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		docType enums.DocumentType
		from    string
		to      string
		allowed bool
	}{
		{"quote draft to sent", enums.DocumentTypeQuote, "DRAFT", "SENT", true},
		{"quote sent to accepted", enums.DocumentTypeQuote, "SENT", "ACCEPTED", true},
		{"quote accepted back to sent", enums.DocumentTypeQuote, "ACCEPTED", "SENT", true},
		{"quote rejected back to sent", enums.DocumentTypeQuote, "REJECTED", "SENT", true},
		{"quote draft to accepted skips sent", enums.DocumentTypeQuote, "DRAFT", "ACCEPTED", false},
		{"invoice sent to paid", enums.DocumentTypeInvoice, "SENT", "PAID", true},
		{"invoice paid back to draft", enums.DocumentTypeInvoice, "PAID", "DRAFT", false},
		{"invoice draft to paid skips sent", enums.DocumentTypeInvoice, "DRAFT", "PAID", false},
		{"invoice ordered to cancelled", enums.DocumentTypeInvoice, "ORDERED", "CANCELLED", true},
		{"invoice completed is terminal", enums.DocumentTypeInvoice, "COMPLETED", "CANCELLED", false},
		{"order new to under review", enums.DocumentTypeOrder, "NEW_PLANNED", "UNDER_REVIEW", true},
		{"order ready to completed", enums.DocumentTypeOrder, "READY", "COMPLETED", true},
		{"order cancelled is terminal", enums.DocumentTypeOrder, "CANCELLED", "NEW_PLANNED", false},
		{"order skips stages", enums.DocumentTypeOrder, "NEW_PLANNED", "READY", false},
		{"supplier pending to ordered", enums.DocumentTypeSupplierOrder, "PENDING", "ORDERED", true},
		{"supplier ready to cancelled", enums.DocumentTypeSupplierOrder, "READY", "CANCELLED", true},
		{"supplier completed is terminal", enums.DocumentTypeSupplierOrder, "COMPLETED", "PENDING", false},
		{"unknown status never moves", enums.DocumentTypeOrder, "BOGUS", "READY", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.docType, tc.from, tc.to))
		})
	}
}

func TestCanActorTransition(t *testing.T) {
	tests := []struct {
		name    string
		role    enums.UserRole
		docType enums.DocumentType
		current string
		allowed bool
	}{
		{"admin touches anything", enums.UserRoleAdmin, enums.DocumentTypeInvoice, "PAID", true},
		{"complectator edits draft invoice", enums.UserRoleComplectator, enums.DocumentTypeInvoice, "DRAFT", true},
		{"complectator edits sent invoice", enums.UserRoleComplectator, enums.DocumentTypeInvoice, "SENT", true},
		{"complectator locked out of paid invoice", enums.UserRoleComplectator, enums.DocumentTypeInvoice, "PAID", false},
		{"executor never touches invoices", enums.UserRoleExecutor, enums.DocumentTypeInvoice, "DRAFT", false},
		{"complectator edits quote regardless of state", enums.UserRoleComplectator, enums.DocumentTypeQuote, "ACCEPTED", true},
		{"manager edits quote", enums.UserRoleManager, enums.DocumentTypeQuote, "SENT", true},
		{"executor never touches quotes", enums.UserRoleExecutor, enums.DocumentTypeQuote, "DRAFT", false},
		{"executor manages orders", enums.UserRoleExecutor, enums.DocumentTypeOrder, "CONFIRMED", true},
		{"executor manages supplier orders", enums.UserRoleExecutor, enums.DocumentTypeSupplierOrder, "PENDING", true},
		{"manager locked out of orders", enums.UserRoleManager, enums.DocumentTypeOrder, "NEW_PLANNED", false},
		{"complectator locked out of supplier orders", enums.UserRoleComplectator, enums.DocumentTypeSupplierOrder, "PENDING", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanActorTransition(tc.role, tc.docType, tc.current))
		})
	}
}
