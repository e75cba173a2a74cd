package enums

import "fmt"

// DocumentType identifies one of the four business document variants.
type DocumentType string

const (
	DocumentTypeOrder         DocumentType = "order"
	DocumentTypeQuote         DocumentType = "quote"
	DocumentTypeInvoice       DocumentType = "invoice"
	DocumentTypeSupplierOrder DocumentType = "supplier_order"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeOrder,
	DocumentTypeQuote,
	DocumentTypeInvoice,
	DocumentTypeSupplierOrder,
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// NumberPrefix returns the short prefix used when generating document numbers.
func (d DocumentType) NumberPrefix() string {
	switch d {
	case DocumentTypeQuote:
		return "KP"
	case DocumentTypeInvoice:
		return "INV"
	case DocumentTypeSupplierOrder:
		return "SUP"
	default:
		return "ORD"
	}
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
