package documents

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CanonicalItem is the comparable projection of one cart line. Two carts are
// considered duplicates when their sorted canonical sequences are equal.
type CanonicalItem struct {
	Type          string
	Style         string
	Model         string
	Finish        string
	Color         string
	Width         int
	Height        int
	Quantity      int
	UnitPrice     decimal.Decimal
	HardwareKitID string
	HandleID      string
	SKU           string
}

// IsHandle reports whether the record was reduced to handle-identity form.
func (c CanonicalItem) IsHandle() bool {
	return c.Type == "handle"
}

// Accepted source keys per canonical field. Cart payloads arrive from several
// call sites with inconsistent naming, so each field reads an ordered list of
// keys instead of a single one.
var (
	modelKeys    = []string{"model", "name"}
	quantityKeys = []string{"qty", "quantity"}
	priceKeys    = []string{"unitPrice", "price"}
	skuKeys      = []string{"sku_1c", "sku"}
)

// NormalizeItems converts a raw item list into its canonical sorted sequence.
// The result depends only on the multiset of items, never on input order.
func NormalizeItems(items []map[string]any) []CanonicalItem {
	normalized := make([]CanonicalItem, 0, len(items))
	for _, item := range items {
		normalized = append(normalized, normalizeItem(item))
	}
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].sortKey() < normalized[j].sortKey()
	})
	return normalized
}

func normalizeItem(item map[string]any) CanonicalItem {
	canonical := CanonicalItem{
		Type:          lowerTrim(stringField(item, "type"), "door"),
		Style:         lowerTrim(stringField(item, "style"), ""),
		Model:         lowerTrim(stringField(item, modelKeys...), ""),
		Finish:        lowerTrim(stringField(item, "finish"), ""),
		Color:         lowerTrim(stringField(item, "color"), ""),
		Width:         intField(item, 0, "width"),
		Height:        intField(item, 0, "height"),
		Quantity:      intField(item, 1, quantityKeys...),
		UnitPrice:     decimalField(item, priceKeys...),
		HardwareKitID: strings.TrimSpace(stringField(item, "hardwareKitId")),
		HandleID:      strings.TrimSpace(stringField(item, "handleId")),
		SKU:           strings.TrimSpace(stringField(item, skuKeys...)),
	}

	// Handles compare purely by handle identity, quantity and price. Door
	// context accompanying a handle line must not break equality.
	if canonical.Type == "handle" || canonical.HandleID != "" {
		return CanonicalItem{
			Type:      "handle",
			HandleID:  canonical.HandleID,
			Quantity:  canonical.Quantity,
			UnitPrice: canonical.UnitPrice,
		}
	}

	return canonical
}

func (c CanonicalItem) sortKey() string {
	identity := c.HandleID
	if identity == "" {
		identity = c.Model
	}
	return fmt.Sprintf("%s:%s:%s:%s:%d:%d:%s",
		c.Type, identity, c.Finish, c.Color, c.Width, c.Height, c.HardwareKitID)
}

func lowerTrim(value, fallback string) string {
	out := strings.ToLower(strings.TrimSpace(value))
	if out == "" {
		return fallback
	}
	return out
}

func stringField(item map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := item[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

func intField(item map[string]any, fallback int, keys ...string) int {
	for _, key := range keys {
		raw, ok := item[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if v != 0 {
				return int(v)
			}
		case int:
			if v != 0 {
				return v
			}
		case string:
			if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed != 0 {
				return parsed
			}
		}
	}
	return fallback
}

func decimalField(item map[string]any, keys ...string) decimal.Decimal {
	for _, key := range keys {
		raw, ok := item[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case float64:
			if v != 0 {
				return decimal.NewFromFloat(v)
			}
		case int:
			if v != 0 {
				return decimal.NewFromInt(int64(v))
			}
		case string:
			if parsed, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil && !parsed.IsZero() {
				return parsed
			}
		}
	}
	return decimal.Zero
}
