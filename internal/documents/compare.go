package documents

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/pkg/logger"
)

// Comparator decides whether a submitted cart matches a stored snapshot.
// A malformed snapshot never fails the caller; it degrades to "not equal".
type Comparator struct {
	tolerance decimal.Decimal
	logg      *logger.Logger
}

// NewComparator builds a comparator with the given monetary tolerance.
func NewComparator(tolerance decimal.Decimal, logg *logger.Logger) *Comparator {
	return &Comparator{tolerance: tolerance, logg: logg}
}

// EqualContent compares normalized items against a stored cart_data snapshot.
func (c *Comparator) EqualContent(ctx context.Context, normalized []CanonicalItem, cartData *string) bool {
	if cartData == nil || *cartData == "" {
		return false
	}

	stored, err := ParseCartSnapshot(*cartData)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "skipping malformed cart snapshot during duplicate search")
		}
		return false
	}

	return c.EqualItems(normalized, NormalizeItems(stored))
}

// EqualItems compares two pre-normalized sequences position by position.
func (c *Comparator) EqualItems(a, b []CanonicalItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.equalItem(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (c *Comparator) equalItem(a, b CanonicalItem) bool {
	if a.IsHandle() || b.IsHandle() {
		return a.Type == b.Type &&
			a.HandleID == b.HandleID &&
			a.Quantity == b.Quantity &&
			c.priceEqual(a.UnitPrice, b.UnitPrice)
	}

	return a.Type == b.Type &&
		a.Style == b.Style &&
		a.Model == b.Model &&
		a.Finish == b.Finish &&
		a.Color == b.Color &&
		a.Width == b.Width &&
		a.Height == b.Height &&
		a.HardwareKitID == b.HardwareKitID &&
		a.HandleID == b.HandleID &&
		a.Quantity == b.Quantity &&
		c.priceEqual(a.UnitPrice, b.UnitPrice)
}

func (c *Comparator) priceEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(c.tolerance)
}

// ParseCartSnapshot decodes a stored cart_data value. Snapshots are either a
// bare item array or an object carrying an "items" array.
func ParseCartSnapshot(raw string) ([]map[string]any, error) {
	var asList []map[string]any
	if err := json.Unmarshal([]byte(raw), &asList); err == nil {
		return asList, nil
	}

	var asObject struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &asObject); err != nil {
		return nil, err
	}
	return asObject.Items, nil
}
