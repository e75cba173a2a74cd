package documents

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const cartSessionIDLength = 20

// GenerateCartSessionID derives a stable grouping key for documents created
// from one cart checkout flow. The same client, items and total always yield
// the same id, so retries without an explicit session still correlate.
func GenerateCartSessionID(clientID string, items []map[string]any, total decimal.Decimal) string {
	payload := struct {
		ClientID string          `json:"clientId"`
		Items    []CanonicalItem `json:"items"`
		Total    string          `json:"total"`
	}{
		ClientID: clientID,
		Items:    NormalizeItems(items),
		Total:    total.StringFixed(2),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "cart_" + uuid.NewString()[:cartSessionIDLength]
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	if len(encoded) > cartSessionIDLength {
		encoded = encoded[:cartSessionIDLength]
	}
	return "cart_" + encoded
}
