package models

import (
	"time"
)

const (
	MinLineQuantity = 1
	MaxLineQuantity = 100
)

type CartLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartLine `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HydratedCartLine is a cart line joined with its catalog snapshot. Never persisted.
type HydratedCartLine struct {
	ProductSnapshot
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type UpdateCartRequest struct {
	Cart []CartLine `json:"cart" validate:"max=200,dive"`
}

// ClampQuantity bounds a line quantity to [MinLineQuantity, MaxLineQuantity].
func ClampQuantity(quantity int) int {
	if quantity < MinLineQuantity {
		return MinLineQuantity
	}

	if quantity > MaxLineQuantity {
		return MaxLineQuantity
	}

	return quantity
}

// NormalizeLines drops lines without a product id or a positive quantity,
// folds duplicate product ids into one line and clamps every quantity.
// The order of first appearance is preserved.
func NormalizeLines(lines []CartLine) []CartLine {
	index := make(map[string]int, len(lines))
	normalized := make([]CartLine, 0, len(lines))

	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}

		if i, ok := index[line.ProductID]; ok {
			normalized[i].Quantity = ClampQuantity(normalized[i].Quantity + line.Quantity)
			continue
		}

		index[line.ProductID] = len(normalized)
		normalized = append(normalized, CartLine{ProductID: line.ProductID, Quantity: ClampQuantity(line.Quantity)})
	}

	return normalized
}

// MergeLines merges a device-local cart into a server cart. The server quantity
// is the base and the local quantity is added to it.
func MergeLines(server, local []CartLine) []CartLine {
	merged := NormalizeLines(server)
	index := make(map[string]int, len(merged))

	for i, line := range merged {
		index[line.ProductID] = i
	}

	for _, line := range NormalizeLines(local) {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity = ClampQuantity(merged[i].Quantity + line.Quantity)
			continue
		}

		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	return merged
}

func ProductIDs(lines []CartLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	return ids
}
