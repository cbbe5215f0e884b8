package domain

// InventoryRecord is the stock held for one SKU. There is at most one record per SKUCode.
type InventoryRecord struct {
	SKUCode  string
	Quantity int
}

// InStock reports whether the record can satisfy an availability check.
func (r InventoryRecord) InStock() bool {
	return r.Quantity > 0
}

// Availability is the answer for a single SKU code in an inventory query.
type Availability struct {
	SKUCode string
	InStock bool
}

// DistinctSKUCodes drops repeated codes, keeping first-seen order.
func DistinctSKUCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
