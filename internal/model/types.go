// Package model defines domain types shared across the POS engine.
package model

// Product is a catalog entry. Price is stored in the canonical currency
// unit (USD); display conversion happens at the edges.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int64   `json:"stock"`
}

// CartLine reserves a quantity of one product in the in-progress sale.
// At most one line exists per product; repeated adds merge.
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// TransactionItem snapshots one sold line at commit time. Price and Total
// are in the canonical unit.
type TransactionItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// TransactionRecord is one completed sale. Records are append-only and
// never mutated after creation.
type TransactionRecord struct {
	ID       string            `json:"id"`
	Sequence uint64            `json:"sequence"`
	Date     string            `json:"date"`
	Items    []TransactionItem `json:"items"`
	Total    float64           `json:"total"`
}
