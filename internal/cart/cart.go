// Package cart owns the in-progress sale: quantities reserved against
// catalog products, the running total, and checkout.
package cart

import (
	"errors"
	"sort"
	"sync"

	"github.com/justindrp/middlemanPOS/internal/catalog"
	"github.com/justindrp/middlemanPOS/internal/currency"
	"github.com/justindrp/middlemanPOS/internal/ledger"
	"github.com/justindrp/middlemanPOS/internal/model"
	"github.com/justindrp/middlemanPOS/internal/obs"
)

// ErrEmptyCart is returned when checkout runs with no live lines.
var ErrEmptyCart = errors.New("no items in the transaction")

// Cart maps product ids to reserved quantities. Lines referencing products
// deleted since the add are pruned instead of aliasing a shifted entry.
type Cart struct {
	cat *catalog.Catalog
	log *ledger.Ledger

	mu    sync.Mutex
	lines map[string]int64
}

// New returns an empty cart backed by the given catalog and ledger.
func New(cat *catalog.Catalog, log *ledger.Ledger) *Cart {
	return &Cart{cat: cat, log: log, lines: make(map[string]int64)}
}

// Add reserves quantity units of the product. A line already holding the
// product merges by summing quantities. The merged quantity must not
// exceed the product's current stock.
func (c *Cart) Add(productID string, quantity int64) error {
	if quantity <= 0 {
		return &catalog.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.cat.Get(productID)
	if !ok {
		delete(c.lines, productID)
		return catalog.ErrNotFound
	}
	merged := c.lines[productID] + quantity
	if merged > p.Stock {
		return &catalog.InsufficientStockError{ProductName: p.Name, Requested: merged, Available: p.Stock}
	}
	c.lines[productID] = merged
	return nil
}

// Remove drops the line for the product, if present.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lines, productID)
}

// Lines returns live cart lines in catalog order. Lines whose product has
// been deleted are pruned on the way out.
func (c *Cart) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveLinesLocked()
}

func (c *Cart) liveLinesLocked() []model.CartLine {
	type positioned struct {
		line model.CartLine
		pos  int
	}
	live := make([]positioned, 0, len(c.lines))
	for id, qty := range c.lines {
		pos := c.cat.PositionOf(id)
		if pos < 0 {
			obs.Logger.Warn("cart_line_pruned", "product_id", id)
			delete(c.lines, id)
			continue
		}
		live = append(live, positioned{line: model.CartLine{ProductID: id, Quantity: qty}, pos: pos})
	}
	sort.Slice(live, func(i, j int) bool { return live[i].pos < live[j].pos })
	out := make([]model.CartLine, len(live))
	for i, l := range live {
		out[i] = l.line
	}
	return out
}

// Total computes the running total over live lines in the requested
// display unit.
func (c *Cart) Total(unit currency.Unit) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.liveLinesLocked() {
		p, ok := c.cat.Get(line.ProductID)
		if !ok {
			continue
		}
		total += p.Price * float64(line.Quantity)
	}
	return currency.ToDisplay(total, unit)
}

// Commit checks out the cart: every live line's stock is decremented in a
// single all-or-nothing step, a TransactionRecord snapshotting names,
// quantities, and canonical prices is appended to the ledger, and the cart
// is cleared. A stock shortfall on any line (stock edited since the add)
// fails the whole commit with no stock mutated.
func (c *Cart) Commit() (model.TransactionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.liveLinesLocked()
	if len(lines) == 0 {
		return model.TransactionRecord{}, ErrEmptyCart
	}

	quantities := make(map[string]int64, len(lines))
	items := make([]model.TransactionItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		p, ok := c.cat.Get(line.ProductID)
		if !ok {
			return model.TransactionRecord{}, catalog.ErrNotFound
		}
		lineTotal := p.Price * float64(line.Quantity)
		quantities[line.ProductID] = line.Quantity
		items = append(items, model.TransactionItem{
			Name:     p.Name,
			Quantity: line.Quantity,
			Price:    p.Price,
			Total:    lineTotal,
		})
		total += lineTotal
	}

	if err := c.cat.DecrementAll(quantities); err != nil {
		return model.TransactionRecord{}, err
	}
	rec, err := c.log.Append(items, total)
	if err != nil {
		// Stock is already decremented; the sale happened even if the
		// history write failed. Surface the error without unwinding.
		obs.Logger.Error("ledger_append_failed", "error", err)
		return model.TransactionRecord{}, err
	}
	c.lines = make(map[string]int64)
	return rec, nil
}

// Clear discards all lines without touching the catalog or the ledger.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]int64)
}
