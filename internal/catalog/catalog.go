// Package catalog owns the ordered product sequence and its persisted
// snapshot. Products carry stable ids so the cart and the edit session
// survive deletions without positional aliasing.
package catalog

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/justindrp/middlemanPOS/internal/kvstore"
	"github.com/justindrp/middlemanPOS/internal/model"
	"github.com/justindrp/middlemanPOS/internal/obs"
)

// StorageKey is the key-value entry holding the catalog snapshot.
const StorageKey = "products"

// Catalog is the product store. Safe for concurrent use.
type Catalog struct {
	kv kvstore.Store

	mu       sync.RWMutex
	products []model.Product
}

// New returns an empty catalog persisting to kv.
func New(kv kvstore.Store) *Catalog {
	return &Catalog{kv: kv}
}

// Load rehydrates the catalog from storage. Missing or corrupt data yields
// an empty catalog so startup never blocks on a bad blob.
func (c *Catalog) Load() error {
	data, ok, err := c.kv.Get(StorageKey)
	if err != nil {
		obs.Logger.Warn("catalog_load_failed", "error", err)
		return err
	}
	if !ok {
		return nil
	}
	var products []model.Product
	if err := json.Unmarshal(data, &products); err != nil {
		obs.Logger.Warn("catalog_snapshot_corrupt", "error", err)
		return nil
	}
	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
	return nil
}

func validate(name string, price float64, stock int64) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return &ValidationError{Field: "price", Reason: "must be a finite number"}
	}
	if price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

// Add appends a new product with a freshly assigned id and persists the
// snapshot.
func (c *Catalog) Add(name string, price float64, stock int64) (model.Product, error) {
	if err := validate(name, price, stock); err != nil {
		return model.Product{}, err
	}
	p := model.Product{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Price: price,
		Stock: stock,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = append(c.products, p)
	if err := c.saveLocked(); err != nil {
		c.products = c.products[:len(c.products)-1]
		return model.Product{}, err
	}
	return p, nil
}

// Update replaces the fields of the product with the given id, keeping its
// position, and persists the snapshot.
func (c *Catalog) Update(id, name string, price float64, stock int64) (model.Product, error) {
	if err := validate(name, price, stock); err != nil {
		return model.Product{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return model.Product{}, ErrNotFound
	}
	prev := c.products[i]
	c.products[i] = model.Product{ID: id, Name: strings.TrimSpace(name), Price: price, Stock: stock}
	if err := c.saveLocked(); err != nil {
		c.products[i] = prev
		return model.Product{}, err
	}
	return c.products[i], nil
}

// Delete removes the product with the given id, shifting later entries
// down, and persists the snapshot.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	removed := c.products[i]
	c.products = append(c.products[:i], c.products[i+1:]...)
	if err := c.saveLocked(); err != nil {
		c.products = append(c.products[:i], append([]model.Product{removed}, c.products[i:]...)...)
		return err
	}
	return nil
}

// Get looks a product up by id.
func (c *Catalog) Get(id string) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.indexLocked(id)
	if i < 0 {
		return model.Product{}, false
	}
	return c.products[i], true
}

// At returns the product at the given position in catalog order.
func (c *Catalog) At(position int) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if position < 0 || position >= len(c.products) {
		return model.Product{}, false
	}
	return c.products[position], true
}

// PositionOf returns the current position of the product with the given
// id, or -1 when it is gone.
func (c *Catalog) PositionOf(id string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexLocked(id)
}

// List returns a copy of the catalog in stored order.
func (c *Catalog) List() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len reports the number of products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// DecrementAll subtracts the given quantities from stock in one step.
// Every line is validated against current stock before any mutation, so a
// shortfall on one line leaves all stock untouched. Unknown ids fail with
// ErrNotFound. On success the snapshot is persisted once.
func (c *Catalog) DecrementAll(quantities map[string]int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, qty := range quantities {
		i := c.indexLocked(id)
		if i < 0 {
			return ErrNotFound
		}
		if p := c.products[i]; qty > p.Stock {
			return &InsufficientStockError{ProductName: p.Name, Requested: qty, Available: p.Stock}
		}
	}
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		i := c.indexLocked(id)
		c.products[i].Stock -= quantities[id]
	}
	if err := c.saveLocked(); err != nil {
		for _, id := range ids {
			i := c.indexLocked(id)
			c.products[i].Stock += quantities[id]
		}
		return err
	}
	return nil
}

func (c *Catalog) indexLocked(id string) int {
	for i := range c.products {
		if c.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) saveLocked() error {
	data, err := json.Marshal(c.products)
	if err != nil {
		return err
	}
	return c.kv.Set(StorageKey, data)
}
