package cart

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justindrp/middlemanPOS/internal/catalog"
	"github.com/justindrp/middlemanPOS/internal/currency"
	"github.com/justindrp/middlemanPOS/internal/kvstore"
	"github.com/justindrp/middlemanPOS/internal/ledger"
	"github.com/justindrp/middlemanPOS/internal/model"
)

func newTestCart(t *testing.T) (*Cart, *catalog.Catalog, *ledger.Ledger) {
	t.Helper()
	kv := kvstore.NewMemStore()
	cat := catalog.New(kv)
	led := ledger.New(kv)
	return New(cat, led), cat, led
}

func TestAddMergesQuantities(t *testing.T) {
	c, cat, _ := newTestCart(t)
	p, _ := cat.Add("Widget", 10, 5)

	require.NoError(t, c.Add(p.ID, 3))
	require.NoError(t, c.Add(p.ID, 2))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, model.CartLine{ProductID: p.ID, Quantity: 5}, lines[0])
	assert.Equal(t, 50.0, c.Total(currency.USD))
}

func TestAddMergeEqualsSingleAdd(t *testing.T) {
	c1, cat1, _ := newTestCart(t)
	p1, _ := cat1.Add("Widget", 10, 9)
	require.NoError(t, c1.Add(p1.ID, 4))
	require.NoError(t, c1.Add(p1.ID, 3))

	c2, cat2, _ := newTestCart(t)
	p2, _ := cat2.Add("Widget", 10, 9)
	require.NoError(t, c2.Add(p2.ID, 7))

	assert.Equal(t, c2.Lines()[0].Quantity, c1.Lines()[0].Quantity)
	assert.Equal(t, c2.Total(currency.USD), c1.Total(currency.USD))
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c, cat, _ := newTestCart(t)
	p, _ := cat.Add("Widget", 10, 5)
	for _, qty := range []int64{0, -1, -100} {
		err := c.Add(p.ID, qty)
		require.Error(t, err, "quantity %d", qty)
		assert.True(t, catalog.IsValidation(err), "quantity %d: %v", qty, err)
	}
	assert.Empty(t, c.Lines())
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	c, _, _ := newTestCart(t)
	assert.ErrorIs(t, c.Add("ghost", 1), catalog.ErrNotFound)
}

func TestAddEnforcesStockAtAddTime(t *testing.T) {
	c, cat, _ := newTestCart(t)
	p, _ := cat.Add("Widget", 10, 5)

	err := c.Add(p.ID, 6)
	require.Error(t, err)
	assert.True(t, catalog.IsInsufficientStock(err), "got %v", err)
	assert.Empty(t, c.Lines())
	got, _ := cat.Get(p.ID)
	assert.Equal(t, int64(5), got.Stock)

	// Merging past the stock ceiling fails too.
	require.NoError(t, c.Add(p.ID, 3))
	err = c.Add(p.ID, 3)
	assert.True(t, catalog.IsInsufficientStock(err), "got %v", err)
	assert.Equal(t, int64(3), c.Lines()[0].Quantity)
}

func TestTotalConvertsToDisplayUnit(t *testing.T) {
	c, cat, _ := newTestCart(t)
	p, _ := cat.Add("Widget", 10, 5)
	require.NoError(t, c.Add(p.ID, 2))
	assert.Equal(t, 20.0, c.Total(currency.USD))
	assert.Equal(t, 300000.0, c.Total(currency.IDR))
}

func TestCommit(t *testing.T) {
	c, cat, led := newTestCart(t)
	p, _ := cat.Add("Widget", 10, 5)
	require.NoError(t, c.Add(p.ID, 5))

	rec, err := c.Commit()
	require.NoError(t, err)
	spew.Dump(rec)

	assert.Equal(t, 50.0, rec.Total)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, model.TransactionItem{Name: "Widget", Quantity: 5, Price: 10, Total: 50}, rec.Items[0])
	assert.NotEmpty(t, rec.Date)

	got, _ := cat.Get(p.ID)
	assert.Equal(t, int64(0), got.Stock)
	assert.Empty(t, c.Lines())
	require.Equal(t, 1, led.Len())
	assert.Equal(t, rec, led.List()[0])
}

func TestCommitEmptyCart(t *testing.T) {
	c, _, led := newTestCart(t)
	_, err := c.Commit()
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, led.Len())
}

func TestCommitAtomicAcrossLines(t *testing.T) {
	c, cat, led := newTestCart(t)
	a, _ := cat.Add("A", 1, 5)
	b, _ := cat.Add("B", 2, 5)
	require.NoError(t, c.Add(a.ID, 2))
	require.NoError(t, c.Add(b.ID, 4))

	// Stock edited below the reserved quantity after the add.
	_, err := cat.Update(b.ID, "B", 2, 1)
	require.NoError(t, err)

	_, err = c.Commit()
	require.Error(t, err)
	assert.True(t, catalog.IsInsufficientStock(err), "got %v", err)

	ga, _ := cat.Get(a.ID)
	gb, _ := cat.Get(b.ID)
	assert.Equal(t, int64(5), ga.Stock, "no partial decrement")
	assert.Equal(t, int64(1), gb.Stock)
	assert.Equal(t, 0, led.Len())

	// Lines survive a failed commit so the operator can adjust and retry.
	assert.Len(t, c.Lines(), 2)
}

func TestDeletedProductLinesArePruned(t *testing.T) {
	c, cat, _ := newTestCart(t)
	a, _ := cat.Add("A", 1, 5)
	b, _ := cat.Add("B", 2, 5)
	require.NoError(t, c.Add(a.ID, 1))
	require.NoError(t, c.Add(b.ID, 1))

	require.NoError(t, cat.Delete(a.ID))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, b.ID, lines[0].ProductID)
	assert.Equal(t, 2.0, c.Total(currency.USD))
}

func TestCommitAfterAllProductsDeleted(t *testing.T) {
	c, cat, _ := newTestCart(t)
	a, _ := cat.Add("A", 1, 5)
	require.NoError(t, c.Add(a.ID, 1))
	require.NoError(t, cat.Delete(a.ID))

	_, err := c.Commit()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestLinesOrderedByCatalogPosition(t *testing.T) {
	c, cat, _ := newTestCart(t)
	a, _ := cat.Add("A", 1, 5)
	b, _ := cat.Add("B", 2, 5)
	d, _ := cat.Add("C", 3, 5)
	require.NoError(t, c.Add(d.ID, 1))
	require.NoError(t, c.Add(a.ID, 1))
	require.NoError(t, c.Add(b.ID, 1))

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, []string{a.ID, b.ID, d.ID},
		[]string{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
}

func TestClear(t *testing.T) {
	c, cat, led := newTestCart(t)
	p, _ := cat.Add("Widget", 10, 5)
	require.NoError(t, c.Add(p.ID, 3))
	c.Clear()
	assert.Empty(t, c.Lines())
	got, _ := cat.Get(p.ID)
	assert.Equal(t, int64(5), got.Stock)
	assert.Equal(t, 0, led.Len())
}
