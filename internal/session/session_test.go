package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justindrp/middlemanPOS/internal/catalog"
	"github.com/justindrp/middlemanPOS/internal/kvstore"
)

func TestBeginEndActive(t *testing.T) {
	s := New()
	_, active := s.Active()
	assert.False(t, active)

	s.Begin("p1")
	id, active := s.Active()
	assert.True(t, active)
	assert.Equal(t, "p1", id)

	s.End()
	_, active = s.Active()
	assert.False(t, active)
}

func TestBeginReplacesSlot(t *testing.T) {
	s := New()
	s.Begin("p1")
	s.Begin("p2")
	id, active := s.Active()
	assert.True(t, active)
	assert.Equal(t, "p2", id)
}

func TestInvalidateOnlyMatchingProduct(t *testing.T) {
	s := New()
	s.Begin("p1")
	s.Invalidate("other")
	_, active := s.Active()
	assert.True(t, active)

	s.Invalidate("p1")
	_, active = s.Active()
	assert.False(t, active)
}

func TestDeleteUnderEditInvalidatesSession(t *testing.T) {
	cat := catalog.New(kvstore.NewMemStore())
	a, err := cat.Add("A", 1, 1)
	require.NoError(t, err)
	b, err := cat.Add("B", 2, 2)
	require.NoError(t, err)

	s := New()
	s.Begin(a.ID)
	require.NoError(t, cat.Delete(a.ID))
	s.Invalidate(a.ID)

	_, active := s.Active()
	assert.False(t, active)

	// Submitting the stale id must fail, not write to the shifted product.
	_, err = cat.Update(a.ID, "A2", 9, 9)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	got, ok := cat.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "B", got.Name)
}
