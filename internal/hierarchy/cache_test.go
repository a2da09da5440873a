package hierarchy

import (
	"testing"

	"github.com/mbelozerov/caseline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetAfterPutReturnsSameTree(t *testing.T) {
	c := NewCache()
	key := Key{Project: "Webshop", PlanID: 7}
	root := Build([]domain.SuiteRecord{rec(1, "root", nil)})

	c.Put(key, root)

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Same(t, root, got, "cache must serve the identical tree instance")
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := NewCache()
	_, ok := c.Get(Key{Project: "Webshop", PlanID: 7})
	assert.False(t, ok)
}

func TestCache_InvalidateForcesMiss(t *testing.T) {
	c := NewCache()
	key := Key{Project: "Webshop", PlanID: 7}
	c.Put(key, Build(nil))
	require.Equal(t, 1, c.Len())

	c.Invalidate(key)

	_, ok := c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_SamePlanIDDifferentProjectsAreIndependent(t *testing.T) {
	c := NewCache()
	webshop := Build([]domain.SuiteRecord{rec(1, "webshop root", nil)})
	billing := Build([]domain.SuiteRecord{rec(1, "billing root", nil)})

	c.Put(Key{Project: "Webshop", PlanID: 7}, webshop)
	c.Put(Key{Project: "Billing", PlanID: 7}, billing)

	got, ok := c.Get(Key{Project: "Webshop", PlanID: 7})
	require.True(t, ok)
	assert.Equal(t, "webshop root", got.Name)

	c.Invalidate(Key{Project: "Webshop", PlanID: 7})

	got, ok = c.Get(Key{Project: "Billing", PlanID: 7})
	require.True(t, ok, "invalidating one project must not touch the other")
	assert.Equal(t, "billing root", got.Name)
}

func TestCache_PutReplacesEntry(t *testing.T) {
	c := NewCache()
	key := Key{Project: "Webshop", PlanID: 7}

	c.Put(key, Build([]domain.SuiteRecord{rec(1, "old", nil)}))
	c.Put(key, Build([]domain.SuiteRecord{rec(2, "new", nil)}))

	got, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, 1, c.Len())
}
