package orders

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wyliang/frostorder/internal/apperr"
	"github.com/wyliang/frostorder/internal/cache"
)

func newTestCache(t *testing.T) *cache.Handle {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{})
	require.NoError(t, err)
	h := &cache.Handle{DB: gdb}
	require.NoError(t, h.Migrate())
	return h
}

func TestDraftSetOverwritesPerProduct(t *testing.T) {
	d := NewDraftStore(newTestCache(t))

	require.NoError(t, d.Set(DraftItem{ProductID: "p1", Quantity: 2, Unit: "case", Stock: "low"}))
	require.NoError(t, d.Set(DraftItem{ProductID: "p2", Quantity: 1, Unit: "piece"}))
	// Resubmitting p1 replaces the line, it never merges.
	require.NoError(t, d.Set(DraftItem{ProductID: "p1", Quantity: 5, Unit: "piece"}))

	draft, err := d.All()
	require.NoError(t, err)
	require.Len(t, draft, 2)
	assert.Equal(t, 5.0, draft["p1"].Quantity)
	assert.Equal(t, "piece", draft["p1"].Unit)
	assert.Empty(t, draft["p1"].Stock)
}

func TestDraftSetValidation(t *testing.T) {
	d := NewDraftStore(newTestCache(t))

	assert.ErrorIs(t, d.Set(DraftItem{ProductID: "", Quantity: 1, Unit: "case"}), apperr.ErrValidation)
	assert.ErrorIs(t, d.Set(DraftItem{ProductID: "p1", Quantity: 0, Unit: "case"}), apperr.ErrValidation)
	assert.ErrorIs(t, d.Set(DraftItem{ProductID: "p1", Quantity: -2, Unit: "case"}), apperr.ErrValidation)
	assert.ErrorIs(t, d.Set(DraftItem{ProductID: "p1", Quantity: 1, Unit: "box"}), apperr.ErrValidation)

	draft, err := d.All()
	require.NoError(t, err)
	assert.Empty(t, draft)
}

func TestDraftRemoveAndClear(t *testing.T) {
	d := NewDraftStore(newTestCache(t))

	require.NoError(t, d.Set(DraftItem{ProductID: "p1", Quantity: 1, Unit: "case"}))
	require.NoError(t, d.Set(DraftItem{ProductID: "p2", Quantity: 1, Unit: "case"}))

	require.NoError(t, d.Remove("p1"))
	require.NoError(t, d.Remove("missing")) // no-op

	draft, err := d.All()
	require.NoError(t, err)
	require.Len(t, draft, 1)

	require.NoError(t, d.Clear())
	draft, err = d.All()
	require.NoError(t, err)
	assert.Empty(t, draft)
}

func TestDraftPrune(t *testing.T) {
	d := NewDraftStore(newTestCache(t))

	require.NoError(t, d.Set(DraftItem{ProductID: "p1", Quantity: 1, Unit: "case"}))
	require.NoError(t, d.Set(DraftItem{ProductID: "p2", Quantity: 1, Unit: "case"}))

	require.NoError(t, d.Prune([]string{"p2", "p3"}))

	draft, err := d.All()
	require.NoError(t, err)
	require.Len(t, draft, 1)
	assert.Contains(t, draft, "p1")
}

func TestDraftItemIDAssigned(t *testing.T) {
	d := NewDraftStore(newTestCache(t))

	require.NoError(t, d.Set(DraftItem{ProductID: "p1", Quantity: 1, Unit: "case"}))
	draft, err := d.All()
	require.NoError(t, err)
	assert.NotEmpty(t, draft["p1"].ID)
}
