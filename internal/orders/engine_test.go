package orders

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyliang/frostorder/internal/apperr"
	"github.com/wyliang/frostorder/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store, *DraftStore) {
	t.Helper()
	st, err := store.Open("sqlite", filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate())
	draft := NewDraftStore(newTestCache(t))
	return NewEngine(zerolog.Nop(), st, draft), st, draft
}

func seedCatalog(t *testing.T, st *store.Store) map[string]store.Product {
	t.Helper()
	img := "data:image/png;base64,aW1n"
	products := []store.Product{
		{Name: "Frozen Shrimp", CompanyName: "Ocean Co", BatchCode: "0001", ImageURL: &img},
		{Name: "Squid Ring", CompanyName: "Ocean Co", BatchCode: "0001"},
		{Name: "Pork Dumplings", CompanyName: "Northern Foods", BatchCode: "0002"},
	}
	require.NoError(t, st.AddProducts(context.Background(), products, nil))

	all, err := st.Products(context.Background())
	require.NoError(t, err)
	byName := map[string]store.Product{}
	for _, p := range all {
		byName[p.Name] = p
	}
	return byName
}

func TestArchiveThenHistory(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Frozen Shrimp"].ID, Quantity: 2, Unit: "case", Stock: "2 left"}))
	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Squid Ring"].ID, Quantity: 1, Unit: "piece"}))

	sessionID, err := e.Archive(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	// Successful archive wipes the draft.
	left, err := draft.All()
	require.NoError(t, err)
	assert.Empty(t, left)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Items, 2)

	byName := map[string]HistoryItem{}
	for _, it := range sessions[0].Items {
		byName[it.ProductName] = it
	}
	shrimp := byName["Frozen Shrimp"]
	assert.Equal(t, "Ocean Co", shrimp.CompanyName)
	assert.Equal(t, 2.0, shrimp.Quantity)
	assert.Equal(t, "2 left", shrimp.Stock)
	require.NotNil(t, shrimp.ImageURL)
	assert.Equal(t, "Squid Ring", byName["Squid Ring"].ProductName)
}

func TestArchiveEmptyDraft(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Archive(context.Background())
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestArchiveUnknownProductGetsSentinels(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, draft.Set(DraftItem{ProductID: "vanished", Quantity: 1, Unit: "case"}))
	_, err := e.Archive(ctx)
	require.NoError(t, err)

	// The stored snapshot carries the sentinel; with no live product to
	// repair from, the reader shows the display fallbacks.
	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Items, 1)
	assert.Equal(t, "Unknown Product", sessions[0].Items[0].ProductName)
	assert.Equal(t, "Unknown Company", sessions[0].Items[0].CompanyName)

	raw, err := st.SessionItems(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", raw[0].ProductName)
}

func TestHistorySurvivesProductDeletion(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)
	shrimp := catalog["Frozen Shrimp"]

	require.NoError(t, draft.Set(DraftItem{ProductID: shrimp.ID, Quantity: 3, Unit: "case"}))
	_, err := e.Archive(ctx)
	require.NoError(t, err)

	require.NoError(t, e.DeleteProducts(ctx, []string{shrimp.ID}, nil))

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions[0].Items, 1)
	// Stored pre-deletion snapshot stands, no regression to "Unknown".
	assert.Equal(t, "Frozen Shrimp", sessions[0].Items[0].ProductName)
	assert.Equal(t, "Ocean Co", sessions[0].Items[0].CompanyName)
}

func TestHistoryRepairsCorruptedSnapshot(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)
	dumplings := catalog["Pork Dumplings"]

	require.NoError(t, draft.Set(DraftItem{ProductID: dumplings.ID, Quantity: 1, Unit: "case"}))
	_, err := e.Archive(ctx)
	require.NoError(t, err)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	itemID := sessions[0].Items[0].ID

	// Corrupt the stored snapshot the way legacy rows look.
	require.NoError(t, st.UpdateItem(ctx, itemID, map[string]any{
		"product_name": "Unknown",
		"company_name": "",
	}))

	sessions, err = e.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pork Dumplings", sessions[0].Items[0].ProductName)
	assert.Equal(t, "Northern Foods", sessions[0].Items[0].CompanyName)

	// Repair is read-side only; the row still holds the corrupt values.
	raw, err := st.SessionItems(ctx, sessions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", raw[0].ProductName)
}

func TestUpdateItemPersists(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Squid Ring"].ID, Quantity: 1, Unit: "case"}))
	_, err := e.Archive(ctx)
	require.NoError(t, err)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	itemID := sessions[0].Items[0].ID

	qty := 7.0
	stock := "restocked"
	require.NoError(t, e.UpdateItem(ctx, itemID, ItemUpdate{Quantity: &qty, Stock: &stock}))

	sessions, err = e.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.0, sessions[0].Items[0].Quantity)
	assert.Equal(t, "restocked", sessions[0].Items[0].Stock)

	bad := -1.0
	assert.ErrorIs(t, e.UpdateItem(ctx, itemID, ItemUpdate{Quantity: &bad}), apperr.ErrValidation)
	assert.ErrorIs(t, e.UpdateItem(ctx, "missing", ItemUpdate{Stock: &stock}), apperr.ErrNotFound)
}

func TestDeleteLastItemKeepsSession(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Squid Ring"].ID, Quantity: 1, Unit: "case"}))
	_, err := e.Archive(ctx)
	require.NoError(t, err)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions[0].Items, 1)

	require.NoError(t, e.DeleteItem(ctx, sessions[0].Items[0].ID))

	sessions, err = e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Empty(t, sessions[0].Items)

	assert.ErrorIs(t, e.DeleteItem(ctx, "missing"), apperr.ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Squid Ring"].ID, Quantity: 1, Unit: "case"}))
	sessionID, err := e.Archive(ctx)
	require.NoError(t, err)

	require.NoError(t, e.DeleteSession(ctx, sessionID))

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	items, err := st.SessionItems(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, e.DeleteSession(ctx, sessionID), apperr.ErrNotFound)
}

func TestAppendManualItem(t *testing.T) {
	e, _, draft := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, draft.Set(DraftItem{ProductID: "p", Quantity: 1, Unit: "case"}))
	sessionID, err := e.Archive(ctx)
	require.NoError(t, err)

	err = e.AppendItem(ctx, sessionID, ManualItem{
		ProductName: "Hand-counted Crab",
		CompanyName: "Dockside",
		Quantity:    4,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, e.AppendItem(ctx, sessionID, ManualItem{Quantity: 1}), apperr.ErrValidation)
	assert.ErrorIs(t, e.AppendItem(ctx, sessionID, ManualItem{ProductName: "X", Quantity: 0}), apperr.ErrValidation)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions[0].Items, 2)

	var manual *HistoryItem
	for i := range sessions[0].Items {
		if sessions[0].Items[i].ProductName == "Hand-counted Crab" {
			manual = &sessions[0].Items[i]
		}
	}
	require.NotNil(t, manual)
	assert.Empty(t, manual.ProductID)
	assert.Equal(t, "case", manual.Unit) // default unit
	assert.Equal(t, "Dockside", manual.CompanyName)
}

func TestReplaceSessionItemsIsDestructive(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Frozen Shrimp"].ID, Quantity: 1, Unit: "case"}))
	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Squid Ring"].ID, Quantity: 2, Unit: "case"}))
	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Pork Dumplings"].ID, Quantity: 3, Unit: "case"}))
	sessionID, err := e.Archive(ctx)
	require.NoError(t, err)

	err = e.ReplaceSessionItems(ctx, sessionID, []ManualItem{
		{ProductName: "Frozen Shrimp", CompanyName: "Ocean Co", Quantity: 10, Unit: "case"},
		{ProductName: "New Lobster", CompanyName: "Dockside", Quantity: 1, Unit: "piece"},
	})
	require.NoError(t, err)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions[0].Items, 2)

	names := []string{sessions[0].Items[0].ProductName, sessions[0].Items[1].ProductName}
	assert.ElementsMatch(t, []string{"Frozen Shrimp", "New Lobster"}, names)
}

func TestRenameSession(t *testing.T) {
	e, _, draft := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, draft.Set(DraftItem{ProductID: "p", Quantity: 1, Unit: "case"}))
	sessionID, err := e.Archive(ctx)
	require.NoError(t, err)

	require.NoError(t, e.RenameSession(ctx, sessionID, "weekly restock"))

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, "weekly restock", sessions[0].Name)

	assert.ErrorIs(t, e.RenameSession(ctx, "missing", "x"), apperr.ErrNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	e, st, draft := newTestEngine(t)
	ctx := context.Background()
	catalog := seedCatalog(t, st)

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Frozen Shrimp"].ID, Quantity: 1, Unit: "case"}))
	first, err := e.Archive(ctx)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond) // created_at must differ between sessions

	require.NoError(t, draft.Set(DraftItem{ProductID: catalog["Squid Ring"].ID, Quantity: 1, Unit: "case"}))
	second, err := e.Archive(ctx)
	require.NoError(t, err)

	sessions, err := e.History(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second, sessions[0].ID)
	assert.Equal(t, first, sessions[1].ID)
}
