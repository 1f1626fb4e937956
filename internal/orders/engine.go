// Package orders moves an order through its lifecycle: draft lines in the
// local cache, archival into the remote history, and later reads and edits
// of that history. Line items carry denormalized product snapshots so they
// survive catalog drift; reads opportunistically repair them, writes never
// re-validate them.
package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wyliang/frostorder/internal/apperr"
	"github.com/wyliang/frostorder/internal/store"
)

// Sentinels written when the catalog snapshot no longer holds the product at
// archive time.
const (
	unknownValue   = "Unknown"
	unknownProduct = "Unknown Product"
	unknownCompany = "Unknown Company"
)

type Engine struct {
	log   zerolog.Logger
	store *store.Store
	draft *DraftStore
}

func NewEngine(log zerolog.Logger, st *store.Store, draft *DraftStore) *Engine {
	return &Engine{log: log, store: st, draft: draft}
}

// Draft exposes the engine's draft store.
func (e *Engine) Draft() *DraftStore { return e.draft }

// Archive converts the current draft into one history session. Two
// sequential remote writes: the session row, then the line items with
// display fields resolved from a catalog snapshot taken now. If the item
// insert fails after the session insert succeeded, the empty session stays
// behind; there is no compensating delete. The draft is wiped only when both
// writes succeed.
func (e *Engine) Archive(ctx context.Context) (string, error) {
	draft, err := e.draft.All()
	if err != nil {
		return "", err
	}
	if len(draft) == 0 {
		return "", apperr.Validation("draft is empty, nothing to archive")
	}

	products, err := e.store.Products(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching catalog snapshot: %w", err)
	}
	byID := make(map[string]store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := time.Now()
	sess := store.OrderSession{
		Label:     fmt.Sprintf("SESSION_%d", now.UnixMilli()),
		CreatedAt: now,
	}
	if err := e.store.CreateSession(ctx, &sess); err != nil {
		return "", err
	}

	lines := make([]DraftItem, 0, len(draft))
	for _, it := range draft {
		lines = append(lines, it)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	items := make([]store.OrderItem, 0, len(lines))
	for _, it := range lines {
		productID := it.ProductID
		item := store.OrderItem{
			SessionID:   sess.ID,
			ProductID:   &productID,
			ProductName: unknownValue,
			CompanyName: unknownValue,
			Stock:       it.Stock,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			CreatedAt:   now,
		}
		if p, ok := byID[it.ProductID]; ok {
			item.ProductName = p.Name
			item.CompanyName = p.CompanyName
			item.ImageURL = p.ImageURL
		}
		items = append(items, item)
	}

	if err := e.store.InsertItems(ctx, items); err != nil {
		// Orphan session accepted; see package doc.
		e.log.Error().Err(err).Str("session", sess.ID).Msg("item insert failed after session insert; empty session left behind")
		return "", err
	}

	if err := e.draft.Clear(); err != nil {
		return "", fmt.Errorf("clearing draft after archive: %w", err)
	}

	e.log.Info().Str("session", sess.ID).Int("items", len(items)).Msg("draft archived")
	return sess.ID, nil
}

func errQuantity() error    { return apperr.Validation("quantity must be positive") }
func errProductName() error { return apperr.Validation("product name is required") }

// DeleteProducts removes catalog rows and prunes any draft lines that
// referenced them.
func (e *Engine) DeleteProducts(ctx context.Context, ids []string, onProgress store.Progress) error {
	if err := e.store.DeleteProducts(ctx, ids, onProgress); err != nil {
		return err
	}
	return e.draft.Prune(ids)
}
