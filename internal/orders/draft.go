// internal/orders/draft.go
package orders

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wyliang/frostorder/internal/apperr"
	"github.com/wyliang/frostorder/internal/cache"
	"github.com/wyliang/frostorder/internal/store"
)

const draftSlot = "current_orders"

// DraftItem is one in-progress order line. At most one exists per product;
// setting a line for the same product overwrites it outright.
type DraftItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Stock     string  `json:"stock"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"` // case | piece
}

// DraftStore keeps the caller's unarchived order as a product-id → item map
// in one local cache slot. Every mutation rewrites the whole serialized map.
// It is single-writer, process-local state: nothing here coordinates two
// browsing contexts.
type DraftStore struct {
	mu    sync.Mutex
	cache *cache.Handle
}

func NewDraftStore(c *cache.Handle) *DraftStore {
	return &DraftStore{cache: c}
}

// All returns the current draft mapping; an untouched draft reads as empty.
func (d *DraftStore) All() (map[string]DraftItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readLocked()
}

// Set validates and stores one line, replacing any existing line for the
// same product.
func (d *DraftStore) Set(item DraftItem) error {
	if strings.TrimSpace(item.ProductID) == "" {
		return apperr.Validation("draft item needs a product id")
	}
	if item.Quantity <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	if item.Unit != store.UnitCase && item.Unit != store.UnitPiece {
		return apperr.Validation("unit must be %q or %q", store.UnitCase, store.UnitPiece)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	draft, err := d.readLocked()
	if err != nil {
		return err
	}
	draft[item.ProductID] = item
	return d.writeLocked(draft)
}

func (d *DraftStore) Remove(productID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, err := d.readLocked()
	if err != nil {
		return err
	}
	if _, ok := draft[productID]; !ok {
		return nil
	}
	delete(draft, productID)
	return d.writeLocked(draft)
}

// Prune drops draft lines referencing the given products. Called after a
// catalog delete so the draft cannot keep pointing at vanished rows.
func (d *DraftStore) Prune(productIDs []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, err := d.readLocked()
	if err != nil {
		return err
	}
	changed := false
	for _, id := range productIDs {
		if _, ok := draft[id]; ok {
			delete(draft, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return d.writeLocked(draft)
}

// Clear wipes the draft. Only called once an archive has fully succeeded.
func (d *DraftStore) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache.Delete(draftSlot)
}

func (d *DraftStore) readLocked() (map[string]DraftItem, error) {
	raw, ok, err := d.cache.Get(draftSlot)
	if err != nil {
		return nil, err
	}
	draft := map[string]DraftItem{}
	if !ok || raw == "" {
		return draft, nil
	}
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, apperr.Parse("corrupt draft slot: %v", err)
	}
	return draft, nil
}

func (d *DraftStore) writeLocked(draft map[string]DraftItem) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return d.cache.Put(draftSlot, string(raw))
}
