// internal/orders/history.go
package orders

import (
	"context"
	"strings"

	"github.com/wyliang/frostorder/internal/store"
)

// HistoryItem is a line item as displayed: stored snapshot fields, already
// repaired against the live catalog where the snapshot was missing.
type HistoryItem struct {
	ID          string
	ProductID   string // empty for manual entries
	ProductName string
	CompanyName string
	ImageURL    *string
	Stock       string
	Quantity    float64
	Unit        string
}

type Session struct {
	ID        string
	Label     string
	Name      string
	Timestamp string
	Items     []HistoryItem
}

// History reads all sessions newest-first and repairs line items on the fly:
// a stored name or company that is blank or the "Unknown" sentinel is
// re-resolved from the live catalog by product id, and a missing image falls
// back to the catalog's current one. When the product no longer exists the
// stored values stand, however stale; repair degrades silently and never
// fails the read. Repaired values are for display only; nothing is written
// back.
func (e *Engine) History(ctx context.Context) ([]Session, error) {
	sessions, err := e.store.Sessions(ctx)
	if err != nil {
		return nil, err
	}

	products, err := e.store.Products(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]Session, 0, len(sessions))
	for _, sess := range sessions {
		items, err := e.store.SessionItems(ctx, sess.ID)
		if err != nil {
			e.log.Warn().Err(err).Str("session", sess.ID).Msg("skipping session: items unreadable")
			continue
		}

		view := Session{
			ID:        sess.ID,
			Label:     sess.Label,
			Name:      sess.Name,
			Timestamp: sess.CreatedAt.Format("2006-01-02 15:04:05"),
			Items:     make([]HistoryItem, 0, len(items)),
		}
		for _, it := range items {
			view.Items = append(view.Items, repairItem(it, byID))
		}
		out = append(out, view)
	}
	return out, nil
}

func repairItem(it store.OrderItem, byID map[string]store.Product) HistoryItem {
	var live *store.Product
	productID := ""
	if it.ProductID != nil {
		productID = *it.ProductID
		if p, ok := byID[*it.ProductID]; ok {
			live = &p
		}
	}

	name := it.ProductName
	if name == "" || name == unknownValue {
		if live != nil {
			name = live.Name
		} else {
			name = unknownProduct
		}
	}
	company := it.CompanyName
	if company == "" || company == unknownValue {
		if live != nil {
			company = live.CompanyName
		} else {
			company = unknownCompany
		}
	}
	image := it.ImageURL
	if image == nil && live != nil {
		image = live.ImageURL
	}

	return HistoryItem{
		ID:          it.ID,
		ProductID:   productID,
		ProductName: name,
		CompanyName: company,
		ImageURL:    image,
		Stock:       it.Stock,
		Quantity:    it.Quantity,
		Unit:        it.Unit,
	}
}

// ItemUpdate carries the editable fields of a line item; nil means leave the
// stored value alone.
type ItemUpdate struct {
	Quantity *float64
	Stock    *string
}

func (e *Engine) UpdateItem(ctx context.Context, itemID string, upd ItemUpdate) error {
	updates := map[string]any{}
	if upd.Quantity != nil {
		if *upd.Quantity <= 0 {
			return errQuantity()
		}
		updates["quantity"] = *upd.Quantity
	}
	if upd.Stock != nil {
		updates["stock"] = *upd.Stock
	}
	if len(updates) == 0 {
		return nil
	}
	return e.store.UpdateItem(ctx, itemID, updates)
}

// DeleteItem removes one line item. The parent session stays even when this
// was its last item.
func (e *Engine) DeleteItem(ctx context.Context, itemID string) error {
	return e.store.DeleteItem(ctx, itemID)
}

// DeleteSession removes a session and its items: two independent remote
// deletes, items first. A failure between the two leaves an empty session
// behind, which a retry can delete.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	if err := e.store.DeleteSessionItems(ctx, sessionID); err != nil {
		return err
	}
	return e.store.DeleteSession(ctx, sessionID)
}

func (e *Engine) RenameSession(ctx context.Context, sessionID, name string) error {
	return e.store.RenameSession(ctx, sessionID, name)
}

// ManualItem is a caller-supplied line for appending to or replacing within
// an archived session. ProductID may be nil for fully manual entries.
type ManualItem struct {
	ProductID   *string
	ProductName string
	CompanyName string
	ImageURL    *string
	Stock       string
	Quantity    float64
	Unit        string
}

// AppendItem adds one line to an already-archived session without touching
// the catalog.
func (e *Engine) AppendItem(ctx context.Context, sessionID string, m ManualItem) error {
	item, err := manualToItem(sessionID, m)
	if err != nil {
		return err
	}
	return e.store.InsertItems(ctx, []store.OrderItem{item})
}

// ReplaceSessionItems wholesale-replaces a session's line items: delete all
// existing rows, then insert the replacement set. Not a diff: any existing
// item missing from the replacement set is permanently lost, so callers
// revising a session must pass the complete intended set.
func (e *Engine) ReplaceSessionItems(ctx context.Context, sessionID string, items []ManualItem) error {
	rows := make([]store.OrderItem, 0, len(items))
	for _, m := range items {
		row, err := manualToItem(sessionID, m)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if err := e.store.DeleteSessionItems(ctx, sessionID); err != nil {
		return err
	}
	return e.store.InsertItems(ctx, rows)
}

func manualToItem(sessionID string, m ManualItem) (store.OrderItem, error) {
	if strings.TrimSpace(m.ProductName) == "" {
		return store.OrderItem{}, errProductName()
	}
	if m.Quantity <= 0 {
		return store.OrderItem{}, errQuantity()
	}
	unit := m.Unit
	if unit == "" {
		unit = store.UnitCase
	}
	return store.OrderItem{
		SessionID:   sessionID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		CompanyName: m.CompanyName,
		ImageURL:    m.ImageURL,
		Stock:       m.Stock,
		Quantity:    m.Quantity,
		Unit:        unit,
	}, nil
}
