// internal/store/history.go
package store

import (
	"context"

	"github.com/wyliang/frostorder/internal/apperr"
)

func (s *Store) CreateSession(ctx context.Context, sess *OrderSession) error {
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return apperr.RemoteWrite("insert order session", err)
	}
	return nil
}

// Sessions returns archived sessions, newest first.
func (s *Store) Sessions(ctx context.Context) ([]OrderSession, error) {
	var out []OrderSession
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SessionItems(ctx context.Context, sessionID string) ([]OrderItem, error) {
	var out []OrderItem
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) InsertItems(ctx context.Context, items []OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return apperr.RemoteWrite("insert order items", err)
	}
	return nil
}

// UpdateItem applies column updates to one line item.
func (s *Store) UpdateItem(ctx context.Context, itemID string, updates map[string]any) error {
	res := s.db.WithContext(ctx).Model(&OrderItem{}).Where("id = ?", itemID).Updates(updates)
	if res.Error != nil {
		return apperr.RemoteWrite("update order item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("order item", itemID)
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	res := s.db.WithContext(ctx).Delete(&OrderItem{}, "id = ?", itemID)
	if res.Error != nil {
		return apperr.RemoteWrite("delete order item", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("order item", itemID)
	}
	return nil
}

func (s *Store) DeleteSessionItems(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Delete(&OrderItem{}, "session_id = ?", sessionID).Error; err != nil {
		return apperr.RemoteWrite("delete session items", err)
	}
	return nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	res := s.db.WithContext(ctx).Delete(&OrderSession{}, "id = ?", sessionID)
	if res.Error != nil {
		return apperr.RemoteWrite("delete order session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("order session", sessionID)
	}
	return nil
}

func (s *Store) RenameSession(ctx context.Context, sessionID, name string) error {
	res := s.db.WithContext(ctx).Model(&OrderSession{}).Where("id = ?", sessionID).Update("name", name)
	if res.Error != nil {
		return apperr.RemoteWrite("rename order session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("order session", sessionID)
	}
	return nil
}
