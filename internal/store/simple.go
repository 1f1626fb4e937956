// internal/store/simple.go
//
// The simple-order variant: a flat order form with no catalog behind it.
// One session is active at a time (EndedAt null); ending it moves it into
// the simple history.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wyliang/frostorder/internal/apperr"
)

// ActiveSimpleSession finds the open session, creating one when none exists.
func (s *Store) ActiveSimpleSession(ctx context.Context) (*SimpleOrderSession, error) {
	var sess SimpleOrderSession
	err := s.db.WithContext(ctx).Where("ended_at IS NULL").Take(&sess).Error
	if err == nil {
		return &sess, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	sess = SimpleOrderSession{}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, apperr.RemoteWrite("insert simple session", err)
	}
	return &sess, nil
}

// SimpleOrders lists a session's rows in exporter order: company, then
// product.
func (s *Store) SimpleOrders(ctx context.Context, sessionID string) ([]SimpleOrder, error) {
	var out []SimpleOrder
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("company_name ASC").
		Order("product_name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddSimpleOrder(ctx context.Context, o *SimpleOrder) error {
	if strings.TrimSpace(o.ProductName) == "" {
		return apperr.Validation("product name is required")
	}
	if o.Quantity <= 0 {
		return apperr.Validation("quantity must be positive")
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return apperr.RemoteWrite("insert simple order", err)
	}
	return nil
}

func (s *Store) UpdateSimpleOrder(ctx context.Context, id string, updates map[string]any) error {
	res := s.db.WithContext(ctx).Model(&SimpleOrder{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return apperr.RemoteWrite("update simple order", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("simple order", id)
	}
	return nil
}

func (s *Store) DeleteSimpleOrder(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&SimpleOrder{}, "id = ?", id)
	if res.Error != nil {
		return apperr.RemoteWrite("delete simple order", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("simple order", id)
	}
	return nil
}

func (s *Store) EndSimpleSession(ctx context.Context, sessionID string) error {
	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&SimpleOrderSession{}).
		Where("id = ?", sessionID).
		Update("ended_at", &now)
	if res.Error != nil {
		return apperr.RemoteWrite("end simple session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("simple session", sessionID)
	}
	return nil
}

// SimpleHistory lists ended sessions, most recently ended first.
func (s *Store) SimpleHistory(ctx context.Context) ([]SimpleOrderSession, error) {
	var out []SimpleOrderSession
	err := s.db.WithContext(ctx).
		Where("ended_at IS NOT NULL").
		Order("ended_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
