// internal/store/suppliers.go
package store

import (
	"context"
	"strings"

	"github.com/wyliang/frostorder/internal/apperr"
)

func (s *Store) Suppliers(ctx context.Context) ([]Supplier, error) {
	var out []Supplier
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddSupplier(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("supplier name is required")
	}
	if err := s.db.WithContext(ctx).Create(&Supplier{Name: name}).Error; err != nil {
		return apperr.RemoteWrite("insert supplier", err)
	}
	return nil
}

func (s *Store) RenameSupplier(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validation("supplier name is required")
	}
	res := s.db.WithContext(ctx).Model(&Supplier{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return apperr.RemoteWrite("rename supplier", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("supplier", id)
	}
	return nil
}

func (s *Store) DeleteSuppliers(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&Supplier{}, "id IN ?", ids).Error; err != nil {
		return apperr.RemoteWrite("delete suppliers", err)
	}
	return nil
}
