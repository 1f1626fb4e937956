// internal/store/catalog.go
package store

import (
	"context"

	"github.com/wyliang/frostorder/internal/apperr"
)

// Chunk sizes for catalog writes. Inserts go one record at a time because
// image payloads are embedded in the row and the store rejects large bodies;
// deletes carry ids only and can go wider.
const (
	ingestChunkSize = 1
	deleteChunkSize = 50
)

// Progress reports cumulative (done, total) after each committed chunk.
type Progress func(done, total int)

// Products returns the full catalog, newest import first.
func (s *Store) Products(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AddProducts persists the batch in sequential chunks. On a chunk failure the
// remaining chunks are abandoned and the error propagates; chunks already
// written stay written.
func (s *Store) AddProducts(ctx context.Context, products []Product, onProgress Progress) error {
	total := len(products)
	for i := 0; i < total; i += ingestChunkSize {
		end := i + ingestChunkSize
		if end > total {
			end = total
		}
		chunk := products[i:end]
		if err := s.db.WithContext(ctx).Create(&chunk).Error; err != nil {
			return apperr.RemoteWrite("insert products", err)
		}
		if onProgress != nil {
			onProgress(end, total)
		}
	}
	return nil
}

// DeleteProducts removes catalog rows in chunks of 50. Same partial-failure
// contract as AddProducts.
func (s *Store) DeleteProducts(ctx context.Context, ids []string, onProgress Progress) error {
	total := len(ids)
	for i := 0; i < total; i += deleteChunkSize {
		end := i + deleteChunkSize
		if end > total {
			end = total
		}
		if err := s.db.WithContext(ctx).Delete(&Product{}, "id IN ?", ids[i:end]).Error; err != nil {
			return apperr.RemoteWrite("delete products", err)
		}
		if onProgress != nil {
			onProgress(end, total)
		}
	}
	return nil
}

// LastBatchCode returns the highest batch code present, or "0000" for an
// empty catalog.
func (s *Store) LastBatchCode(ctx context.Context) (string, error) {
	var codes []string
	err := s.db.WithContext(ctx).
		Model(&Product{}).
		Order("batch_code DESC").
		Limit(1).
		Pluck("batch_code", &codes).Error
	if err != nil {
		return "", err
	}
	if len(codes) == 0 || codes[0] == "" {
		return "0000", nil
	}
	return codes[0], nil
}
