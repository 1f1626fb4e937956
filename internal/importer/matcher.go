// internal/importer/matcher.go
package importer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/wyliang/frostorder/internal/apperr"
	"github.com/wyliang/frostorder/internal/store"
)

type MatchResult struct {
	Products      []store.Product
	MatchedImages int
}

// BuildProducts joins parsed product names against the image index and tags
// every record with the pending batch code. An image matches on the exact
// name first, then on the lowercased name; a name with no match gets a nil
// image. No fuzzy matching: a name that differs from the filename in
// punctuation or whitespace will not match (see the zero-match confirmation
// in Run).
func BuildProducts(names []string, images map[string]string, companyName, batchCode string) (MatchResult, error) {
	if strings.TrimSpace(companyName) == "" {
		return MatchResult{}, apperr.Validation("company name is required")
	}

	res := MatchResult{Products: make([]store.Product, 0, len(names))}
	for _, name := range names {
		var img *string
		if uri, ok := images[name]; ok {
			img = &uri
		} else if uri, ok := images[strings.ToLower(name)]; ok {
			img = &uri
		}
		if img != nil {
			res.MatchedImages++
		}
		res.Products = append(res.Products, store.Product{
			ID:          uuid.NewString(),
			Name:        name,
			ImageURL:    img,
			CompanyName: companyName,
			BatchCode:   batchCode,
		})
	}
	return res, nil
}
