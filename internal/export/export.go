// Package export flattens sessions and drafts into fully resolved order
// rows, sorted by company name then product name, and writes them as the
// standard xlsx order sheet.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/wyliang/frostorder/internal/orders"
	"github.com/wyliang/frostorder/internal/store"
)

// Row is one exporter line with every display field already resolved.
type Row struct {
	ProductName string
	CompanyName string
	Quantity    float64
	Unit        string
	Stock       string
	ImageURL    *string
}

// SessionRows flattens a repaired history session into exporter order.
func SessionRows(s orders.Session) []Row {
	rows := make([]Row, 0, len(s.Items))
	for _, it := range s.Items {
		rows = append(rows, Row{
			ProductName: it.ProductName,
			CompanyName: it.CompanyName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Stock:       it.Stock,
			ImageURL:    it.ImageURL,
		})
	}
	sortRows(rows)
	return rows
}

// DraftRows resolves the current draft against a catalog snapshot. Lines
// whose product is missing from the snapshot keep sentinel display values,
// matching archive-time behavior.
func DraftRows(draft map[string]orders.DraftItem, products []store.Product) []Row {
	byID := make(map[string]store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	rows := make([]Row, 0, len(draft))
	for _, it := range draft {
		row := Row{
			ProductName: "Unknown",
			CompanyName: "Unknown",
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			Stock:       it.Stock,
		}
		if p, ok := byID[it.ProductID]; ok {
			row.ProductName = p.Name
			row.CompanyName = p.CompanyName
			row.ImageURL = p.ImageURL
		}
		rows = append(rows, row)
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].CompanyName != rows[j].CompanyName {
			return rows[i].CompanyName < rows[j].CompanyName
		}
		return rows[i].ProductName < rows[j].ProductName
	})
}

// WriteOrderSheet renders the rows as a one-sheet xlsx workbook.
func WriteOrderSheet(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Order Details"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"No.", "Product Name", "Company", "Quantity", "Stock Info"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		stock := r.Stock
		if stock == "" {
			stock = "-"
		}
		values := []any{
			i + 1,
			r.ProductName,
			r.CompanyName,
			fmt.Sprintf("%v %s", r.Quantity, r.Unit),
			stock,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
