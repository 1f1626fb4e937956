// internal/importer/tabular.go
package importer

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"

	"github.com/wyliang/frostorder/internal/apperr"
)

const productNameHeader = "Product Name"

// ParseProductNames extracts the ordered "Product Name" column from the
// first sheet of an uploaded workbook. The header is matched
// case-insensitively; blank cells are dropped. CSV exports are accepted as a
// fallback for suppliers that cannot produce xlsx.
func ParseProductNames(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, apperr.Parse("empty spreadsheet upload")
	}
	// xlsx files are zip containers and always start with the PK signature.
	if bytes.HasPrefix(data, []byte("PK")) {
		return parseWorkbook(data)
	}
	return parseCSV(data)
}

func parseWorkbook(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Parse("unreadable workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Parse("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperr.Parse("reading sheet %q: %v", sheets[0], err)
	}
	return namesFromRows(rows)
}

func parseCSV(data []byte) ([]string, error) {
	// Legacy exports arrive in assorted single-byte encodings; sniff and
	// convert before parsing.
	r, err := charset.NewReader(bytes.NewReader(data), "text/csv")
	if err != nil {
		return nil, apperr.Parse("unsupported csv encoding: %v", err)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Parse("unreadable csv: %v", err)
		}
		rows = append(rows, rec)
	}
	return namesFromRows(rows)
}

func namesFromRows(rows [][]string) ([]string, error) {
	if len(rows) == 0 {
		return nil, apperr.Parse("spreadsheet has no rows")
	}

	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), productNameHeader) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, apperr.Parse("no %q column in first sheet", productNameHeader)
	}

	var names []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[col])
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
