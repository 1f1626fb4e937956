// internal/importer/images.go
package importer

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"io"
	"path"
	"strings"

	"github.com/wyliang/frostorder/internal/apperr"
)

// IndexImages unpacks a zip of product photos into a base-filename → data-URI
// map. Each image is stored under its exact base name (extension stripped)
// and the lowercased form; on a key collision the later archive entry wins.
// The count is the number of files indexed, not the number of keys.
func IndexImages(data []byte) (map[string]string, int, error) {
	images := map[string]string{}
	if len(data) == 0 {
		return images, 0, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, apperr.Parse("unreadable image archive: %v", err)
	}

	count := 0
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := entry.Name
		// macOS zips ship resource-fork folders and dot-files; neither holds
		// a product photo.
		if strings.Contains(name, "__MACOSX") || strings.HasPrefix(path.Base(name), ".") {
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return nil, 0, apperr.Parse("opening %q in archive: %v", name, err)
		}
		payload, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, 0, apperr.Parse("reading %q in archive: %v", name, err)
		}

		base := path.Base(name)
		if dot := strings.LastIndex(base, "."); dot >= 0 {
			base = base[:dot]
		}
		uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
		images[base] = uri
		images[strings.ToLower(base)] = uri
		count++
	}
	return images, count, nil
}
