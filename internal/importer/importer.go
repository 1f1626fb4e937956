// Package importer turns an uploaded spreadsheet plus an optional image
// archive into catalog rows in the remote store. Writes are chunked and
// strictly sequential; a mid-run failure leaves the chunks already written
// in place.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wyliang/frostorder/internal/store"
)

// ErrAborted is returned when the operator declines the zero-image-match
// confirmation. Nothing has been written when it is returned.
var ErrAborted = errors.New("import aborted by operator")

// ConfirmFunc asks the operator to acknowledge a suspicious import. Return
// false to abort before any write.
type ConfirmFunc func(msg string) bool

type Importer struct {
	log     zerolog.Logger
	store   *store.Store
	confirm ConfirmFunc
}

func New(log zerolog.Logger, st *store.Store, confirm ConfirmFunc) *Importer {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Importer{log: log, store: st, confirm: confirm}
}

type RunResult struct {
	BatchCode     string
	Imported      int
	ArchiveImages int
	MatchedImages int
}

// NextBatchCode derives the pending batch code: the numeric successor of the
// highest code in the catalog, zero-padded to 4 digits. The counter lives in
// the data itself, so a completed import advances it implicitly.
func (i *Importer) NextBatchCode(ctx context.Context) (string, error) {
	last, err := i.store.LastBatchCode(ctx)
	if err != nil {
		return "", fmt.Errorf("reading last batch code: %w", err)
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		n = 0
	}
	return fmt.Sprintf("%04d", n+1), nil
}

// Run executes one import: parse the sheet, index the archive, join the two,
// then persist chunk by chunk with progress reporting. archive may be nil
// when the upload has no photos. When an archive was supplied but not a
// single image matched a parsed name, the operator must confirm before
// anything is written; declining returns ErrAborted with zero rows written.
func (i *Importer) Run(ctx context.Context, sheet, archive []byte, companyName string, onProgress store.Progress) (RunResult, error) {
	names, err := ParseProductNames(sheet)
	if err != nil {
		return RunResult{}, err
	}

	images, imageCount, err := IndexImages(archive)
	if err != nil {
		return RunResult{}, err
	}

	batch, err := i.NextBatchCode(ctx)
	if err != nil {
		return RunResult{}, err
	}

	matched, err := BuildProducts(names, images, companyName, batch)
	if err != nil {
		return RunResult{}, err
	}

	i.log.Info().
		Str("batch", batch).
		Int("names", len(names)).
		Int("archive_images", imageCount).
		Int("matched", matched.MatchedImages).
		Msg("import parsed")

	// A populated archive that matches nothing usually means the filename
	// convention is off, not that images are optional.
	if len(archive) > 0 && len(names) > 0 && matched.MatchedImages == 0 {
		if !i.confirm("no images were matched to products, continue anyway?") {
			i.log.Warn().Str("batch", batch).Msg("import aborted: zero image matches declined")
			return RunResult{}, ErrAborted
		}
	}

	if err := i.store.AddProducts(ctx, matched.Products, onProgress); err != nil {
		i.log.Error().Err(err).Str("batch", batch).Msg("import halted; written chunks kept")
		return RunResult{}, err
	}

	res := RunResult{
		BatchCode:     batch,
		Imported:      len(matched.Products),
		ArchiveImages: imageCount,
		MatchedImages: matched.MatchedImages,
	}
	i.log.Info().Str("batch", batch).Int("imported", res.Imported).Msg("import complete")
	return res, nil
}
