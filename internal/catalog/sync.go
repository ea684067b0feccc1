package catalog

import (
	"log/slog"
	"os"

	"github.com/quillon/fontgrove/internal/checksum"
	"github.com/quillon/fontgrove/internal/fonts"
)

// Sync snapshots the installed registry into the catalog. The whole
// snapshot is swapped in one transaction; per-file read failures (a
// broken link has no readable bytes) degrade to an empty checksum
// rather than failing the sync.
func Sync(db Index, installed *fonts.Installed, logger *slog.Logger) error {
	var rows []FileRow
	installed.Walk(func(fam *fonts.Family, t fonts.Type, size string, file *fonts.File) {
		status := fam.Status(t, size)
		cs := ""
		if status.Usable() {
			if data, err := os.ReadFile(file.Path); err == nil {
				cs = checksum.Sum(data)
			} else {
				logger.Warn("sync: read failed", slog.String("path", file.Path), slog.String("error", err.Error()))
			}
		}
		rows = append(rows, FileRow{
			Path:     file.Path,
			Family:   fam.Name(),
			Type:     string(t),
			Size:     size,
			Status:   status.String(),
			Checksum: cs,
		})
	})

	if err := db.ReplaceAll(rows); err != nil {
		return err
	}
	logger.Debug("sync: catalog updated", slog.Int("files", len(rows)))
	return nil
}
