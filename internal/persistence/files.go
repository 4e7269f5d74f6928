package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kasi-noc/incident-tickets/internal/config"
	"github.com/kasi-noc/incident-tickets/internal/domain"
	"github.com/kasi-noc/incident-tickets/pkg/csvtable"
)

// InitializeFiles prepares the data and upload directories and writes
// header-only ticket and history tables when they do not exist yet. It is
// safe to call on every start.
func InitializeFiles(cfg config.StorageConfig, logger *zap.Logger) error {
	for _, dir := range []string{cfg.DataDir, cfg.UploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	tables := []struct {
		path   string
		header []string
	}{
		{path: cfg.TicketsFile(), header: domain.TicketColumns},
		{path: cfg.HistoryFile(), header: domain.HistoryColumns},
	}
	for _, table := range tables {
		created, err := ensureTable(table.path, table.header)
		if err != nil {
			return err
		}
		if created {
			logger.Info("created table", zap.String("path", table.path))
		}
	}
	return nil
}

func ensureTable(path string, header []string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(csvtable.EncodeHeader(header) + "\n"); err != nil {
		return false, fmt.Errorf("write header %s: %w", path, err)
	}
	return true, nil
}
