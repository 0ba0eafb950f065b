package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.rowdb/internal/config"
	"go.rowdb/internal/logger"
	"go.rowdb/internal/table"
)

// ResolvePath maps a database argument to a file path. A name with no
// separator and no .db suffix lives under the app data dir; anything else
// is taken as a literal path.
func ResolvePath(name string, cfg *config.Config) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".db") {
		return name, nil
	}

	dbDir := filepath.Join(cfg.DataDir, name)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dbDir, name+".db"), nil
}

// Open opens the named database, wiring its per-database log file.
func Open(name string, cfg *config.Config) (*Database, error) {
	dbPath, err := ResolvePath(name, cfg)
	if err != nil {
		return nil, err
	}

	logPath := filepath.Join(cfg.LogDir, filepath.Base(strings.TrimSuffix(dbPath, ".db"))+".log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log := logger.New(logFile, logger.ParseLevel(cfg.LogLevel))

	tbl, err := table.Open(dbPath, log, cfg.RowCache)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	return &Database{
		table:   tbl,
		logFile: logFile,
		path:    dbPath,
	}, nil
}
