package storage

import (
	"fmt"
	"path/filepath"

	"github.com/its-jojoo/otterclip/internal/adapter/storage/file"
	"github.com/its-jojoo/otterclip/internal/adapter/storage/memory"
	"github.com/its-jojoo/otterclip/internal/adapter/storage/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*file.Store)(nil)
	_ Store = (*memory.Store)(nil)
)

// Open returns the store for driver, rooted at dataDir.
func Open(driver, dataDir string) (Store, error) {
	switch driver {
	case "", DriverSQLite:
		return sqlite.Open(filepath.Join(dataDir, "history.db"))
	case DriverFile:
		return file.New(filepath.Join(dataDir, "history.json")), nil
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
