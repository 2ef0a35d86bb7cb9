package storage

import (
	"fmt"
	"os"
)

// SQLite keeps uncheckpointed pages in these side files next to the database in WAL mode.
const (
	walSuffix = "-wal"
	shmSuffix = "-shm"
)

// DatabaseUsage is the on-disk size of a SQLite database and its WAL side files.
type DatabaseUsage struct {
	Database  int64 `json:"database"`
	WAL       int64 `json:"wal"`
	SharedMem int64 `json:"shm"`
}

// Total returns the combined size in bytes.
func (u DatabaseUsage) Total() int64 {
	return u.Database + u.WAL + u.SharedMem
}

// DatabaseSize reports the size of the database at dbPath and its -wal/-shm files.
// Side files that do not exist count as zero; a missing database is an error.
func DatabaseSize(dbPath string) (DatabaseUsage, error) {
	var u DatabaseUsage
	if dbPath == "" {
		return u, fmt.Errorf("database path is empty")
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return u, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return u, fmt.Errorf("database path %s is a directory", dbPath)
	}
	u.Database = info.Size()
	if u.WAL, err = sideFileSize(dbPath + walSuffix); err != nil {
		return u, err
	}
	if u.SharedMem, err = sideFileSize(dbPath + shmSuffix); err != nil {
		return u, err
	}
	return u, nil
}

func sideFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}
