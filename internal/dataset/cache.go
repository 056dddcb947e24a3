package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecommerce-dashboard/internal/models"
)

const cacheVersion = "v2"

type snapshot struct {
	Rows      []models.Transaction
	CreatedAt time.Time
}

func snapshotFilename(dir, csvPath string) string {
	name := strings.ReplaceAll(filepath.ToSlash(csvPath), "/", "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.gob", name, cacheVersion))
}

func saveSnapshot(dir, csvPath string, rows []models.Transaction) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(snapshotFilename(dir, csvPath))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(snapshot{
		Rows:      rows,
		CreatedAt: time.Now(),
	})
}

func loadSnapshot(dir, csvPath string) (*snapshot, error) {
	file, err := os.Open(snapshotFilename(dir, csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data snapshot
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, err
	}

	return &data, nil
}
