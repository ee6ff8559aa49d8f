package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sensiblebit/keykit"
)

// maxScanFileSize bounds how much of a candidate file is considered during a
// scan. Keys are small; anything bigger is almost certainly not one.
const maxScanFileSize = 1 << 20

// ScanPath walks a file or directory tree, classifies every regular file
// with the discovery engine, and catalogs the ones that turn out to be keys.
// Files that do not classify are counted and skipped, not errors.
func ScanPath(db *DB, root string, password []byte) (ScanSummary, error) {
	var summary ScanSummary
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		summary.Scanned++
		if info.Size() == 0 || info.Size() > maxScanFileSize {
			summary.Skipped++
			return nil
		}
		if err := scanFile(db, path, password); err != nil {
			slog.Debug("file did not classify", "path", path, "error", err)
			summary.Skipped++
			return nil
		}
		summary.Keys++
		return nil
	})
	if err != nil {
		return summary, err
	}
	return summary, nil
}

// scanFile classifies one file and catalogs it on success. The descriptor is
// closed before returning so key material never outlives the record.
func scanFile(db *DB, path string, password []byte) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	desc, err := keykit.Discover(data, password)
	if err != nil {
		return err
	}
	defer desc.Close()

	sum := sha256.Sum256(data)
	rec := KeyRecord{
		Path:         path,
		Fingerprint:  hex.EncodeToString(sum[:]),
		KeyType:      string(desc.KeyType()),
		Algorithm:    string(desc.Algorithm()),
		Format:       string(desc.Format()),
		Encoding:     string(desc.Encoding()),
		BitLength:    desc.KeyLength(),
		DiscoveredAt: time.Now().UTC(),
	}
	if err := db.InsertKey(rec); err != nil {
		return err
	}
	slog.Info("cataloged key", "path", path, "algorithm", rec.Algorithm, "format", rec.Format, "type", rec.KeyType)
	return nil
}
