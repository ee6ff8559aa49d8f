package internal

import "time"

// KeyRecord is one cataloged key. Only classification metadata and a
// one-way fingerprint are stored; private key material never reaches the
// database.
type KeyRecord struct {
	Path         string    `db:"path"`
	Fingerprint  string    `db:"fingerprint"`
	KeyType      string    `db:"key_type"`
	Algorithm    string    `db:"algorithm"`
	Format       string    `db:"format"`
	Encoding     string    `db:"encoding"`
	BitLength    int       `db:"bit_length"`
	DiscoveredAt time.Time `db:"discovered_at"`
}

// ScanSummary reports what a catalog scan found.
type ScanSummary struct {
	Scanned int // files visited
	Keys    int // files that classified as keys
	Skipped int // files that did not classify
}
