package services

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/netpulse/netpulse/internal/database"
)

// Fingerprint computes the deterministic correlation key for a detected
// condition. Two signals with the same source, asset, category and title
// always hash to the same fingerprint, which is what the event
// deduplicator keys on. A nil asset reference is rendered as an empty
// field rather than rejected; availability wins over strict validation on
// the ingest path.
func Fingerprint(source database.EventSource, assetID *uint, category database.AlertCategory, title string) string {
	id := ""
	if assetID != nil {
		id = strconv.FormatUint(uint64(*assetID), 10)
	}
	sum := sha256.Sum256([]byte(string(source) + ":" + id + ":" + string(category) + ":" + title))
	return hex.EncodeToString(sum[:])
}
