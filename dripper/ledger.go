package dripper

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/tarancss/faucet/lib/store"
)

// QuotaWindow is the default lookback span during which an address/asset pair may draw at most once.
const QuotaWindow = 20 * time.Hour

// Digest returns the hex-encoded SHA-256 of an address. The ledger stores and queries digests only, so no raw
// address ever rests in the database while exact-match lookups keep working.
func Digest(address string) string {
	h := sha256.Sum256([]byte(address))

	return hex.EncodeToString(h[:])
}

// Ledger decides drip eligibility and durably records successful drips.
type Ledger struct {
	db     store.DB
	window time.Duration
	now    func() time.Time
}

// NewLedger returns a quota ledger over db. A non-positive window selects the default.
func NewLedger(db store.DB, window time.Duration) *Ledger {
	if window <= 0 {
		window = QuotaWindow
	}

	return &Ledger{db: db, window: window, now: time.Now}
}

// IsEligible reports whether the address may draw from the asset: false if a drip for the same pair exists
// within the lookback window.
func (l *Ledger) IsEligible(address string, assetID int64) (bool, error) {
	dripped, err := l.db.HasDripped(assetID, Digest(address), l.now().Add(-l.window))
	if err != nil {
		return false, err
	}

	return !dripped, nil
}

// RecordDrip appends a disbursement record for the address/asset pair, timestamped now.
func (l *Ledger) RecordDrip(address string, assetID int64) error {
	return l.db.SaveDrip(assetID, Digest(address))
}
