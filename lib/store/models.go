package store

import "time"

// DripRecord contains the fields of one disbursement saved to DB. AddrDigest is a hex-encoded SHA-256 of the
// recipient address; the raw address is never persisted.
type DripRecord struct {
	ID         int64     `json:"id" bson:"-"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	AssetID    int64     `json:"assetId" bson:"assetId"`
	AddrDigest string    `json:"addressSha256" bson:"addressSha256"`
}
