// Package store defines the interface for database implementations to the faucet microservice.
package store

import (
	"errors"
	"time"
)

// DB defines required methods for the faucet's quota ledger. Implementations receive address digests only,
// never raw addresses.
type DB interface {
	// SaveDrip appends a disbursement record for the digest/asset pair. Records are never updated or deleted.
	SaveDrip(assetID int64, addrDigest string) error
	// HasDripped reports whether a record for the digest/asset pair exists with a timestamp after since.
	HasDripped(assetID int64, addrDigest string, since time.Time) (bool, error)
	// GetDrips returns the records for the digest/asset pair, most recent first.
	GetDrips(assetID int64, addrDigest string) ([]DripRecord, error)
}

// Errors returned
var (
	ErrDataNotFound = errors.New("data was not found in store")
)
