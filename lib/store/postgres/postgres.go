// Package postgres implements the store interface for PostgreSQL.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" //nolint:gci // load the postgres driver that is used by the system

	"github.com/tarancss/faucet/lib/store"
)

// schema is applied at connection time. The drip table is an append-only audit log, indexed for the
// eligibility lookup by asset and address digest.
const schema = `
CREATE TABLE IF NOT EXISTS drip (
	id SERIAL PRIMARY KEY,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
	asset_id BIGINT NOT NULL,
	address_sha256 VARCHAR(64) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_drip_asset_id ON drip (asset_id);
CREATE INDEX IF NOT EXISTS idx_drip_address_sha256 ON drip (address_sha256);`

// Postgres implements a connection to a PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

// New returns a postgres client connection to the specified database in 'connection' with the drip schema
// in place.
func New(connection string) (*Postgres, error) {
	db, err := sql.Open("postgres", connection)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB in %s: %w", connection, err)
	}

	if _, err = db.Exec(schema); err != nil {
		return nil, fmt.Errorf("cannot apply drip schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

// ClosePostgres will close any database connection. Must be called at termination time.
func (p *Postgres) ClosePostgres() error {
	return p.db.Close()
}

// SaveDrip inserts a new drip record for the digest/asset pair, timestamped by the database.
func (p *Postgres) SaveDrip(assetID int64, addrDigest string) error {
	_, err := p.db.Exec(`INSERT INTO drip (asset_id, address_sha256) VALUES ($1, $2)`, assetID, addrDigest)
	if err != nil {
		return fmt.Errorf("could not insert drip in db: %w", err)
	}

	return nil
}

// HasDripped reports whether the digest/asset pair has a record newer than since.
func (p *Postgres) HasDripped(assetID int64, addrDigest string, since time.Time) (bool, error) {
	var exists bool

	err := p.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM drip WHERE asset_id = $1 AND address_sha256 = $2 AND timestamp > $3)`,
		assetID, addrDigest, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("could not query drips in db: %w", err)
	}

	return exists, nil
}

// GetDrips returns all records for the digest/asset pair, most recent first.
func (p *Postgres) GetDrips(assetID int64, addrDigest string) ([]store.DripRecord, error) {
	rows, err := p.db.Query(
		`SELECT id, timestamp, asset_id, address_sha256 FROM drip WHERE asset_id = $1 AND address_sha256 = $2 ORDER BY timestamp DESC`,
		assetID, addrDigest)
	if err != nil {
		return nil, fmt.Errorf("could not query drips in db: %w", err)
	}
	defer rows.Close()

	var recs []store.DripRecord

	for rows.Next() {
		var r store.DripRecord
		if err = rows.Scan(&r.ID, &r.Timestamp, &r.AssetID, &r.AddrDigest); err != nil {
			return nil, fmt.Errorf("could not scan drip row: %w", err)
		}

		recs = append(recs, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read drip rows: %w", err)
	}

	return recs, nil
}
