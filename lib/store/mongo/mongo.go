// Package mongo implements the store interface for MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mgo "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tarancss/faucet/lib/store"
)

// Mongo implements a connection to a MongoDB database.
type Mongo struct {
	c *mgo.Client
}

// mongoDrip implements a store drip record to MongoDB.
type mongoDrip struct {
	Timestamp  time.Time `bson:"timestamp"`
	AssetID    int64     `bson:"assetId"`
	AddrDigest string    `bson:"addressSha256"`
}

// record converts a mongoDrip to store.DripRecord type.
func (d mongoDrip) record() store.DripRecord {
	return store.DripRecord{Timestamp: d.Timestamp, AssetID: d.AssetID, AddrDigest: d.AddrDigest}
}

// New returns a Mongo client connection to the specified MongoDB database uri.
func New(uri string) (*Mongo, error) {
	// get a client
	c, err := mgo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongo DB in %s: %w", uri, err)
	}
	// connect client
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:gomnd // 5 seconds timeout
	defer cancel()

	err = c.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo DB: %w", err)
	}

	return &Mongo{c: c}, nil
}

// CloseMongo will close a database connection. Must be called at termination time.
func (m *Mongo) CloseMongo() error {
	return m.c.Disconnect(context.Background())
}

// drips returns the collection holding the drip records.
func (m *Mongo) drips() *mgo.Collection {
	return m.c.Database("faucet").Collection("drip")
}

// SaveDrip appends a new drip record for the digest/asset pair.
func (m *Mongo) SaveDrip(assetID int64, addrDigest string) error {
	_, err := m.drips().InsertOne(context.Background(),
		mongoDrip{Timestamp: time.Now().UTC(), AssetID: assetID, AddrDigest: addrDigest})
	if err != nil {
		return fmt.Errorf("could not insert drip in db: %w", err)
	}

	return nil
}

// HasDripped reports whether the digest/asset pair has a record newer than since.
func (m *Mongo) HasDripped(assetID int64, addrDigest string, since time.Time) (bool, error) {
	filter := bson.M{
		"assetId":       assetID,
		"addressSha256": addrDigest,
		"timestamp":     bson.M{"$gt": since},
	}

	err := m.drips().FindOne(context.Background(), filter).Err()
	if err == nil {
		return true, nil
	}

	if errors.Is(err, mgo.ErrNoDocuments) {
		return false, nil
	}

	return false, fmt.Errorf("could not query drips in db: %w", err)
}

// GetDrips returns all records for the digest/asset pair, most recent first.
func (m *Mongo) GetDrips(assetID int64, addrDigest string) ([]store.DripRecord, error) {
	filter := bson.M{"assetId": assetID, "addressSha256": addrDigest}

	docs, err := m.drips().Find(context.Background(), filter,
		options.Find().SetSort(bson.M{"timestamp": -1}))
	if err != nil {
		return nil, fmt.Errorf("could not query drips in db: %w", err)
	}

	var recs []store.DripRecord

	for docs.Next(context.Background()) {
		var d mongoDrip
		if err = bson.Unmarshal(docs.Current, &d); err == nil {
			recs = append(recs, d.record())
		}
	}

	return recs, nil
}
