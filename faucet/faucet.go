// Package faucet implements the faucet microservice.
//
// This microservice implements a RESTful API for clients to request drips (disbursements of the network's
// currency or fungible assets) to an address, and to query the faucet account's balances.
package faucet

import (
	"context"
	"log"
	"math/big"
	"net/http"

	"github.com/tarancss/faucet/dripper"
	"github.com/tarancss/faucet/lib/chain"
	"github.com/tarancss/faucet/lib/msg"
	"github.com/tarancss/faucet/lib/store"
	"github.com/tarancss/faucet/lib/store/db"
)

// Faucet contains the data necessary to deliver the service
type Faucet struct {
	net    string
	amount *big.Int // drip amount in base units, fixed by configuration
	dbtype string
	db     store.DB        // db connection
	bc     chain.Adapter   // blockchain client
	acc    *dripper.Account
	drip   *dripper.Handler
	mb     msg.MsgBroker
	s      *http.Server  // http server
	ss     *http.Server  // https server
	sc     chan struct{} // http server channel used for graceful shutdowns
}

// New returns a pointer to a new Faucet service
func New(net string, amount *big.Int, dbtype string, dbConn store.DB, mb msg.MsgBroker, bc chain.Adapter,
	acc *dripper.Account, drip *dripper.Handler) *Faucet {
	return &Faucet{
		net:    net,
		amount: amount,
		dbtype: dbtype,
		db:     dbConn,
		mb:     mb,
		bc:     bc,
		acc:    acc,
		drip:   drip,
	}
}

// Stop shuts down the http servers implementing the RESTful API and closes gracefully the connections to
// message broker and database.
func (f *Faucet) Stop() {
	var err error
	// shutdown http server
	if f.s != nil {
		if err = f.s.Shutdown(context.Background()); err != nil {
			log.Printf("Error in http server shutdown:%e", err)
		}
	}
	if f.ss != nil {
		if err = f.ss.Shutdown(context.Background()); err != nil {
			log.Printf("Error in https server shutdown:%e", err)
		}
	}
	close(f.sc) // close server channel to indicate shutdowns have finished
	// close message broker
	if f.mb != nil {
		if err = f.mb.Close(); err != nil {
			log.Printf("Error closing message broker:%e", err)
		}
	}
	// close database
	if f.db != nil {
		err = db.Close(f.dbtype, f.db)
		log.Printf("Disconnecting %v database, err:%e\n", f.dbtype, err)
	}
}
