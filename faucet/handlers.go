package faucet

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tarancss/faucet/dripper"
)

// Errors returned to client requests.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrMissingAddress = errors.New("missing parameter: 'address'")
	ErrMissingAssetID = errors.New("missing parameter: 'asset_id'")
	ErrMissingCaptcha = errors.New("missing parameter: 'recaptcha'")
	ErrBadAssetID     = errors.New("asset_id is not a valid integer")
)

// errOperationFailed is the opaque message replied on server-side failures. Internals never reach the client.
const errOperationFailed = "Operation failed."

// DripRequest is the payload of a drip request. AssetID is a pointer so an absent field can be told apart from
// an explicit value; the native currency must be requested as -1.
type DripRequest struct {
	Address   string `json:"address"`
	AssetID   *int64 `json:"asset_id"`
	Recaptcha string `json:"recaptcha"`
}

// DripResponse is replied to successful drip requests.
type DripResponse struct {
	Hash string `json:"hash"`
}

// ErrorResponse is replied to failed drip requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BalanceResponse is replied to balance requests.
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// homeHandler just replies a welcome message to the client.
func (f *Faucet) homeHandler(rw http.ResponseWriter, r *http.Request) {
	// log request
	log.Printf("httpreq from %v %s\n", r.RemoteAddr, r.RequestURI)
	// just reply a welcome message
	rw.Header().Set("Content-Type", "application/json;charset=utf8")
	_ = json.NewEncoder(rw).Encode(map[string]string{"body": "Hello, this is your " + f.net + " faucet!"})
}

// healthHandler replies 200 when the blockchain node is reachable and 503 otherwise.
func (f *Faucet) healthHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	defer func() {
		// reply to requester accordingly
		rw.Header().Set("Content-Type", "application/json;charset=utf8")

		if err != nil {
			rw.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(rw).Encode(map[string]string{"status": "unavailable"})
		} else {
			rw.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(rw).Encode(map[string]string{"status": "ok"})
		}
		// log request
		log.Printf("httpreq from %v %s err:%e\n", r.RemoteAddr, r.RequestURI, err)
	}()

	err = f.bc.Healthcheck()
}

// balanceHandler replies the faucet account's balance of the requested asset. A failed node query replies a
// zero balance, clients polling the faucet's level must not see transient node errors as faucet errors.
func (f *Faucet) balanceHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	res := BalanceResponse{Balance: "0"}

	defer func() {
		// reply to requester accordingly, a balance of "0" on error
		if err != nil {
			log.Printf("[%s] Error getting faucet balance:%e", f.net, err)

			res.Balance = "0"
		}
		// log request and balance
		log.Printf("httpreq from %v %s balance:%s err:%e\n", r.RemoteAddr, r.RequestURI, res.Balance, err)
		// reply
		rw.Header().Set("Content-Type", "application/json;charset=utf8")
		rw.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(rw).Encode(&res)
	}()

	v := mux.Vars(r)

	var assetID int64

	if assetID, err = strconv.ParseInt(v["asset_id"], 10, 64); err != nil {
		err = ErrBadAssetID

		return
	}

	var bal *big.Int

	if bal, err = f.acc.Balance(assetID); err == nil {
		res.Balance = bal.String()
	}
}

// dripHandler validates and submits a drip request, replying the transaction hash on success. Request failures
// reply 400 with the reason; failures of the faucet's own collaborators reply 500 with an opaque message.
func (f *Faucet) dripHandler(rw http.ResponseWriter, r *http.Request) {
	var err error

	var hash string

	defer func() {
		// reply to requester accordingly
		rw.Header().Set("Content-Type", "application/json;charset=utf8")

		switch {
		case err == nil:
			rw.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(rw).Encode(DripResponse{Hash: hash})
		case errors.Is(err, dripper.ErrOperation):
			rw.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(rw).Encode(ErrorResponse{Error: errOperationFailed})
		default:
			rw.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(rw).Encode(ErrorResponse{Error: fmt.Sprintf("%s", err)})
		}
		// log request and tx hash
		log.Printf("httpreq from %v %s hash:%s err:%e\n", r.RemoteAddr, r.RequestURI, hash, err)
	}()

	// get request
	var req DripRequest

	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding drip request %+v\n", r.Body)

		err = ErrBadRequest

		return
	}

	if req.Address == "" {
		err = ErrMissingAddress

		return
	}

	if req.AssetID == nil {
		err = ErrMissingAssetID

		return
	}

	if req.Recaptcha == "" {
		err = ErrMissingCaptcha

		return
	}

	// the drip amount is fixed by configuration, clients never choose it
	hash, err = f.drip.Handle(r.Context(), dripper.Request{
		Address: req.Address,
		Amount:  f.amount,
		AssetID: *req.AssetID,
		Captcha: req.Recaptcha,
	})
}
