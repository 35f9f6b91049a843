package dripper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/tarancss/faucet/lib/chain"
)

// NativeAsset is the sentinel asset id for the network's native currency.
const NativeAsset int64 = -1

// submitTimeout bounds how long a transfer submission should take before a diagnostic is emitted. The chain
// call is not cancelled: it is awaited to completion or rejection regardless, the timeout is observability
// only.
const submitTimeout = 100 * time.Second

// Errors returned to drip requests.
var (
	ErrUnknownAsset = errors.New("unknown asset id")
	ErrFaucetEmpty  = errors.New("faucet is turned off")
)

// Account is the faucet-controlled account. It answers balance queries and moves value to recipients, drawing
// every transaction's sequence number from its NonceSource.
type Account struct {
	net     string
	address string
	bc      chain.Adapter
	nonces  *NonceSource
}

// NewAccount returns the faucet account for the given network connection.
func NewAccount(net, address string, bc chain.Adapter, nonces *NonceSource) *Account {
	return &Account{net: net, address: address, bc: bc, nonces: nonces}
}

// Address returns the faucet account's address.
func (a *Account) Address() string {
	return a.address
}

// Balance returns the faucet's balance of the given asset, or of the native currency for NativeAsset.
func (a *Account) Balance(assetID int64) (*big.Int, error) {
	if assetID == NativeAsset {
		return a.bc.GetBalance(a.address)
	}

	return a.bc.GetAsset(a.address, assetID)
}

// SendTokens moves amount from the faucet account to address, exactly once, or reports a terminal reason why
// it cannot. An unknown asset id fails before any balance query; an insufficient faucet balance fails before
// any nonce is issued, so the counter is untouched by requests the faucet cannot serve.
func (a *Account) SendTokens(ctx context.Context, address string, amount *big.Int, assetID int64) (string, error) {
	if assetID != NativeAsset {
		ok, err := a.bc.ExistAsset(assetID)
		if err != nil {
			return "", fmt.Errorf("could not check asset %d: %w", assetID, err)
		}

		if !ok {
			return "", ErrUnknownAsset
		}
	}

	bal, err := a.Balance(assetID)
	if err != nil {
		return "", fmt.Errorf("could not get faucet balance: %w", err)
	}

	if bal.Cmp(amount) < 0 {
		return "", ErrFaucetEmpty
	}

	nonce, release, err := a.nonces.Next(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	watchdog := time.AfterFunc(submitTimeout, func() {
		log.Printf("[%s] Oops, drip took more than %v to answer", a.net, submitTimeout)
		rpcTimeouts.Inc()
	})
	defer watchdog.Stop()

	var hash string

	if assetID == NativeAsset {
		log.Printf("[%s] sending balances to %s", a.net, address)
		hash, err = a.bc.TransferBalances(amount, address, nonce)
	} else {
		log.Printf("[%s] sending assets to %s", a.net, address)
		hash, err = a.bc.TransferAssets(amount, address, nonce, assetID)
	}

	if err != nil {
		log.Printf("[%s] An error occurred when sending tokens:%e", a.net, err)

		return "", err
	}

	log.Printf("[%s] sending to %s: done: %s", a.net, address, hash)

	return hash, nil
}
