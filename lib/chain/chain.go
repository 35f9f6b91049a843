// Package chain defines the interface required for all blockchain or network connections.
package chain

import (
	"errors"
	"math/big"

	"github.com/tarancss/faucet/lib/chain/ethereum"
	"github.com/tarancss/faucet/lib/config"
	"github.com/tarancss/faucet/lib/util"
)

// Adapter is the contract the dripper depends on. It has been designed to be as much standard as possible,
// however, there may be specific blockchains or networks that would require different types or more methods.
type Adapter interface {
	// GetBalance returns the faucet-relevant balance of the address in the network's native currency.
	GetBalance(address string) (*big.Int, error)
	// GetAsset returns the balance of the address in the fungible asset identified by assetID.
	GetAsset(address string, assetID int64) (*big.Int, error)
	// ExistAsset reports whether the asset id identifies a known asset on the network.
	ExistAsset(assetID int64) (bool, error)
	// GetNonce returns the next acceptable sequence number for the address, pending transactions included.
	GetNonce(address string) (uint64, error)
	// TransferBalances submits a signed native-currency transfer carrying the given nonce.
	TransferBalances(amount *big.Int, address string, nonce uint64) (hash string, err error)
	// TransferAssets submits a signed asset transfer carrying the given nonce.
	TransferAssets(amount *big.Int, address string, nonce uint64, assetID int64) (hash string, err error)
	// Healthcheck queries the node to confirm the connection is serviceable.
	Healthcheck() error
	// Close ends the connection.
	Close()
}

// Errors returned
var (
	ErrNoNetwork = errors.New("blockchain interface not defined for network")
)

// ethereumNetworks are the network names served by the ethereum adapter.
var ethereumNetworks = []string{"ropsten", "rinkeby", "mainNet"}

// Init loads the client for the configured network. The faucet account's private key is required to sign
// transfers.
func Init(bc config.BlockConfig, key string) (Adapter, error) {
	if util.In(ethereumNetworks, bc.Name) {
		return ethereum.Init(bc.Node, bc.Secret, key, bc.ChainID, bc.Tokens)
	}

	return nil, ErrNoNetwork
}
