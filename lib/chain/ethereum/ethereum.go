// Implements the adapter contract for ethereum networks
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tarancss/ethcli"

	"github.com/tarancss/faucet/lib/config"
)

// Ethereum implements a connection to an ethereum-type chain. Balance and token reads go through ethcli;
// transfers are built and signed locally and submitted raw through ethclient, because the dripper must control
// the nonce of every transaction it sends.
type Ethereum struct {
	c      *ethcli.EthCli
	ec     *ethclient.Client
	key    *ecdsa.PrivateKey
	signer types.Signer
	tokens map[int64]string // asset id -> ERC20 contract address
}

// Ethereum ERC20 token methodID (keccak-256 of the function name and arguments)
const (
	ERC20transfer256 = "a9059cbb" // transfer(address,uint256)
)

// Gas limits used for transfers. A plain value transfer costs exactly GasTransfer; token transfers are given
// headroom for the contract execution.
const (
	GasTransfer      uint64 = 21000
	GasTokenTransfer uint64 = 70000
)

// Errors returned
var (
	ErrNoToken = errors.New("asset id is not known to the network adapter")
	ErrConnect = errors.New("cannot connect to ethereum blockchain")
)

// Init returns a connection to an ethereum node, using secret if necessary for authentication. The hex-encoded
// private key signs all transfers, chainID selects the EIP-155 signer and tokens maps faucet asset ids to the
// ERC20 contracts implementing them.
func Init(node, secret, key string, chainID int64, tokens []config.TokenConfig) (*Ethereum, error) {
	c := ethcli.Init(node, secret)
	if c == nil {
		return nil, ErrConnect
	}

	ec, err := ethclient.Dial(node)
	if err != nil {
		return nil, err
	}

	priv, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, err
	}

	tm := make(map[int64]string, len(tokens))
	for _, t := range tokens {
		tm[t.ID] = t.Contract
	}

	return &Ethereum{
		c:      c,
		ec:     ec,
		key:    priv,
		signer: types.NewEIP155Signer(big.NewInt(chainID)),
		tokens: tm,
	}, nil
}

// Close ends the connections
func (e *Ethereum) Close() {
	e.c.End()
	e.ec.Close()
}

// GetBalance returns the ether balance of the address.
func (e *Ethereum) GetBalance(address string) (*big.Int, error) {
	bal, _, err := e.c.GetBalance(address, "")
	if err != nil {
		return nil, err
	}

	return bal, nil
}

// GetAsset returns the balance of the address in the ERC20 token mapped to assetID. A token the address never
// held reads as zero.
func (e *Ethereum) GetAsset(address string, assetID int64) (*big.Int, error) {
	token, ok := e.tokens[assetID]
	if !ok {
		return nil, ErrNoToken
	}

	_, tokBal, err := e.c.GetBalance(address, token)
	if err != nil {
		if errors.Is(err, ethcli.ErrBadAmt) {
			// the token has no balance entry for the address
			return big.NewInt(0), nil
		}

		return nil, err
	}

	return tokBal, nil
}

// ExistAsset reports whether assetID maps to a token contract that answers on-chain.
func (e *Ethereum) ExistAsset(assetID int64) (bool, error) {
	token, ok := e.tokens[assetID]
	if !ok {
		return false, nil
	}
	// probe the contract: a live ERC20 answers decimals()
	if _, err := e.c.GetTokenDecimals(token); err != nil {
		return false, err
	}

	return true, nil
}

// GetNonce returns the next sequence number for the address, including transactions still in the node's pool.
func (e *Ethereum) GetNonce(address string) (uint64, error) {
	return e.ec.PendingNonceAt(context.Background(), common.HexToAddress(address))
}

// TransferBalances submits a signed ether transfer with the given nonce, returning the transaction hash.
func (e *Ethereum) TransferBalances(amount *big.Int, address string, nonce uint64) (string, error) {
	return e.send(nonce, common.HexToAddress(address), amount, GasTransfer, nil)
}

// TransferAssets submits a signed ERC20 transfer with the given nonce, returning the transaction hash.
func (e *Ethereum) TransferAssets(amount *big.Int, address string, nonce uint64, assetID int64) (string, error) {
	token, ok := e.tokens[assetID]
	if !ok {
		return "", ErrNoToken
	}

	// build the transfer(address,uint256) calldata
	data := common.FromHex(ERC20transfer256)
	data = append(data, common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)

	// the value moved is in the calldata, the transaction itself carries none
	return e.send(nonce, common.HexToAddress(token), new(big.Int), GasTokenTransfer, data)
}

// send signs and submits a raw transaction carrying the given nonce.
func (e *Ethereum) send(nonce uint64, to common.Address, value *big.Int, gas uint64, data []byte) (string, error) {
	ctx := context.Background()

	price, err := e.ec.SuggestGasPrice(ctx)
	if err != nil {
		return "", err
	}

	tx, err := types.SignTx(types.NewTransaction(nonce, to, value, gas, price, data), e.signer, e.key)
	if err != nil {
		return "", err
	}

	if err = e.ec.SendTransaction(ctx, tx); err != nil {
		return "", err
	}

	return tx.Hash().Hex(), nil
}

// Healthcheck asks the node for its current block number.
func (e *Ethereum) Healthcheck() error {
	_, err := e.ec.BlockNumber(context.Background())

	return err
}
