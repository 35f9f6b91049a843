// Package dripper implements the core of the faucet: the drip request workflow, the quota ledger and the
// coordination of the faucet account's transaction sequence number under concurrent request load.
package dripper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"

	"github.com/tarancss/faucet/lib/captcha"
	"github.com/tarancss/faucet/lib/msg"
)

// Errors returned to drip requests that fail the eligibility gate. ErrOperation marks failures of the
// faucet's own collaborators (captcha transport, ledger queries) rather than of the request, so the HTTP layer
// can report them as server errors without leaking internals.
var (
	ErrCaptcha   = errors.New("captcha validation was unsuccessful")
	ErrQuota     = errors.New("requester has reached their daily quota, only request once per day")
	ErrOperation = errors.New("operation failed")
)

// Request carries one drip request through the handler.
type Request struct {
	Address string
	Amount  *big.Int
	AssetID int64
	Captcha string
}

// Handler composes the eligibility checks with the transfer submission and the ledger write. One handler
// instance is constructed at process startup and injected into the HTTP service; it serializes nothing itself,
// serialization happens inside the account's NonceSource.
type Handler struct {
	acc     *Account
	ledger  *Ledger
	captcha captcha.Verifier
	mb      msg.MsgBroker // optional, nil when no broker is configured
}

// NewHandler returns a drip request handler. mb may be nil.
func NewHandler(acc *Account, ledger *Ledger, v captcha.Verifier, mb msg.MsgBroker) *Handler {
	return &Handler{acc: acc, ledger: ledger, captcha: v, mb: mb}
}

// Handle validates the captcha and the quota, submits the transfer and, on success, records the drip and
// publishes an event. Neither the ledger write nor the event publication block the response: the requester
// already has their tokens, a lost record is logged and accepted as a known trade-off rather than coupling the
// user-visible response to an unrelated store.
func (h *Handler) Handle(ctx context.Context, req Request) (string, error) {
	totalRequests.Inc()

	ok, err := h.captcha.Validate(req.Captcha)
	if err != nil {
		log.Printf("[%s] Error validating captcha:%e", h.acc.net, err)

		return "", fmt.Errorf("%w: could not validate captcha", ErrOperation)
	}

	if !ok {
		return "", ErrCaptcha
	}

	eligible, err := h.ledger.IsEligible(req.Address, req.AssetID)
	if err != nil {
		log.Printf("[%s] Error checking quota:%e", h.acc.net, err)

		return "", fmt.Errorf("%w: could not check quota", ErrOperation)
	}

	if !eligible {
		return "", ErrQuota
	}

	hash, err := h.acc.SendTokens(ctx, req.Address, req.Amount, req.AssetID)
	if err != nil {
		return "", err
	}

	successfulRequests.Inc()

	go func() {
		if err := h.ledger.RecordDrip(req.Address, req.AssetID); err != nil {
			log.Printf("[%s] Error recording drip to ledger:%e", h.acc.net, err)
		}
	}()

	if h.mb != nil {
		go func() {
			e := msg.DripEvent{
				Net:     h.acc.net,
				Hash:    hash,
				To:      req.Address,
				AssetID: req.AssetID,
				Amount:  req.Amount.String(),
			}
			if err := h.mb.SendDrip(h.acc.net, e); err != nil {
				log.Printf("[%s] Error sending drip event to message broker:%e", h.acc.net, err)
			}
		}()
	}

	return hash, nil
}
