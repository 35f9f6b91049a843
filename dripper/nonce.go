package dripper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tarancss/faucet/lib/chain"
)

// NonceSyncInterval is the default period of the background nonce resynchronization loop.
const NonceSyncInterval = 10 * time.Second

// NonceSource owns the faucet account's transaction sequence number. It is the only component allowed to read
// or advance it: submitters obtain unique, strictly increasing nonces through Next, and a background loop
// periodically realigns the local counter with the network's view through Resync.
//
// Nonce synchronization is tricky. Blindly incrementing the nonce each transaction might brick the faucet
// effectively, yet the network only advances its counter when a transaction finalizes. Resyncs are therefore
// skipped while submissions are pending, and issuance blocks until the first resync has completed.
type NonceSource struct {
	bc      chain.Adapter
	address string

	mu      sync.Mutex
	nonce   uint64
	gen     uint64 // bumped on every issuance, invalidates a resync fetch that an issuance raced
	pending map[uint64]struct{}
	synced  bool
	ready   chan struct{}

	done chan struct{}
}

// NewNonceSource returns a nonce source for the faucet account on the given network connection. No nonce can
// be issued until the first Resync succeeds.
func NewNonceSource(bc chain.Adapter, address string) *NonceSource {
	return &NonceSource{
		bc:      bc,
		address: address,
		pending: make(map[uint64]struct{}),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Ready returns a channel that is closed once the first resync has completed. The process bootstrap waits on
// it before serving requests.
func (n *NonceSource) Ready() <-chan struct{} {
	return n.ready
}

// Next issues the next nonce, registering it as a pending submission. The returned release function must be
// called when the submission resolves, successfully or not, so resyncs can run again. Next blocks until the
// first resync has completed or ctx is done.
func (n *NonceSource) Next(ctx context.Context) (uint64, func(), error) {
	select {
	case <-n.ready:
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	v := n.nonce
	n.nonce++
	n.gen++
	n.pending[v] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.pending, v)
			n.mu.Unlock()
		})
	}

	return v, release, nil
}

// Resync refreshes the locally tracked nonce from the network. The refresh is skipped while submissions are
// pending: finalization timing is unknown, and overwriting the counter mid-flight would desynchronize the two
// nonce sources. A value that differs from the local one is logged, it signals a prior desync and is
// diagnostic only.
func (n *NonceSource) Resync() error {
	n.mu.Lock()
	if len(n.pending) > 0 {
		n.mu.Unlock()

		return nil
	}
	gen := n.gen
	n.mu.Unlock()

	fresh, err := n.bc.GetNonce(n.address)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.gen != gen || len(n.pending) > 0 {
		// an issuance raced the fetch, the fetched value is already stale
		return nil
	}

	if n.synced && fresh != n.nonce {
		log.Printf("[%s] Nonce updated from %d to %d", n.address, n.nonce, fresh)
	}

	n.nonce = fresh

	if !n.synced {
		n.synced = true
		close(n.ready)
	}

	return nil
}

// Start launches the background resync loop with the given interval. A failed resync is logged and retried on
// the next tick, it never takes the process down.
func (n *NonceSource) Start(interval time.Duration) {
	go func() {
		if err := n.Resync(); err != nil {
			log.Printf("[%s] Error syncing nonce:%e", n.address, err)
		}

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				if err := n.Resync(); err != nil {
					log.Printf("[%s] Error syncing nonce:%e", n.address, err)
				}
			case <-n.done:
				return
			}
		}
	}()
}

// Stop terminates the background resync loop.
func (n *NonceSource) Stop() {
	close(n.done)
}
