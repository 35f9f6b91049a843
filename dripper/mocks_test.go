package dripper

import (
	"math/big"
	"sync"
	"time"

	"github.com/tarancss/faucet/lib/msg"
	"github.com/tarancss/faucet/lib/store"
)

// sentTx records one transfer submitted to the mock chain.
type sentTx struct {
	nonce   uint64
	to      string
	amount  *big.Int
	assetID int64
}

// mockChain implements chain.Adapter against in-memory state, recording every call.
type mockChain struct {
	mu sync.Mutex

	nonce   uint64             // value GetNonce returns
	balance *big.Int           // native balance of any address
	assets  map[int64]*big.Int // asset balances of any address
	exists  map[int64]bool

	nonceErr    error
	transferErr error

	nonceStarted chan struct{} // if non-nil, signalled when GetNonce is entered
	nonceHold    chan struct{} // if non-nil, GetNonce blocks until it is closed

	calls []string
	sent  []sentTx
}

func newMockChain() *mockChain {
	return &mockChain{
		balance: big.NewInt(0),
		assets:  make(map[int64]*big.Int),
		exists:  make(map[int64]bool),
	}
}

func (m *mockChain) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockChain) called(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *mockChain) GetBalance(address string) (*big.Int, error) {
	m.record("GetBalance")
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.balance), nil
}

func (m *mockChain) GetAsset(address string, assetID int64) (*big.Int, error) {
	m.record("GetAsset")
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.assets[assetID]; ok {
		return new(big.Int).Set(b), nil
	}
	return big.NewInt(0), nil
}

func (m *mockChain) ExistAsset(assetID int64) (bool, error) {
	m.record("ExistAsset")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists[assetID], nil
}

func (m *mockChain) GetNonce(address string) (uint64, error) {
	if m.nonceStarted != nil {
		m.nonceStarted <- struct{}{}
	}
	if m.nonceHold != nil {
		<-m.nonceHold
	}
	m.record("GetNonce")
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nonce, m.nonceErr
}

func (m *mockChain) TransferBalances(amount *big.Int, address string, nonce uint64) (string, error) {
	m.record("TransferBalances")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transferErr != nil {
		return "", m.transferErr
	}
	m.sent = append(m.sent, sentTx{nonce: nonce, to: address, amount: new(big.Int).Set(amount), assetID: NativeAsset})
	return "0x2ba030485e79b5a98275b45d940e6fdd07b40dea593ef3b2a69b0a02a68a5872", nil
}

func (m *mockChain) TransferAssets(amount *big.Int, address string, nonce uint64, assetID int64) (string, error) {
	m.record("TransferAssets")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transferErr != nil {
		return "", m.transferErr
	}
	m.sent = append(m.sent, sentTx{nonce: nonce, to: address, amount: new(big.Int).Set(amount), assetID: assetID})
	return "0xdbd3184b2f947dab243071000df22cf5acc6efdce90a04aaf057521b1ee5bf60", nil
}

func (m *mockChain) Healthcheck() error { return nil }

func (m *mockChain) Close() {}

// memStore implements store.DB in memory.
type memStore struct {
	mu      sync.Mutex
	recs    []store.DripRecord
	saveErr error
	saved   chan struct{} // if non-nil, signalled after every SaveDrip attempt
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) SaveDrip(assetID int64, addrDigest string) error {
	s.mu.Lock()
	err := s.saveErr
	if err == nil {
		s.recs = append(s.recs, store.DripRecord{
			ID:         int64(len(s.recs) + 1),
			Timestamp:  time.Now(),
			AssetID:    assetID,
			AddrDigest: addrDigest,
		})
	}
	s.mu.Unlock()

	if s.saved != nil {
		s.saved <- struct{}{}
	}
	return err
}

func (s *memStore) HasDripped(assetID int64, addrDigest string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.recs {
		if r.AssetID == assetID && r.AddrDigest == addrDigest && r.Timestamp.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) GetDrips(assetID int64, addrDigest string) ([]store.DripRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var recs []store.DripRecord
	for _, r := range s.recs {
		if r.AssetID == assetID && r.AddrDigest == addrDigest {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

// stubVerifier accepts the configured token only.
type stubVerifier struct {
	accept string
}

func (v stubVerifier) Validate(token string) (bool, error) {
	return token == v.accept, nil
}

// mockBroker records published drip events.
type mockBroker struct {
	mu     sync.Mutex
	events []msg.DripEvent
	sent   chan struct{} // if non-nil, signalled after every SendDrip
}

func (b *mockBroker) Setup(interface{}) error { return nil }

func (b *mockBroker) Close() error { return nil }

func (b *mockBroker) SendDrip(net string, e msg.DripEvent) error {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()

	if b.sent != nil {
		b.sent <- struct{}{}
	}
	return nil
}
