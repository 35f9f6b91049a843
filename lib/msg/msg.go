// Package msg defines the interface for different message brokers.
package msg

// DripEvent is the message the faucet publishes for every successful disbursement.
type DripEvent struct {
	Net     string `json:"net"`
	Hash    string `json:"hash"`
	To      string `json:"to"`
	AssetID int64  `json:"assetId"`
	Amount  string `json:"amount"` // base units, decimal string
}

type MsgBroker interface {
	Setup(interface{}) error
	Close() error

	// SendDrip publishes a drip event for consumers following the faucet's activity.
	SendDrip(net string, e DripEvent) error
}
