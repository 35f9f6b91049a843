package chain

import (
	"errors"
	"testing"

	"github.com/tarancss/faucet/lib/config"
)

// TestInitUnknownNetwork checks that a network with no adapter is reported.
func TestInitUnknownNetwork(t *testing.T) {
	_, err := Init(config.BlockConfig{Name: "kusama"}, "")
	if !errors.Is(err, ErrNoNetwork) {
		t.Errorf("error:%v expected:%v", err, ErrNoNetwork)
	}
}
