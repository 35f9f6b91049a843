package db

import (
	"errors"
	"testing"
)

// TestNewUnknownType checks that a database type with no implementation errors instead of handing back a nil
// connection.
func TestNewUnknownType(t *testing.T) {
	dh, err := New("couchdb", "couchdb://localhost")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("error:%v expected:%v", err, ErrUnknownType)
	}
	if dh != nil {
		t.Errorf("connection:%v expected:nil", dh)
	}
}
