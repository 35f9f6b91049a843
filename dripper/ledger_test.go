package dripper

import (
	"strings"
	"testing"
	"time"
)

const requester = "0xcba75F167B03e34B8a572c50273C082401b073Ed"

// TestDigest checks the digest is deterministic, fixed-format and non-reversible by inspection.
func TestDigest(t *testing.T) {
	d1 := Digest(requester)
	d2 := Digest(requester)

	if d1 != d2 {
		t.Errorf("digest is not deterministic: %s != %s", d1, d2)
	}
	if len(d1) != 64 {
		t.Errorf("digest length:%d expected:64", len(d1))
	}
	if strings.Contains(strings.ToLower(d1), strings.ToLower(requester)) {
		t.Errorf("digest contains the raw address")
	}
	if Digest(strings.ToLower(requester)) == d1 {
		t.Errorf("digests of distinct inputs collided")
	}
}

// TestLedgerQuota checks the eligibility window: ineligible right after a drip for the same pair, eligible for
// a different asset, eligible again once the lookback window has elapsed.
func TestLedgerQuota(t *testing.T) {
	s := newMemStore()
	l := NewLedger(s, 0) // default window

	// first-time requester is eligible
	if ok, err := l.IsEligible(requester, 7); err != nil || !ok {
		t.Fatalf("eligible:%v err:%v expected:true", ok, err)
	}

	if err := l.RecordDrip(requester, 7); err != nil {
		t.Fatalf("Error recording drip:%e", err)
	}

	// same pair within the window is not eligible
	if ok, _ := l.IsEligible(requester, 7); ok {
		t.Errorf("requester is still eligible right after a drip")
	}
	// a different asset is
	if ok, _ := l.IsEligible(requester, 8); !ok {
		t.Errorf("requester is not eligible for a different asset")
	}
	// and a different address is
	if ok, _ := l.IsEligible("0x1cd434711fbae1f2d9c70001409fd82d71fdccaa", 7); !ok {
		t.Errorf("a different address is not eligible")
	}

	// simulate the clock: 21 hours later the window has elapsed
	l.now = func() time.Time { return time.Now().Add(21 * time.Hour) }
	if ok, _ := l.IsEligible(requester, 7); !ok {
		t.Errorf("requester is not eligible after the lookback window elapsed")
	}
}

// TestLedgerStoresDigestOnly checks that the raw address never reaches the store.
func TestLedgerStoresDigestOnly(t *testing.T) {
	s := newMemStore()
	l := NewLedger(s, 0)

	if err := l.RecordDrip(requester, 7); err != nil {
		t.Fatalf("Error recording drip:%e", err)
	}

	recs, err := s.GetDrips(7, Digest(requester))
	if err != nil || len(recs) != 1 {
		t.Fatalf("recs:%v err:%v expected one record", recs, err)
	}

	r := recs[0]
	if r.AddrDigest != Digest(requester) {
		t.Errorf("stored digest:%s expected:%s", r.AddrDigest, Digest(requester))
	}
	if strings.Contains(strings.ToLower(r.AddrDigest), strings.ToLower(requester)) {
		t.Errorf("raw address leaked into the persisted record")
	}
	if r.AssetID != 7 {
		t.Errorf("assetID:%d expected:7", r.AssetID)
	}
}
