// Package util contains helper functions used around the code.
package util

import (
	"errors"
	"math/big"
)

// ErrBadAmount is returned when an amount string cannot be parsed into a value.
var ErrBadAmount = errors.New("amount is not a valid base-10 number")

// ToBaseUnits converts an amount expressed in whole currency units (ie. "1.5") into the network's base units
// using the given number of decimals. Fractional digits beyond the decimals are not allowed.
func ToBaseUnits(amount string, decimals int) (*big.Int, error) {
	whole := amount
	frac := ""
	for i := 0; i < len(amount); i++ {
		if amount[i] == '.' {
			whole, frac = amount[:i], amount[i+1:]
			break
		}
	}
	if len(frac) > decimals {
		return nil, ErrBadAmount
	}
	// pad the fractional part up to decimals digits
	for len(frac) < decimals {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, ErrBadAmount
	}
	return v, nil
}

// In returns true if s is found in ss, false otherwise
func In(ss []string, s string) bool {
	for _, v := range ss {
		if s == v {
			return true
		}
	}
	return false
}
