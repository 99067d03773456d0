package mathutil

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	// Precision is the number of decimal places of a coin.
	Precision = 8
	// MaxFeeRate is the highest fee rate accepted, in satoshi per byte
	// (1 coin per byte).
	MaxFeeRate = 100000000
)

var (
	//BigOne represents a single coin in satoshi
	BigOne = uint64(math.Pow10(Precision))
	//BigOneDecimal represents a single coin in satoshi as decimal.Decimal
	BigOneDecimal = decimal.NewFromInt(int64(BigOne))

	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New(
		"amount must be a positive decimal with at most 8 fractional digits",
	)
	// ErrInvalidFeeRate ...
	ErrInvalidFeeRate = errors.New(
		"fee rate must be a positive decimal not above 1 coin per byte",
	)
)

// ParseAmount parses a coin amount in decimal format. Negative, zero or
// malformed amounts, and those with more than 8 fractional digits, are
// rejected.
func ParseAmount(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.Equal(d.Round(Precision)) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// CoinToSatoshi converts the given coin amount in decimal format into
// satoshi.
func CoinToSatoshi(amount string) (uint64, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return 0, err
	}
	sats := d.Mul(BigOneDecimal)
	if !sats.BigInt().IsUint64() {
		return 0, ErrInvalidAmount
	}
	return sats.BigInt().Uint64(), nil
}

// SatoshiToCoin converts the given amount of satoshi into coin.
func SatoshiToCoin(sats uint64) decimal.Decimal {
	return decimal.NewFromInt(int64(sats)).Div(BigOneDecimal)
}

// FormatCoin returns the given amount of satoshi as decimal string with
// exactly 8 fractional digits.
func FormatCoin(sats uint64) string {
	return SatoshiToCoin(sats).StringFixed(Precision)
}

// FeeRateToSatoshi converts a fee rate expressed in coin per byte into
// satoshi per byte, rounded to the nearest integer.
func FeeRateToSatoshi(coinPerByte decimal.Decimal) (uint64, error) {
	sats := coinPerByte.Mul(BigOneDecimal).Round(0)
	if !sats.IsPositive() || sats.GreaterThan(decimal.NewFromInt(MaxFeeRate)) {
		return 0, ErrInvalidFeeRate
	}
	return sats.BigInt().Uint64(), nil
}

// ParseFeeRate parses a fee rate in coin per byte and converts it into
// satoshi per byte.
func ParseFeeRate(coinPerByte string) (uint64, error) {
	d, err := decimal.NewFromString(coinPerByte)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFeeRate, err)
	}
	return FeeRateToSatoshi(d)
}
