// Package messageutil encodes short text messages into OP_RETURN outputs and
// parses the rate announcements some services publish that way.
package messageutil

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

const rateVersionV1 = "v1.0.0"

var (
	// ErrInvalidMessage ...
	ErrInvalidMessage = fmt.Errorf(
		"message must not exceed %d bytes", network.OpReturnBytes,
	)
	// ErrNoMessage ...
	ErrNoMessage = errors.New("script does not carry an OP_RETURN message")
	// ErrUnknownRateVersion ...
	ErrUnknownRateVersion = errors.New("unknown rate message version")
	// ErrMalformedRate ...
	ErrMalformedRate = errors.New("malformed rate message")

	rateVersionRegexp = regexp.MustCompile(`^(v\d+\.\d+\.\d+)\|RATE`)
)

// Rate is a fiat rate announced via OP_RETURN message.
type Rate struct {
	Currency string
	Rate     decimal.Decimal
}

// IsValidMessage returns whether the message fits in an OP_RETURN output.
func IsValidMessage(message string) bool {
	return len([]byte(message)) <= network.OpReturnBytes
}

// Encode returns the script OP_RETURN <message>.
func Encode(message string) ([]byte, error) {
	if !IsValidMessage(message) {
		return nil, ErrInvalidMessage
	}
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_RETURN).
		AddData([]byte(message)).
		Script()
}

// Decode returns the message pushed right after the OP_RETURN of the given
// script.
func Decode(script []byte) (string, error) {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	found := false
	for tokenizer.Next() {
		if found {
			if tokenizer.Data() == nil {
				return "", ErrNoMessage
			}
			return string(tokenizer.Data()), nil
		}
		found = tokenizer.Opcode() == txscript.OP_RETURN
	}
	return "", ErrNoMessage
}

// EncodeRate returns the OP_RETURN script announcing the given rate for the
// given amount type (btc, jpy...).
func EncodeRate(amountType string, rate decimal.Decimal) ([]byte, error) {
	return Encode(fmt.Sprintf("%s|RATE|%s|%s", rateVersionV1, amountType, rate))
}

// ParseRate parses a rate message. Only v1.0.0 messages are supported.
func ParseRate(message string) (*Rate, error) {
	match := rateVersionRegexp.FindStringSubmatch(message)
	if len(match) < 2 {
		return nil, ErrMalformedRate
	}

	switch match[1] {
	case rateVersionV1:
		return parseRateV1(message)
	default:
		return nil, ErrUnknownRateVersion
	}
}

func parseRateV1(message string) (*Rate, error) {
	sp := strings.Split(message, "|")
	if len(sp) < 4 {
		return nil, ErrMalformedRate
	}
	rate, err := decimal.NewFromString(sp[3])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedRate, err)
	}
	return &Rate{Currency: sp[2], Rate: rate}, nil
}
