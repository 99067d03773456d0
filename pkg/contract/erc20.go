package contract

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

// ERC20 method signatures.
const (
	MethodAllowance    = "allowance(address,address)"
	MethodApprove      = "approve(address,uint256)"
	MethodBalanceOf    = "balanceOf(address)"
	MethodDecimals     = "decimals()"
	MethodName         = "name()"
	MethodSymbol       = "symbol()"
	MethodTotalSupply  = "totalSupply()"
	MethodTransfer     = "transfer(address,uint256)"
	MethodTransferFrom = "transferFrom(address,address,uint256)"
)

// ErrInvalidTokenAmount ...
var ErrInvalidTokenAmount = errors.New("invalid token amount")

// ERC20 encodes calldata for the standard token interface.
type ERC20 struct {
	net *network.Params
}

// NewERC20 returns an ERC20 encoder that resolves chain addresses with the
// given network params.
func NewERC20(net *network.Params) ERC20 {
	return ERC20{net}
}

func (e ERC20) Allowance(owner, spender string) (string, error) {
	return EncodeData(MethodAllowance, []Param{
		{"address", owner}, {"address", spender},
	}, e.net)
}

func (e ERC20) Approve(spender string, value *big.Int) (string, error) {
	return EncodeData(MethodApprove, []Param{
		{"address", spender}, {"uint256", value},
	}, e.net)
}

func (e ERC20) BalanceOf(who string) (string, error) {
	return EncodeData(MethodBalanceOf, []Param{{"address", who}}, e.net)
}

func (e ERC20) Decimals() string {
	return MethodID(MethodDecimals)
}

func (e ERC20) Name() string {
	return MethodID(MethodName)
}

func (e ERC20) Symbol() string {
	return MethodID(MethodSymbol)
}

func (e ERC20) TotalSupply() string {
	return MethodID(MethodTotalSupply)
}

func (e ERC20) Transfer(to string, value *big.Int) (string, error) {
	return EncodeData(MethodTransfer, []Param{
		{"address", to}, {"uint256", value},
	}, e.net)
}

func (e ERC20) TransferFrom(from, to string, value *big.Int) (string, error) {
	return EncodeData(MethodTransferFrom, []Param{
		{"address", from}, {"address", to}, {"uint256", value},
	}, e.net)
}

// TokenAmount converts a decimal token amount into its integer unit
// representation, ie. "1.5" with 8 decimals is 150000000.
func TokenAmount(amount string, decimals uint8) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenAmount, err)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("%w: must be positive", ErrInvalidTokenAmount)
	}
	units := d.Shift(int32(decimals))
	if !units.IsInteger() {
		return nil, fmt.Errorf(
			"%w: %s has more than %d decimals", ErrInvalidTokenAmount, amount, decimals,
		)
	}
	return units.BigInt(), nil
}

// FormatTokenAmount is the inverse of TokenAmount.
func FormatTokenAmount(units *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(units, -int32(decimals)).String()
}
