package contract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/vipstarcoin/vipswallet/pkg/address"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

var (
	// ErrNullMethod ...
	ErrNullMethod = errors.New("method signature must not be null")
	// ErrInvalidParamValue ...
	ErrInvalidParamValue = errors.New("invalid param value")
	// ErrInvalidData ...
	ErrInvalidData = errors.New("contract data must be in hex format")
)

// Param is a typed argument of a contract method call, ie.
// Param{"address", "VXXX..."} or Param{"uint256", "1000"}.
type Param struct {
	Type  string
	Value interface{}
}

// MethodID returns the first 4 bytes of the keccak256 hash of the method
// signature in hex format.
func MethodID(method string) string {
	return hex.EncodeToString(crypto.Keccak256([]byte(method))[:4])
}

// EncodeData returns the calldata, in hex format, for the given method
// signature and params. Address params can be given either as chain address
// (P2PKH) or as 20 byte hash in hex format.
func EncodeData(method string, params []Param, net *network.Params) (string, error) {
	if len(method) <= 0 {
		return "", ErrNullMethod
	}

	args := make(abi.Arguments, 0, len(params))
	values := make([]interface{}, 0, len(params))
	for i, p := range params {
		typ, err := abi.NewType(p.Type, "", nil)
		if err != nil {
			return "", fmt.Errorf("param %d: %w", i, err)
		}
		value, err := convertValue(typ, p.Value, net)
		if err != nil {
			return "", fmt.Errorf("param %d (%s): %w", i, p.Type, err)
		}
		args = append(args, abi.Argument{Type: typ})
		values = append(values, value)
	}

	encoded, err := args.Pack(values...)
	if err != nil {
		return "", err
	}
	return MethodID(method) + hex.EncodeToString(encoded), nil
}

// DecodeResult unpacks the hex encoded output of a contract call according
// to the given list of types.
func DecodeResult(types []string, output string) ([]interface{}, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(output, "0x"))
	if err != nil {
		return nil, ErrInvalidData
	}

	args := make(abi.Arguments, 0, len(types))
	for _, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			return nil, err
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args.Unpack(data)
}

// NormalizeAddress returns the 20 byte hash of the given address, that can
// be either a P2PKH chain address or a hex string with optional 0x prefix.
func NormalizeAddress(addr string, net *network.Params) (common.Address, error) {
	if net != nil && address.IsValidAddress(addr, net) {
		hexAddr, err := address.GetHexAddress(addr, net)
		if err != nil {
			return common.Address{}, fmt.Errorf("%w: %s", ErrInvalidParamValue, err)
		}
		addr = hexAddr
	}
	if !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}
	if !common.IsHexAddress(addr) {
		return common.Address{}, fmt.Errorf("%w: invalid address %s", ErrInvalidParamValue, addr)
	}
	return common.HexToAddress(addr), nil
}

func convertValue(typ abi.Type, value interface{}, net *network.Params) (interface{}, error) {
	switch typ.T {
	case abi.AddressTy:
		switch v := value.(type) {
		case common.Address:
			return v, nil
		case string:
			return NormalizeAddress(v, net)
		}

	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return sizedInt(typ, n)

	case abi.BoolTy:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidParamValue, err)
			}
			return b, nil
		}

	case abi.StringTy:
		if v, ok := value.(string); ok {
			return v, nil
		}

	case abi.BytesTy:
		return toBytes(value)

	case abi.FixedBytesTy:
		b, err := toBytes(value)
		if err != nil {
			return nil, err
		}
		if len(b) > typ.Size {
			return nil, fmt.Errorf(
				"%w: %d bytes exceed bytes%d", ErrInvalidParamValue, len(b), typ.Size,
			)
		}
		arr := reflect.New(typ.GetType()).Elem()
		reflect.Copy(arr, reflect.ValueOf(b))
		return arr.Interface(), nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := value.([]interface{})
		if !ok {
			break
		}
		if typ.T == abi.ArrayTy && len(items) != typ.Size {
			return nil, fmt.Errorf(
				"%w: expected %d items, got %d", ErrInvalidParamValue, typ.Size, len(items),
			)
		}

		var list reflect.Value
		if typ.T == abi.SliceTy {
			list = reflect.MakeSlice(typ.GetType(), len(items), len(items))
		} else {
			list = reflect.New(typ.GetType()).Elem()
		}
		for i, item := range items {
			v, err := convertValue(*typ.Elem, item, net)
			if err != nil {
				return nil, err
			}
			list.Index(i).Set(reflect.ValueOf(v))
		}
		return list.Interface(), nil
	}

	return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidParamValue, value, value)
}

func toBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case decimal.Decimal:
		if !v.IsInteger() {
			return nil, fmt.Errorf("%w: %s is not an integer", ErrInvalidParamValue, v)
		}
		return v.BigInt(), nil
	case string:
		n, ok := new(big.Int).SetString(v, 0)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not an integer", ErrInvalidParamValue, v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidParamValue, value, value)
}

func sizedInt(typ abi.Type, n *big.Int) (interface{}, error) {
	if typ.T == abi.UintTy && (n.Sign() < 0 || n.BitLen() > typ.Size) {
		return nil, fmt.Errorf("%w: %s overflows uint%d", ErrInvalidParamValue, n, typ.Size)
	}
	if typ.T == abi.IntTy {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(typ.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%w: %s overflows int%d", ErrInvalidParamValue, n, typ.Size)
		}
	}
	if typ.Size > 64 {
		return n, nil
	}

	if typ.T == abi.UintTy {
		return reflect.ValueOf(n.Uint64()).Convert(typ.GetType()).Interface(), nil
	}
	return reflect.ValueOf(n.Int64()).Convert(typ.GetType()).Interface(), nil
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		b, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParamValue, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidParamValue, value, value)
}
