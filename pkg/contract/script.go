package contract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

const (
	// OpCall is the opcode that terminates a contract call output script.
	OpCall = 0xc2
	// VMVersion is pushed as OP_4 at the head of every contract script.
	VMVersion = txscript.OP_4
)

var (
	// ErrInvalidGasLimit ...
	ErrInvalidGasLimit = errors.New("gas limit must be a positive integer")
	// ErrInvalidGasPrice ...
	ErrInvalidGasPrice = errors.New("gas price must be a positive integer")
	// ErrInvalidContractHash ...
	ErrInvalidContractHash = errors.New("contract address must be a 20 byte hash in hex format")
	// ErrNotContractScript ...
	ErrNotContractScript = errors.New("script is not a contract call")
	// ErrGasFeeOverflow ...
	ErrGasFeeOverflow = errors.New("gas limit times gas price exceeds the max output value")
)

// Call describes the content of a contract call output script.
type Call struct {
	GasLimit uint64
	GasPrice uint64
	Data     []byte
	Contract []byte
}

// CompileContractScript returns the output script that calls the given
// contract with the given calldata:
//
//	OP_4 <gasLimit> <gasPrice> <data> <contract> OP_CALL
//
// gasLimit and gasPrice are minimally encoded script numbers, gasPrice is
// expressed in satoshi.
func CompileContractScript(
	contractHex, dataHex string, gasLimit, gasPrice uint64,
) ([]byte, error) {
	if gasLimit == 0 || gasLimit > 1<<62 {
		return nil, ErrInvalidGasLimit
	}
	if gasPrice == 0 || gasPrice > 1<<62 {
		return nil, ErrInvalidGasPrice
	}
	if _, err := GasFee(gasLimit, gasPrice); err != nil {
		return nil, err
	}
	contract, err := hex.DecodeString(strings.TrimPrefix(contractHex, "0x"))
	if err != nil || len(contract) != 20 {
		return nil, ErrInvalidContractHash
	}
	data, err := hex.DecodeString(strings.TrimPrefix(dataHex, "0x"))
	if err != nil {
		return nil, ErrInvalidData
	}

	return txscript.NewScriptBuilder().
		AddOp(VMVersion).
		AddData(scriptNum(gasLimit)).
		AddData(scriptNum(gasPrice)).
		AddData(data).
		AddData(contract).
		AddOp(OpCall).
		Script()
}

// ParseContractScript is the inverse of CompileContractScript.
func ParseContractScript(script []byte) (*Call, error) {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	ops := make([]struct {
		op   byte
		data []byte
	}, 0, 6)
	for tokenizer.Next() {
		ops = append(ops, struct {
			op   byte
			data []byte
		}{tokenizer.Opcode(), tokenizer.Data()})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotContractScript, err)
	}
	if len(ops) != 6 || ops[0].op != VMVersion || ops[5].op != OpCall {
		return nil, ErrNotContractScript
	}
	if len(ops[4].data) != 20 {
		return nil, ErrNotContractScript
	}

	return &Call{
		GasLimit: readScriptNum(ops[1].op, ops[1].data),
		GasPrice: readScriptNum(ops[2].op, ops[2].data),
		Data:     ops[3].data,
		Contract: ops[4].data,
	}, nil
}

// IsContractScript returns whether the given script is a contract call.
func IsContractScript(script []byte) bool {
	_, err := ParseContractScript(script)
	return err == nil
}

// GasFee returns the amount of satoshi reserved to pay for the gas of a
// contract call. The result must fit a tx output value.
func GasFee(gasLimit, gasPrice uint64) (uint64, error) {
	hi, lo := bits.Mul64(gasLimit, gasPrice)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, fmt.Errorf(
			"%w: %d * %d", ErrGasFeeOverflow, gasLimit, gasPrice,
		)
	}
	return lo, nil
}

// DefaultGas returns the network default gas limit and price in satoshi.
func DefaultGas() (uint64, uint64) {
	return network.DefaultGasLimit, network.DefaultGasPrice
}

func scriptNum(n uint64) []byte {
	var b []byte
	for n > 0 {
		b = append(b, byte(n&0xff))
		n >>= 8
	}
	// the sign bit must stay clear for positive numbers
	if len(b) > 0 && b[len(b)-1]&0x80 != 0 {
		b = append(b, 0x00)
	}
	return b
}

func readScriptNum(op byte, data []byte) uint64 {
	if op >= txscript.OP_1 && op <= txscript.OP_16 {
		return uint64(op - txscript.OP_1 + 1)
	}
	var n uint64
	for i := len(data) - 1; i >= 0; i-- {
		n = n<<8 | uint64(data[i])
	}
	return n
}
