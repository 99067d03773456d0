package address

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

const contractAddressLen = 20

var (
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("invalid address")
	// ErrNotPubKeyHash ...
	ErrNotPubKeyHash = errors.New("address is not a pay to pubkey hash address")
	// ErrInvalidContractAddress ...
	ErrInvalidContractAddress = errors.New("invalid contract address")
	// ErrInvalidHexAddress ...
	ErrInvalidHexAddress = errors.New("hex address must be a 20 byte hash in hex format")
	// ErrInvalidTxID ...
	ErrInvalidTxID = errors.New("txid must be a 32 byte hash in hex format")
	// ErrUnsupportedScript ...
	ErrUnsupportedScript = errors.New("output script does not pay to a single address")
)

// Decode parses the given address and makes sure it belongs to the network.
func Decode(addr string, params *network.Params) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(addr, params.ChainParams())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err)
	}
	if !decoded.IsForNet(params.ChainParams()) {
		return nil, fmt.Errorf("%w: %s is not for network %s", ErrInvalidAddress, addr, params.Name)
	}
	return decoded, nil
}

// ToOutputScript returns the output script paying to the given address.
func ToOutputScript(addr string, params *network.Params) ([]byte, error) {
	decoded, err := Decode(addr, params)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(decoded)
}

// FromOutputScript returns the address the given output script pays to.
func FromOutputScript(script []byte, params *network.Params) (string, error) {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, params.ChainParams())
	if err != nil {
		return "", err
	}
	if len(addrs) != 1 {
		return "", ErrUnsupportedScript
	}
	return addrs[0].EncodeAddress(), nil
}

// IsValidAddress returns whether the address is a well formed base58 (pubkey
// hash or script hash) or bech32 address of the given network.
func IsValidAddress(addr string, params *network.Params) bool {
	if _, version, err := base58.CheckDecode(addr); err == nil {
		return version == params.PubKeyHashAddrID ||
			version == params.ScriptHashAddrID
	}

	hrp, _, err := bech32.Decode(addr)
	if err != nil {
		return false
	}
	return hrp == params.Bech32HRPSegwit
}

// IsValidContractAddress returns whether the string is a 20 byte hash in hex
// format.
func IsValidContractAddress(contract string) bool {
	b, err := hex.DecodeString(strings.TrimPrefix(contract, "0x"))
	return err == nil && len(b) == contractAddressLen
}

// GetHexAddress returns the pubkey hash of a P2PKH address in hex format.
func GetHexAddress(addr string, params *network.Params) (string, error) {
	hash, version, err := base58.CheckDecode(addr)
	if err != nil || version != params.PubKeyHashAddrID || len(hash) != contractAddressLen {
		return "", ErrNotPubKeyHash
	}
	return hex.EncodeToString(hash), nil
}

// FromHexAddress returns the P2PKH address of the given pubkey hash.
func FromHexAddress(hexAddr string, params *network.Params) (string, error) {
	hash, err := hex.DecodeString(strings.TrimPrefix(hexAddr, "0x"))
	if err != nil || len(hash) != contractAddressLen {
		return "", ErrInvalidHexAddress
	}
	addr, err := btcutil.NewAddressPubKeyHash(hash, params.ChainParams())
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// FromContractAddress encodes a contract address into the base58 form
// version ‖ contract ‖ sha256d(version ‖ contract)[:4].
func FromContractAddress(contract string, params *network.Params) (string, error) {
	if !IsValidContractAddress(contract) {
		return "", ErrInvalidContractAddress
	}
	hash, _ := hex.DecodeString(strings.TrimPrefix(contract, "0x"))

	payload := append([]byte{params.PubKeyHashAddrID}, hash...)
	checksum := chainhash.DoubleHashB(payload)[:4]

	return base58.Encode(append(payload, checksum...)), nil
}

// ToContractAddress decodes the base58 form of a contract address back to its
// hex representation, verifying version and checksum.
func ToContractAddress(addr string, params *network.Params) (string, error) {
	decoded := base58.Decode(addr)
	if len(decoded) != 1+contractAddressLen+4 {
		return "", ErrInvalidContractAddress
	}

	payload, checksum := decoded[:len(decoded)-4], decoded[len(decoded)-4:]
	if payload[0] != params.PubKeyHashAddrID {
		return "", ErrInvalidContractAddress
	}
	if !bytes.Equal(chainhash.DoubleHashB(payload)[:4], checksum) {
		return "", ErrInvalidContractAddress
	}
	return hex.EncodeToString(payload[1:]), nil
}

// ContractAddressFromTxID returns the address of the contract created by the
// given output: hash160(reversed txid ‖ LE uint32 vout).
func ContractAddressFromTxID(txid string, vout uint32) (string, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil || len(txid) != chainhash.MaxHashStringSize {
		return "", ErrInvalidTxID
	}

	buf := make([]byte, chainhash.HashSize+4)
	copy(buf, hash[:])
	binary.LittleEndian.PutUint32(buf[chainhash.HashSize:], vout)

	return hex.EncodeToString(btcutil.Hash160(buf)), nil
}

// PubKeyHashAddress returns the P2PKH address of the given pubkey.
func PubKeyHashAddress(pubkey *btcec.PublicKey, params *network.Params) (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(pubkey.SerializeCompressed()), params.ChainParams(),
	)
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}

// WitnessRedeemScript returns the P2WPKH script OP_0 <hash160(pubkey)> that
// is wrapped in a P2SH output.
func WitnessRedeemScript(pubkey *btcec.PublicKey) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_0).
		AddData(btcutil.Hash160(pubkey.SerializeCompressed())).
		Script()
}

// WrappedSegwitAddress returns the P2SH-P2WPKH address of the given pubkey.
func WrappedSegwitAddress(pubkey *btcec.PublicKey, params *network.Params) (string, error) {
	redeemScript, err := WitnessRedeemScript(pubkey)
	if err != nil {
		return "", err
	}
	addr, err := btcutil.NewAddressScriptHash(redeemScript, params.ChainParams())
	if err != nil {
		return "", err
	}
	return addr.EncodeAddress(), nil
}
