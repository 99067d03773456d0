package wallet

const (
	P2PK = iota
	P2PKH
	P2MS
	P2SH_P2WPKH
	P2SH_P2WSH
	P2WPKH
	P2WSH
)

// EstimateTxSize makes an estimation of the virtual size of a transaction for
// which is required to specify the type of the inputs and outputs according to
// those of the Bitcoin standard (P2PK, P2PKH, P2MS, P2SH(P2WPKH), P2SH(P2WSH),
// P2WPKH, P2WSH).
// Outputs whose type is not in the list (ie. null data or contract call
// scripts) must have their script size passed in outAuxiliaryScriptSize in
// the same order they appear.
func EstimateTxSize(
	inScriptTypes, inAuxiliaryRedeemScriptSize, inAuxiliaryWitnessSize,
	outScriptTypes, outAuxiliaryScriptSize []int,
) int {
	baseSize := calcTxSize(
		false,
		inScriptTypes, inAuxiliaryRedeemScriptSize, inAuxiliaryWitnessSize,
		outScriptTypes, outAuxiliaryScriptSize,
	)
	totalSize := calcTxSize(
		true,
		inScriptTypes, inAuxiliaryRedeemScriptSize, inAuxiliaryWitnessSize,
		outScriptTypes, outAuxiliaryScriptSize,
	)

	weight := baseSize*3 + totalSize
	vsize := (weight + 3) / 4

	return vsize
}

func calcTxSize(
	withWitness bool,
	inScriptTypes, inAuxiliaryRedeemScriptSize, inAuxiliaryWitnessSize,
	outScriptTypes, outAuxiliaryScriptSize []int,
) int {
	txSize := calcTxBaseSize(
		inScriptTypes, inAuxiliaryRedeemScriptSize,
		outScriptTypes, outAuxiliaryScriptSize,
	)
	if withWitness {
		txSize += calcTxWitnessSize(inScriptTypes, inAuxiliaryWitnessSize)
	}
	return txSize
}

var (
	scripsigtSizeByScriptType = map[int]int{
		P2PK:        140, // len + opcode + sig + opcode + pubkey uncompressed
		P2PKH:       108, // len + opcode + sig + opcode + pubkey
		P2SH_P2WPKH: 24,  // len + push + p2wpkh script
		P2SH_P2WSH:  36,  // len + push + p2wsh script
		P2WPKH:      1,   // no scriptsig, still len is serialized
		P2WSH:       1,   // no scriptsig
	}
	scriptPubKeySizeByScriptType = map[int]int{
		P2PK:        67, // len + pubkey uncompressed + opcode
		P2PKH:       26, // len + opcodes (3) + hash(pubkey) + opcodes (2)
		P2SH_P2WPKH: 24, // len + opcodes (2) + hash(script) + opcode
		P2SH_P2WSH:  24, // len + opcodes (2) + hash(script) + opcode
		P2WPKH:      23, // len + opcodes (2) + hash(script)
		P2WSH:       35, // len + opcodes (2) + hash(script)
	}
)

func calcTxBaseSize(
	inScriptTypes, inAuxiliaryRedeemScriptSize,
	outScriptTypes, outAuxiliaryScriptSize []int,
) int {
	// hash + index + sequence
	inBaseSize := 40
	insSize := 0
	auxCount := 0
	for _, scriptType := range inScriptTypes {
		scriptSize, ok := scripsigtSizeByScriptType[scriptType]
		if !ok {
			scriptSize = inAuxiliaryRedeemScriptSize[auxCount]
			auxCount++
		}
		insSize += inBaseSize + scriptSize
	}

	// value
	outBaseSize := 8
	outsSize := 0
	auxCount = 0
	for _, scriptType := range outScriptTypes {
		scriptSize, ok := scriptPubKeySizeByScriptType[scriptType]
		if !ok {
			scriptSize = varIntSerializeSize(uint64(outAuxiliaryScriptSize[auxCount])) +
				outAuxiliaryScriptSize[auxCount]
			auxCount++
		}
		outsSize += outBaseSize + scriptSize
	}

	// version + locktime
	return 8 +
		varIntSerializeSize(uint64(len(inScriptTypes))) +
		varIntSerializeSize(uint64(len(outScriptTypes))) +
		insSize + outsSize
}

func calcTxWitnessSize(inScriptTypes, inAuxiliaryWitnessSize []int) int {
	hasWitness := false
	for _, scriptType := range inScriptTypes {
		if isSegwit(scriptType) {
			hasWitness = true
			break
		}
	}
	if !hasWitness {
		return 0
	}

	// marker + flag
	insSize := 2
	auxCount := 0
	for _, scriptType := range inScriptTypes {
		switch scriptType {
		case P2SH_P2WPKH, P2WPKH:
			// items count + sig + pubkey
			insSize += 1 + 107
		case P2SH_P2WSH, P2WSH:
			insSize += inAuxiliaryWitnessSize[auxCount]
			auxCount++
		default:
			// empty witness
			insSize++
		}
	}
	return insSize
}

func isSegwit(scriptType int) bool {
	switch scriptType {
	case P2SH_P2WPKH, P2SH_P2WSH, P2WPKH, P2WSH:
		return true
	}
	return false
}

func varIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}
