package db_test

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

func makeRandomSnapshot(numAccounts int) vault.Snapshot {
	accounts := make([]vault.AccountSnapshot, 0, numAccounts)
	for i := 0; i < numAccounts; i++ {
		accounts = append(accounts, vault.AccountSnapshot{
			Account:        uint32(i),
			Label:          randomHex(4),
			Type:           vault.AccountTypeLegacy,
			PrivKey:        randomHex(32),
			PubKey:         randomHex(32),
			API:            "InsightAPI",
			DefaultAddress: 1,
			AddressIndex:   2,
			Addresses: []vault.AddressEntry{
				{Index: 0, Used: true, External: randomHex(20), Change: randomHex(20)},
				{Index: 1, External: randomHex(20), Change: randomHex(20)},
			},
		})
	}
	snapshot := vault.Snapshot{
		Entropy:  randomHex(16),
		Seed:     randomHex(64),
		Accounts: accounts,
	}
	if numAccounts > 0 {
		snapshot.DefaultAccount = accounts[0].Label
	}
	return snapshot
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
