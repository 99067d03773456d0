package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/timshannon/badgerhold/v4"
)

const walletDbLocation = "wallet"

// DbManager holds the badgerhold stores used by the wallet.
type DbManager struct {
	Store *badgerhold.Store
}

// NewDbManager opens (or creates if not exists) the badger store on disk. It
// expects a base data dir and an optional logger. An empty dir opens an in
// memory store.
func NewDbManager(baseDbDir string, logger badger.Logger) (*DbManager, error) {
	walletDbDir := ""
	if len(baseDbDir) > 0 {
		walletDbDir = filepath.Join(baseDbDir, walletDbLocation)
	}
	walletDb, err := createDb(walletDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening wallet db: %w", err)
	}

	return &DbManager{
		Store: walletDb,
	}, nil
}

// Close closes the underlying stores.
func (d *DbManager) Close() error {
	return d.Store.Close()
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if len(dbDir) <= 0 {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}
