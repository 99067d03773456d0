package vault

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/vipstarcoin/vipswallet/pkg/network"
)

const (
	// DefaultMaxWindows is the max number of gap windows scanned by a single
	// discovery before giving up.
	DefaultMaxWindows = 1000
)

// DiscoveryOpts bounds the address discovery of an account.
type DiscoveryOpts struct {
	GapLimit   uint32
	MaxWindows int
}

func (o DiscoveryOpts) withDefaults() DiscoveryOpts {
	if o.GapLimit == 0 {
		o.GapLimit = network.GapLimit
	}
	if o.MaxWindows <= 0 {
		o.MaxWindows = DefaultMaxWindows
	}
	return o
}

// Discover syncs the address book with the remote history. Windows of
// GapLimit addresses following the last used one are probed until a window
// with no history is found. Addresses are never marked unused.
func (a *Account) Discover(ctx context.Context) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	return a.discover(ctx)
}

func (a *Account) discover(ctx context.Context) error {
	for window := 0; window < a.discovery.MaxWindows; window++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := a.firstUnusedIndex()
		end := start + a.discovery.GapLimit
		for uint32(len(a.addresses)) < end {
			if _, err := a.allocateAddress(); err != nil {
				return err
			}
		}

		externals := make([]string, 0, a.discovery.GapLimit)
		for _, entry := range a.addresses[start:end] {
			externals = append(externals, entry.External)
		}

		txs, err := a.provider.GetTXsAll(ctx, externals)
		if err != nil {
			return err
		}
		if len(txs) <= 0 {
			log.Debugf(
				"account %d/%d: discovery completed after %d windows, %d addresses",
				a.scheme.accountType(), a.accountNumber, window+1, len(a.addresses),
			)
			return nil
		}

		// txs returned by earlier windows may touch entries allocated since.
		found := 0
		for _, tx := range txs {
			found += a.markUsed(tx.Addresses())
		}
		if found == 0 {
			return nil
		}
	}

	return ErrDiscoveryDivergence
}

// firstUnusedIndex returns the index following the last used entry.
func (a *Account) firstUnusedIndex() uint32 {
	for i := len(a.addresses) - 1; i >= 0; i-- {
		if a.addresses[i].Used {
			return uint32(i + 1)
		}
	}
	return 0
}

// markUsed flags every entry owning one of the given addresses and returns
// the number of entries that were not used before.
func (a *Account) markUsed(addresses []string) int {
	count := 0
	for _, addr := range addresses {
		entry, _, ok := a.findAddress(addr)
		if !ok || entry.Used {
			continue
		}
		entry.Used = true
		count++
	}
	return count
}

// AddNewAddress allocates the pair at the next address_index. If scan is
// true the history of the new external address is fetched right away to
// set its used flag.
// If the scan fails the pair stays allocated, unscanned, and is returned
// along with the error.
func (a *Account) AddNewAddress(ctx context.Context, scan bool) (*AddressEntry, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	entry, err := a.allocateAddress()
	if err != nil {
		return nil, err
	}

	if scan {
		txs, err := a.provider.GetTXsAll(ctx, []string{entry.External})
		if err != nil {
			e := *entry
			return &e, err
		}
		entry.Used = len(txs) > 0
	}

	e := *entry
	return &e, nil
}
