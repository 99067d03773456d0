package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vipstarcoin/vipswallet/internal/core/ports"
	"github.com/vipstarcoin/vipswallet/pkg/explorer"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
	"github.com/vipstarcoin/vipswallet/pkg/wallet"
)

// MnemonicEntropySize is the entropy in bits of the mnemonics returned by
// GenSeed.
const MnemonicEntropySize = 256

type WalletService interface {
	GenSeed(ctx context.Context) (string, error)
	InitWallet(ctx context.Context, mnemonic, password string) error
	IsInitialized(ctx context.Context) bool
	ChangePassword(
		ctx context.Context, currentPassword, newPassword string,
	) error
	CreateAccount(
		ctx context.Context, req CreateAccountRequest,
	) (*AccountInfo, error)
	SetDefaultAccount(ctx context.Context, label string) error
	ListAccounts(ctx context.Context) ([]AccountInfo, error)
	Sync(ctx context.Context) error
	GetBalance(
		ctx context.Context, label string,
	) (*explorer.BalanceDetail, error)
	GetReceiveAddress(
		ctx context.Context, label string, fresh bool,
	) (string, error)
	Send(ctx context.Context, req SendRequest) (*SendResult, error)
	SendToken(ctx context.Context, req SendTokenRequest) (*SendResult, error)
	SignMessage(
		ctx context.Context, label, address, message, password string,
	) (string, error)
	VerifyMessage(
		ctx context.Context, address, message, signature string,
	) (bool, error)
	GetTokenInfo(
		ctx context.Context, label, contract string,
	) (*explorer.TokenInfo, error)
}

type walletService struct {
	lock  sync.Mutex
	repo  ports.WalletRepository
	opts  vault.Options
	group *vault.WalletGroup
	// synced is false until the accounts of a wallet loaded from the
	// repository have been rescanned.
	synced bool
}

// NewWalletService returns a service operating on the wallet stored in the
// given repository. The wallet is loaded lazily at the first call that
// needs it, and its accounts are rescanned once before the first call that
// depends on the remote state (balance, receive address, send).
func NewWalletService(
	repo ports.WalletRepository, opts vault.Options,
) WalletService {
	return &walletService{
		repo: repo,
		opts: opts,
	}
}

func (w *walletService) GenSeed(_ context.Context) (string, error) {
	return wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: MnemonicEntropySize,
	})
}

func (w *walletService) InitWallet(
	ctx context.Context, mnemonic, password string,
) error {
	if len(password) <= 0 {
		return ErrMissingPassword
	}

	w.lock.Lock()
	defer w.lock.Unlock()

	if _, err := w.getWallet(ctx); err == nil {
		return ErrWalletAlreadyInitialized
	} else if !errors.Is(err, ErrWalletNotInitialized) {
		return err
	}

	group, err := vault.FromMnemonic(mnemonic, password, w.opts)
	if err != nil {
		return err
	}
	if err := w.repo.Save(ctx, group.ToSnapshot()); err != nil {
		return err
	}
	w.group = group
	w.synced = true

	log.Info("wallet initialized")
	return nil
}

func (w *walletService) IsInitialized(ctx context.Context) bool {
	w.lock.Lock()
	defer w.lock.Unlock()

	_, err := w.getWallet(ctx)
	return err == nil
}

func (w *walletService) ChangePassword(
	ctx context.Context, currentPassword, newPassword string,
) error {
	if len(newPassword) <= 0 {
		return ErrMissingPassword
	}

	return w.updateWallet(ctx, func(group *vault.WalletGroup) error {
		return group.ChangePassword(currentPassword, newPassword)
	})
}

func (w *walletService) CreateAccount(
	ctx context.Context, req CreateAccountRequest,
) (*AccountInfo, error) {
	var info AccountInfo
	if err := w.updateWallet(ctx, func(group *vault.WalletGroup) error {
		account, err := group.CreateAccount(ctx, vault.CreateAccountOpts{
			Label:         req.Label,
			Type:          req.Type,
			AccountNumber: req.AccountNumber,
			Password:      req.Password,
		})
		if err != nil {
			return err
		}
		info = newAccountInfo(account, group.DefaultAccount())
		return nil
	}); err != nil {
		return nil, err
	}

	log.Infof("created account %q (%d/%d)", info.Label, uint32(info.Type), info.Number)
	return &info, nil
}

func (w *walletService) SetDefaultAccount(ctx context.Context, label string) error {
	return w.updateWallet(ctx, func(group *vault.WalletGroup) error {
		return group.SetDefaultAccount(label)
	})
}

func (w *walletService) ListAccounts(ctx context.Context) ([]AccountInfo, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	group, err := w.getWallet(ctx)
	if err != nil {
		return nil, err
	}

	defaultLabel := group.DefaultAccount()
	accounts := group.Accounts()
	infos := make([]AccountInfo, 0, len(accounts))
	for _, account := range accounts {
		infos = append(infos, newAccountInfo(account, defaultLabel))
	}
	return infos, nil
}

// Sync rescans the address book of every account and persists the result.
func (w *walletService) Sync(ctx context.Context) error {
	return w.updateWallet(ctx, func(group *vault.WalletGroup) error {
		if err := group.Discover(ctx); err != nil {
			return err
		}
		w.synced = true
		return nil
	})
}

func (w *walletService) GetBalance(
	ctx context.Context, label string,
) (*explorer.BalanceDetail, error) {
	account, err := w.getSyncedAccount(ctx, label)
	if err != nil {
		return nil, err
	}
	return account.GetBalanceDetail(ctx, explorer.BalanceOpts{})
}

// GetReceiveAddress returns the first unused external address of the
// account, or a newly allocated one if fresh is true.
func (w *walletService) GetReceiveAddress(
	ctx context.Context, label string, fresh bool,
) (string, error) {
	account, err := w.getSyncedAccount(ctx, label)
	if err != nil {
		return "", err
	}
	if !fresh {
		if addr, ok := account.FirstUnusedAddress(); ok {
			return addr, nil
		}
	}

	var addr string
	if err := w.updateWallet(ctx, func(group *vault.WalletGroup) error {
		account, err := accountByLabel(group, label)
		if err != nil {
			return err
		}
		entry, err := account.AddNewAddress(ctx, true)
		if err != nil {
			return err
		}
		addr = entry.External
		return nil
	}); err != nil {
		return "", err
	}
	return addr, nil
}

func (w *walletService) Send(
	ctx context.Context, req SendRequest,
) (*SendResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	account, err := w.getSyncedAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	draft, err := account.BuildTransactionData(
		ctx, req.To, req.Amount, vault.TxOpts{
			FeeRate:   req.FeeRate,
			ExtraData: req.Memo,
		},
	)
	if err != nil {
		return nil, err
	}
	return broadcast(ctx, account, draft, req.Password)
}

func (w *walletService) SendToken(
	ctx context.Context, req SendTokenRequest,
) (*SendResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	account, err := w.getSyncedAccount(ctx, req.Account)
	if err != nil {
		return nil, err
	}

	info, err := account.GetTokenInfo(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	draft, err := account.BuildTokenTransfer(
		ctx, req.Contract, account.DefaultAddress(), req.To, req.Amount,
		info.Decimals, vault.ContractTxOpts{
			GasLimit: req.GasLimit,
			GasPrice: req.GasPrice,
			FeeRate:  req.FeeRate,
		},
	)
	if err != nil {
		return nil, err
	}
	return broadcast(ctx, account, draft, req.Password)
}

func (w *walletService) SignMessage(
	ctx context.Context, label, address, message, password string,
) (string, error) {
	account, err := w.getAccount(ctx, label)
	if err != nil {
		return "", err
	}
	if len(address) <= 0 {
		address = account.DefaultAddress()
	}
	return account.SignMessageWithAddress(message, address, password)
}

// VerifyMessage does not require an initialized wallet.
func (w *walletService) VerifyMessage(
	_ context.Context, address, message, signature string,
) (bool, error) {
	return wallet.VerifyMessage(wallet.VerifyMessageOpts{
		Message:   message,
		Address:   address,
		Signature: signature,
		Network:   w.opts.Network,
	})
}

func (w *walletService) GetTokenInfo(
	ctx context.Context, label, contract string,
) (*explorer.TokenInfo, error) {
	account, err := w.getAccount(ctx, label)
	if err != nil {
		return nil, err
	}
	return account.GetTokenInfo(ctx, contract)
}

// getWallet must be called with the lock held.
func (w *walletService) getWallet(ctx context.Context) (*vault.WalletGroup, error) {
	if w.group != nil {
		return w.group, nil
	}

	snapshot, err := w.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrWalletNotFound) {
			return nil, ErrWalletNotInitialized
		}
		return nil, err
	}
	group, err := vault.FromSnapshot(*snapshot, w.opts)
	if err != nil {
		return nil, err
	}
	w.group = group
	w.synced = false
	return group, nil
}

func (w *walletService) getAccount(
	ctx context.Context, label string,
) (*vault.Account, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	group, err := w.getWallet(ctx)
	if err != nil {
		return nil, err
	}
	return accountByLabel(group, label)
}

// getSyncedAccount is like getAccount but rescans the accounts of a wallet
// just loaded from the repository, and persists the result, first.
func (w *walletService) getSyncedAccount(
	ctx context.Context, label string,
) (*vault.Account, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	group, err := w.getWallet(ctx)
	if err != nil {
		return nil, err
	}
	if !w.synced {
		if err := group.Discover(ctx); err != nil {
			w.group = nil
			return nil, err
		}
		if err := w.repo.Save(ctx, group.ToSnapshot()); err != nil {
			w.group = nil
			return nil, fmt.Errorf("saving wallet: %w", err)
		}
		w.synced = true
	}
	return accountByLabel(group, label)
}

// updateWallet runs fn against the wallet and persists it if fn succeeds.
// The in-memory wallet is reloaded from the repository if fn fails or the
// snapshot can't be saved.
func (w *walletService) updateWallet(
	ctx context.Context, fn func(group *vault.WalletGroup) error,
) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	group, err := w.getWallet(ctx)
	if err != nil {
		return err
	}
	if err := fn(group); err != nil {
		w.group = nil
		return err
	}
	if err := w.repo.Save(ctx, group.ToSnapshot()); err != nil {
		w.group = nil
		return fmt.Errorf("saving wallet: %w", err)
	}
	return nil
}

func accountByLabel(
	group *vault.WalletGroup, label string,
) (*vault.Account, error) {
	account, ok := group.GetAccountByLabel(label)
	if !ok {
		if len(label) <= 0 {
			return nil, fmt.Errorf("%w: no default account", vault.ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%w: %s", vault.ErrAccountNotFound, label)
	}
	return account, nil
}

func broadcast(
	ctx context.Context, account *vault.Account,
	draft *vault.TransactionDraft, password string,
) (*SendResult, error) {
	txHex, err := account.SignTransaction(draft, password)
	if err != nil {
		return nil, err
	}
	txid, err := account.SendRawTransaction(ctx, txHex)
	if err != nil {
		return nil, err
	}

	log.Infof("broadcasted tx %s (fee %d sats)", txid, draft.Fee)
	return &SendResult{
		TxID:   txid,
		Fee:    draft.Fee,
		GasFee: draft.GasFee,
	}, nil
}
