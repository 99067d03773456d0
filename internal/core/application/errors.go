package application

import "errors"

var (
	// ErrWalletNotInitialized ...
	ErrWalletNotInitialized = errors.New("wallet not initialized")
	// ErrWalletAlreadyInitialized ...
	ErrWalletAlreadyInitialized = errors.New("wallet already initialized")
	// ErrMissingPassword ...
	ErrMissingPassword = errors.New("password must not be empty")
	// ErrMissingRecipient ...
	ErrMissingRecipient = errors.New("recipient address must not be empty")
)
