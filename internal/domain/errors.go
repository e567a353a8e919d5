package domain

import "errors"

var (
	// Wallet provider / session
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	ErrUserRejected        = errors.New("request rejected by user")
	ErrNoAccounts          = errors.New("no accounts available in wallet")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrStaleSigner         = errors.New("signer handle invalidated by chain change")

	// Network gate
	ErrWrongNetwork       = errors.New("active chain is not the target chain")
	ErrChainNotRecognized = errors.New("chain not recognized by wallet")
	ErrSwitchRejected     = errors.New("chain switch rejected by user")
	ErrAddRejected        = errors.New("chain add rejected by user")
	ErrSwitchFailed       = errors.New("chain switch failed")

	// Local, pre-submission
	ErrValidation            = errors.New("validation failed")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrContractNotConfigured = errors.New("contract not configured")
	ErrPrerequisiteNotMet    = errors.New("task action not completed yet")
	ErrNothingToClaim        = errors.New("no rewards to claim")

	// Ledger
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrTransactionFailed = errors.New("transaction failed")
)
