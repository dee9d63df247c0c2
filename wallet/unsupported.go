// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package wallet

import (
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// The device owns the private spend key and only ever emits fully signed
// transactions, so every flow that would hand transaction material to
// the host half-finished is refused.

// CreateTransactionStructure would build an unsigned transaction
// structure for external completion.
func (w *Wallet) CreateTransactionStructure() (*types.Transaction, error) {
	return nil, fmt.Errorf("%w: unsigned transaction structures", ErrNotSupported)
}

// PrepareTransaction would produce a prepared-but-unsigned transaction.
func (w *Wallet) PrepareTransaction() (*types.Transaction, error) {
	return nil, fmt.Errorf("%w: prepared transactions", ErrNotSupported)
}

// CompleteTransaction would sign a transaction prepared elsewhere.
func (w *Wallet) CompleteTransaction() (*types.Transaction, error) {
	return nil, fmt.Errorf("%w: completing externally prepared transactions", ErrNotSupported)
}

// GeneratePartialKeyImage would compute a multisig partial key image.
func (w *Wallet) GeneratePartialKeyImage() (types.Hash, error) {
	return types.Hash{}, fmt.Errorf("%w: partial key images", ErrNotSupported)
}
