// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package wallet

import "errors"

var (
	// ErrNotOurOutput means the scanned output does not belong to the
	// wallet keys. Scanning treats it as a skip, not a failure.
	ErrNotOurOutput = errors.New("output does not belong to this wallet")

	// ErrNotSupported marks operations a hardware-backed wallet cannot
	// perform: unsigned structures, externally prepared transactions,
	// partial key images and caller supplied extra data.
	ErrNotSupported = errors.New("operation not supported by a ledger backed wallet")

	// ErrInsufficientFunds covers inputs not covering outputs plus fee
	// and unmet fusion preconditions.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPaymentIDConflict means the destinations and/or the explicit
	// payment id disagree.
	ErrPaymentIDConflict = errors.New("payment id conflict")

	// ErrDeviceState means the device state machine is not where the
	// builder expects it after a phase command.
	ErrDeviceState = errors.New("unexpected device transaction state")

	// ErrTransactionVerification means the retrieved transaction does
	// not match the hash or size the device signed.
	ErrTransactionVerification = errors.New("retrieved transaction failed verification")
)
