// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package wallet

import "github.com/shopspring/decimal"

// Config carries the network and policy knobs the helper reads at
// construction time.
type Config struct {
	// CoinUnitPlaces is the number of decimal places in formatted money.
	CoinUnitPlaces int32

	// AddressPrefix is the Base58 varint prefix of wallet addresses.
	AddressPrefix uint64

	// KeccakIterations is handed to the crypto provider when hashing
	// messages for signing.
	KeccakIterations int

	// DefaultNetworkFee is the network's default fee in atomic units.
	// CreateTransaction does not read it: the fee is always the caller's
	// explicit argument, and no fallback to this value happens.
	DefaultNetworkFee uint64

	// FusionMinInputCount is quoted in the error message when a zero-fee
	// fusion transaction has too few inputs. The comparison itself uses
	// the fixed threshold of 12, not this value.
	FusionMinInputCount int

	// FusionMinInOutCountRatio is the minimum inputs/outputs ratio of a
	// fusion transaction.
	FusionMinInOutCountRatio int

	// MaximumOutputAmount caps a single transaction output.
	MaximumOutputAmount uint64

	// MaximumOutputsPerTransaction caps the output count.
	MaximumOutputsPerTransaction int

	// MaximumExtraSize bounds caller supplied extra data. The ledger
	// wallet refuses extra data outright; the bound is kept for parity
	// with the network rules.
	MaximumExtraSize int

	// ActivateFeePerByteTransactions, when true, makes the builder skip
	// its check that inputs cover outputs plus fee. No other validation
	// depends on it.
	ActivateFeePerByteTransactions bool

	// FeePerByte is the fee rate of the fee-per-byte formula.
	FeePerByte decimal.Decimal

	// FeePerByteChunkSize is the rounding granularity of the formula.
	FeePerByteChunkSize int

	// MaximumLedgerTransactionSize bounds the TX_DUMP retrieval loop.
	MaximumLedgerTransactionSize int
}

// DefaultConfig returns the TurtleCoin network configuration.
func DefaultConfig() Config {
	return Config{
		CoinUnitPlaces:                 2,
		AddressPrefix:                  3914525, // addresses start with TRTL
		KeccakIterations:               1,
		DefaultNetworkFee:              10,
		FusionMinInputCount:            12,
		FusionMinInOutCountRatio:       4,
		MaximumOutputAmount:            100000000000,
		MaximumOutputsPerTransaction:   90,
		MaximumExtraSize:               1024,
		ActivateFeePerByteTransactions: true,
		FeePerByte:                     decimal.NewFromFloat(1.953125),
		FeePerByteChunkSize:            256,
		MaximumLedgerTransactionSize:   38400,
	}
}
