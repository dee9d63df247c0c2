// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/turtlecoin/ledger-turtlecoin-go/address"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// GeneratedOutput is one destination/amount pair fed to the builder.
type GeneratedOutput struct {
	Amount      uint64
	Destination address.Address
}

// RandomOutput is a decoy candidate for ring construction.
type RandomOutput struct {
	Key         types.Hash
	GlobalIndex uint64
}

// AbsoluteToRelativeOffsets rewrites ascending absolute global indexes
// into the relative form the wire format uses: first element unchanged,
// every following element the delta from its predecessor.
func AbsoluteToRelativeOffsets(offsets []uint64) []uint64 {
	out := make([]uint64, len(offsets))
	for i, offset := range offsets {
		if i == 0 {
			out[i] = offset
			continue
		}
		out[i] = offset - offsets[i-1]
	}
	return out
}

// RelativeToAbsoluteOffsets is the inverse prefix sum.
func RelativeToAbsoluteOffsets(offsets []uint64) []uint64 {
	out := make([]uint64, len(offsets))
	var total uint64
	for i, offset := range offsets {
		total += offset
		out[i] = total
	}
	return out
}

// GenerateTransactionOutputs decomposes amount into canonical
// digit-times-power-of-ten pieces for one destination, splitting any
// piece over the per-output cap into cap-sized chunks.
func (w *Wallet) GenerateTransactionOutputs(destination *address.Address, amount uint64) ([]GeneratedOutput, error) {
	if destination == nil {
		return nil, fmt.Errorf("%w: destination required", types.ErrInvalidArgument)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be non-zero", types.ErrInvalidArgument)
	}

	var outputs []GeneratedOutput
	emit := func(piece uint64) {
		outputs = append(outputs, GeneratedOutput{Amount: piece, Destination: *destination})
	}

	for magnitude := uint64(1); amount > 0; magnitude *= 10 {
		digit := amount % 10
		amount /= 10
		if digit == 0 {
			continue
		}
		piece := digit * magnitude
		if max := w.config.MaximumOutputAmount; max != 0 && piece > max {
			for piece > max {
				emit(max)
				piece -= max
			}
			if piece > 0 {
				emit(piece)
			}
			continue
		}
		emit(piece)
	}
	return outputs, nil
}

// CalculateMinimumTransactionFee computes the fee-per-byte minimum for a
// transaction of the given serialized size: the size is rounded up to
// whole chunks and multiplied by the byte rate.
func (w *Wallet) CalculateMinimumTransactionFee(size int) decimal.Decimal {
	chunkSize := w.config.FeePerByteChunkSize
	chunks := (size + chunkSize - 1) / chunkSize
	return decimal.NewFromInt(int64(chunks * chunkSize)).Mul(w.config.FeePerByte)
}

// FormatMoney renders an atomic amount with the configured decimal
// places.
func (w *Wallet) FormatMoney(amount uint64) string {
	places := w.config.CoinUnitPlaces
	return decimal.NewFromUint64(amount).Shift(-places).StringFixed(places)
}

// CreateIntegratedAddress stamps a payment id, and optionally a prefix
// override, into an existing address.
func (w *Wallet) CreateIntegratedAddress(encoded, paymentID string, prefix uint64) (string, error) {
	if !types.ValidHex(paymentID, 2*types.HashSize) {
		return "", fmt.Errorf("%w: payment id must be %d hex characters", types.ErrInvalidArgument, 2*types.HashSize)
	}
	addr, err := address.Decode(encoded)
	if err != nil {
		return "", err
	}
	addr.PaymentID = paymentID
	if prefix != 0 {
		addr.Prefix = prefix
	}
	return addr.Encode()
}
