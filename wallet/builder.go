// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package wallet

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/turtlecoin/ledger-turtlecoin-go/crypto"
	"github.com/turtlecoin/ledger-turtlecoin-go/device"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// fusionMinInputs is the literal threshold the builder compares against.
// The refusal message quotes the configured FusionMinInputCount; the
// comparison itself has always used 12.
const fusionMinInputs = 12

type ringMember struct {
	key   types.Hash
	index uint64
}

type preparedInput struct {
	amount      uint64
	keyImage    types.Hash
	txPublicKey types.Hash
	outputIndex uint32
	ring        []ringMember
	realIndex   int
}

type preparedOutput struct {
	amount uint64
	key    types.Hash
}

// CreateTransaction runs the full construction flow: validation, input
// and output preparation, then the on-device state machine through
// TX_SIGN and retrieval of the signed blob. Once the initial TX_STATE
// read has succeeded, every exit path returns the device to the inactive
// state via TX_RESET. Failures before that point (validation, payment id
// resolution, RANDOM_KEY_PAIR, output preparation) return without a reset.
func (w *Wallet) CreateTransaction(
	ctx context.Context,
	outputs []GeneratedOutput,
	inputs []*types.Output,
	randomOutputs [][]RandomOutput,
	mixin int,
	feeAmount uint64,
	paymentID string,
	unlockTime uint64,
	extraData []byte,
) (*types.Transaction, error) {
	if len(extraData) != 0 {
		return nil, fmt.Errorf("%w: the device cannot accept caller supplied extra data", ErrNotSupported)
	}
	if err := w.validateTransaction(outputs, inputs, randomOutputs, mixin, feeAmount); err != nil {
		return nil, err
	}
	resolvedPaymentID, err := resolvePaymentID(outputs, paymentID)
	if err != nil {
		return nil, err
	}

	preparedInputs, err := prepareInputs(inputs, randomOutputs, mixin)
	if err != nil {
		return nil, err
	}
	// Authoritative device ordering: key images descending.
	sort.SliceStable(preparedInputs, func(i, j int) bool {
		return bytes.Compare(preparedInputs[i].keyImage[:], preparedInputs[j].keyImage[:]) > 0
	})

	txKeys, err := w.device.RandomKeyPair()
	if err != nil {
		return nil, err
	}
	preparedOutputs, err := prepareOutputs(outputs, txKeys.Private)
	if err != nil {
		return nil, err
	}

	return w.constructWithDevice(ctx, preparedInputs, preparedOutputs, txKeys.Public, resolvedPaymentID, unlockTime)
}

func (w *Wallet) validateTransaction(outputs []GeneratedOutput, inputs []*types.Output, randomOutputs [][]RandomOutput, mixin int, feeAmount uint64) error {
	if len(inputs) == 0 || len(inputs) > device.MaxTransactionEdges {
		return fmt.Errorf("%w: input count %d out of range [1, %d]", types.ErrInvalidArgument, len(inputs), device.MaxTransactionEdges)
	}
	maxOutputs := device.MaxTransactionEdges
	if w.config.MaximumOutputsPerTransaction > 0 && w.config.MaximumOutputsPerTransaction < maxOutputs {
		maxOutputs = w.config.MaximumOutputsPerTransaction
	}
	if len(outputs) == 0 || len(outputs) > maxOutputs {
		return fmt.Errorf("%w: output count %d out of range [1, %d]", types.ErrInvalidArgument, len(outputs), maxOutputs)
	}
	if mixin != device.RingParticipants-1 {
		return fmt.Errorf("%w: the device signs rings of %d, mixin must be %d", types.ErrInvalidArgument, device.RingParticipants, device.RingParticipants-1)
	}
	if len(randomOutputs) != len(inputs) {
		return fmt.Errorf("%w: need one random output set per input", types.ErrInvalidArgument)
	}

	var totalInput, totalOutput uint64
	for i, input := range inputs {
		if input.Input == nil || input.KeyImage == nil {
			return fmt.Errorf("%w: input %d has not been scanned", types.ErrInvalidArgument, i)
		}
		if input.Input.TransactionKeys.OutputIndex > math.MaxUint8 {
			return fmt.Errorf("%w: input %d output index %d exceeds one byte", types.ErrInvalidArgument, i, input.Input.TransactionKeys.OutputIndex)
		}
		totalInput += input.Amount
	}
	for i, output := range outputs {
		if output.Amount == 0 {
			return fmt.Errorf("%w: output %d has zero amount", types.ErrInvalidArgument, i)
		}
		if max := w.config.MaximumOutputAmount; max != 0 && output.Amount > max {
			return fmt.Errorf("%w: output %d amount %d exceeds maximum %d", types.ErrInvalidArgument, i, output.Amount, max)
		}
		totalOutput += output.Amount
	}

	if feeAmount == 0 {
		// Fusion transaction preconditions.
		if len(inputs) < fusionMinInputs {
			return fmt.Errorf("%w: fusion transactions require at least %d inputs", ErrInsufficientFunds, w.config.FusionMinInputCount)
		}
		if ratio := w.config.FusionMinInOutCountRatio; ratio > 0 && len(inputs)/len(outputs) < ratio {
			return fmt.Errorf("%w: fusion transactions require an input/output ratio of at least %d", ErrInsufficientFunds, ratio)
		}
		return nil
	}

	// The funds check does not run for fee-per-byte transactions.
	if !w.config.ActivateFeePerByteTransactions {
		if totalInput < totalOutput+feeAmount {
			return fmt.Errorf("%w: inputs total %d, outputs plus fee total %d", ErrInsufficientFunds, totalInput, totalOutput+feeAmount)
		}
	}
	return nil
}

// resolvePaymentID reconciles the explicit payment id with any payment
// ids embedded in integrated destination addresses.
func resolvePaymentID(outputs []GeneratedOutput, explicit string) (string, error) {
	if explicit != "" && !types.ValidHex(explicit, 2*types.HashSize) {
		return "", fmt.Errorf("%w: payment id must be %d hex characters", types.ErrInvalidArgument, 2*types.HashSize)
	}
	explicit = strings.ToLower(explicit)

	embedded := ""
	for _, output := range outputs {
		pid := strings.ToLower(output.Destination.PaymentID)
		if pid == "" {
			continue
		}
		if embedded != "" && pid != embedded {
			return "", fmt.Errorf("%w: multiple payment IDs found in the destinations%s and %s", ErrPaymentIDConflict, embedded, pid)
		}
		embedded = pid
	}

	if embedded != "" && explicit != "" && embedded != explicit {
		return "", fmt.Errorf("%w: integrated address payment ID disagrees with the supplied one%s and %s", ErrPaymentIDConflict, embedded, explicit)
	}
	if embedded != "" {
		return embedded, nil
	}
	return explicit, nil
}

// prepareInputs assembles one mix ring per real input: mixin decoys with
// distinct global indexes, the real member appended, the ring sorted
// ascending by global index.
func prepareInputs(inputs []*types.Output, randomOutputs [][]RandomOutput, mixin int) ([]preparedInput, error) {
	prepared := make([]preparedInput, 0, len(inputs))
	for i, input := range inputs {
		ring := make([]ringMember, 0, mixin+1)
		seen := map[uint64]bool{input.GlobalIndex: true}
		for _, candidate := range randomOutputs[i] {
			if len(ring) == mixin {
				break
			}
			if seen[candidate.GlobalIndex] {
				continue
			}
			seen[candidate.GlobalIndex] = true
			ring = append(ring, ringMember{key: candidate.Key, index: candidate.GlobalIndex})
		}
		if len(ring) != mixin {
			return nil, fmt.Errorf("%w: input %d has %d usable decoys, need %d", types.ErrInvalidArgument, i, len(ring), mixin)
		}
		ring = append(ring, ringMember{key: input.Key, index: input.GlobalIndex})
		sort.Slice(ring, func(a, b int) bool { return ring[a].index < ring[b].index })

		realIndex := -1
		for pos, member := range ring {
			if member.index == input.GlobalIndex {
				realIndex = pos
				break
			}
		}

		prepared = append(prepared, preparedInput{
			amount:      input.Amount,
			keyImage:    *input.KeyImage,
			txPublicKey: input.Input.TransactionKeys.PublicKey,
			outputIndex: input.Input.TransactionKeys.OutputIndex,
			ring:        ring,
			realIndex:   realIndex,
		})
	}
	return prepared, nil
}

// prepareOutputs sorts the destinations by amount and derives the
// one-time stealth key of each output from the fresh transaction keys.
func prepareOutputs(outputs []GeneratedOutput, txPrivateKey types.Hash) ([]preparedOutput, error) {
	ordered := make([]GeneratedOutput, len(outputs))
	copy(ordered, outputs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Amount < ordered[j].Amount })

	prepared := make([]preparedOutput, 0, len(ordered))
	for i, output := range ordered {
		derivation, err := crypto.GenerateKeyDerivation(output.Destination.ViewPublicKey, txPrivateKey)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		key, err := crypto.DerivePublicKey(derivation, uint32(i), output.Destination.SpendPublicKey)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		prepared = append(prepared, preparedOutput{amount: output.Amount, key: key})
	}
	return prepared, nil
}

// constructWithDevice walks the device through the transaction state
// machine, verifying the reported state after every phase.
func (w *Wallet) constructWithDevice(
	ctx context.Context,
	inputs []preparedInput,
	outputs []preparedOutput,
	txPublicKey types.Hash,
	paymentID string,
	unlockTime uint64,
) (tx *types.Transaction, err error) {
	state, err := w.device.TxState()
	if err != nil {
		return nil, err
	}
	if state != types.TxStateInactive {
		if err := w.device.TxReset(); err != nil {
			return nil, err
		}
	}

	// The device holds a single transaction slot; release it on every
	// exit path, including cancellation.
	defer func() {
		if resetErr := w.device.TxReset(); resetErr != nil && err == nil {
			err = resetErr
			tx = nil
		}
	}()

	if err := w.device.TxStart(unlockTime, len(inputs), len(outputs), txPublicKey.Hex(), paymentID, true); err != nil {
		return nil, err
	}
	if err := w.expectState(types.TxStateReady); err != nil {
		return nil, err
	}

	if err := w.device.TxStartInputLoad(); err != nil {
		return nil, err
	}
	if err := w.expectState(types.TxStateReceivingInputs); err != nil {
		return nil, err
	}
	for _, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.loadInput(input); err != nil {
			return nil, err
		}
	}
	if err := w.expectState(types.TxStateInputsReceived); err != nil {
		return nil, err
	}

	if err := w.device.TxStartOutputLoad(); err != nil {
		return nil, err
	}
	if err := w.expectState(types.TxStateReceivingOutputs); err != nil {
		return nil, err
	}
	for _, output := range outputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.device.TxLoadOutput(output.amount, output.key.Hex()); err != nil {
			return nil, err
		}
	}
	if err := w.expectState(types.TxStateOutputsReceived); err != nil {
		return nil, err
	}

	if err := w.device.TxFinalizePrefix(); err != nil {
		return nil, err
	}
	if err := w.expectState(types.TxStatePrefixReady); err != nil {
		return nil, err
	}

	hash, size, err := w.device.TxSign(true)
	if err != nil {
		return nil, err
	}
	if err := w.expectState(types.TxStateComplete); err != nil {
		return nil, err
	}

	blob, err := w.retrieveTransaction(ctx)
	if err != nil {
		return nil, err
	}
	tx, err = types.TransactionFromBytes(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionVerification, err)
	}
	if tx.Hash() != hash {
		return nil, fmt.Errorf("%w: hash %s does not match device hash %s", ErrTransactionVerification, tx.Hash(), hash)
	}
	if tx.Size() != int(size) {
		return nil, fmt.Errorf("%w: size %d does not match device size %d", ErrTransactionVerification, tx.Size(), size)
	}
	return tx, nil
}

func (w *Wallet) loadInput(input preparedInput) error {
	absolute := make([]uint64, len(input.ring))
	ringKeys := make([]string, len(input.ring))
	for i, member := range input.ring {
		absolute[i] = member.index
		ringKeys[i] = member.key.Hex()
	}

	relative := AbsoluteToRelativeOffsets(absolute)
	offsets := make([]uint32, len(relative))
	for i, offset := range relative {
		if offset > math.MaxUint32 {
			return fmt.Errorf("%w: relative offset %d exceeds 32 bits", types.ErrInvalidArgument, offset)
		}
		offsets[i] = uint32(offset)
	}

	return w.device.TxLoadInput(
		input.txPublicKey.Hex(),
		uint8(input.outputIndex),
		input.amount,
		ringKeys,
		offsets,
		uint8(input.realIndex),
	)
}

func (w *Wallet) expectState(want types.TxState) error {
	got, err := w.device.TxState()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: expected %s, device reports %s", ErrDeviceState, want, got)
	}
	return nil
}

// retrieveTransaction pulls the signed blob out of the device in
// TX_DUMP windows until the device answers empty or the configured size
// bound is reached.
func (w *Wallet) retrieveTransaction(ctx context.Context) ([]byte, error) {
	var blob []byte
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(blob) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: dump offset exceeds 16 bits", ErrTransactionVerification)
		}
		chunk, err := w.device.TxDump(uint16(len(blob)))
		if err != nil {
			return nil, err
		}
		if len(chunk) == 0 {
			return blob, nil
		}
		blob = append(blob, chunk...)
		if max := w.config.MaximumLedgerTransactionSize; max > 0 && len(blob) >= max {
			return blob, nil
		}
	}
}
