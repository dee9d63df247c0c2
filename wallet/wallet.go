// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

// Package wallet is the host side of the Ledger TurtleCoin wallet: it
// combines the device client with the host crypto provider and the
// address codec to scan outputs, shape amounts and fees, and drive the
// on-device transaction construction state machine.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/turtlecoin/ledger-turtlecoin-go/address"
	"github.com/turtlecoin/ledger-turtlecoin-go/crypto"
	"github.com/turtlecoin/ledger-turtlecoin-go/device"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

const scanWorkers = 4

// Wallet owns a device client and the write-once session key cache.
type Wallet struct {
	device *device.Client
	config Config

	mu    sync.Mutex
	ready atomic.Bool
	spend types.KeyPair
	view  types.KeyPair
	addr  *address.Address
}

// New wraps a device client. The wallet takes ownership of the client.
func New(client *device.Client, config Config) *Wallet {
	return &Wallet{device: client, config: config}
}

// Device exposes the underlying device client, for observers and the
// informational commands.
func (w *Wallet) Device() *device.Client {
	return w.device
}

// Config returns the configuration the wallet was built with.
func (w *Wallet) Config() Config {
	return w.config
}

// Ready reports whether the session keys have been fetched.
func (w *Wallet) Ready() bool {
	return w.ready.Load()
}

// FetchKeys populates the session cache from the device: spend and view
// public keys, the private view key and the derived wallet address. The
// fetch happens once; the cache is immutable afterwards and is published
// with a single flag write so readers never observe a partial session.
func (w *Wallet) FetchKeys() error {
	if w.ready.Load() {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ready.Load() {
		return nil
	}

	spendPub, viewPub, err := w.device.PublicKeys(true)
	if err != nil {
		return fmt.Errorf("fetching public keys: %w", err)
	}
	viewPriv, err := w.device.ViewSecretKey(true)
	if err != nil {
		return fmt.Errorf("fetching view secret key: %w", err)
	}

	w.spend = types.KeyPair{Public: spendPub}
	w.view = types.KeyPair{Public: viewPub, Private: viewPriv}
	w.addr = address.New(w.config.AddressPrefix, spendPub, viewPub)
	w.ready.Store(true)
	return nil
}

// Address returns the wallet address, fetching keys first if needed.
func (w *Wallet) Address() (*address.Address, error) {
	if err := w.FetchKeys(); err != nil {
		return nil, err
	}
	return w.addr, nil
}

// GenerateKeyImage derives the output key for an owned output and asks
// the device for its key image. The derivation is recomputed here; the
// device repeats it internally against the private spend key.
func (w *Wallet) GenerateKeyImage(txPublicKey types.Hash, outputIndex uint32) (types.Hash, error) {
	if err := w.FetchKeys(); err != nil {
		return types.Hash{}, err
	}
	derivation, err := crypto.GenerateKeyDerivation(txPublicKey, w.view.Private)
	if err != nil {
		return types.Hash{}, err
	}
	publicEphemeral, err := crypto.DerivePublicKey(derivation, outputIndex, w.spend.Public)
	if err != nil {
		return types.Hash{}, err
	}
	return w.device.GenerateKeyImage(txPublicKey.Hex(), outputIndex, publicEphemeral.Hex(), true)
}

// IsOurTransactionOutput checks one output against the session keys.
// On a match it attaches the ephemeral, the transaction keys and the
// device-computed key image to the output. A non-match fails with
// ErrNotOurOutput.
func (w *Wallet) IsOurTransactionOutput(txPublicKey types.Hash, output *types.Output) error {
	if err := w.FetchKeys(); err != nil {
		return err
	}

	derivation, err := crypto.GenerateKeyDerivation(txPublicKey, w.view.Private)
	if err != nil {
		return err
	}
	publicEphemeral, err := crypto.DerivePublicKey(derivation, output.Index, w.spend.Public)
	if err != nil {
		return err
	}
	if publicEphemeral != output.Key {
		return fmt.Errorf("%w: output %d of transaction key %s", ErrNotOurOutput, output.Index, txPublicKey)
	}

	output.Input = &types.OutputInput{
		PublicEphemeral: publicEphemeral,
		TransactionKeys: types.TransactionKeys{
			PublicKey:   txPublicKey,
			Derivation:  derivation,
			OutputIndex: output.Index,
		},
	}
	keyImage, err := w.GenerateKeyImage(txPublicKey, output.Index)
	if err != nil {
		return err
	}
	output.KeyImage = &keyImage
	return nil
}

// ScanTransactionOutputs evaluates every output concurrently and returns
// the ones that belong to the wallet, preserving the input order.
func (w *Wallet) ScanTransactionOutputs(ctx context.Context, txPublicKey types.Hash, outputs []*types.Output) ([]*types.Output, error) {
	if err := w.FetchKeys(); err != nil {
		return nil, err
	}

	matched := make([]bool, len(outputs))
	failures := make([]error, len(outputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := scanWorkers
	if len(outputs) < workers {
		workers = len(outputs)
	}
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				err := w.IsOurTransactionOutput(txPublicKey, outputs[i])
				switch {
				case err == nil:
					matched[i] = true
				case errors.Is(err, ErrNotOurOutput):
					// not ours, skip
				default:
					failures[i] = err
				}
			}
		}()
	}

feed:
	for i := range outputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range failures {
		if err != nil {
			return nil, err
		}
	}

	ours := make([]*types.Output, 0, len(outputs))
	for i, output := range outputs {
		if matched[i] {
			ours = append(ours, output)
		}
	}
	return ours, nil
}

// SignMessage hashes the message with cn_fast_hash and signs the digest
// on the device. Non-string messages are JSON encoded first.
func (w *Wallet) SignMessage(message any, confirm bool) (types.Signature, error) {
	data, err := messageBytes(message)
	if err != nil {
		return types.Signature{}, err
	}
	digest := crypto.CnFastHashIterated(data, w.config.KeccakIterations)
	return w.device.GenerateSignature(digest.Hex(), confirm)
}

// VerifyMessage checks a message signature host-side against a public key.
func (w *Wallet) VerifyMessage(message any, publicKey types.Hash, signature types.Signature) (bool, error) {
	data, err := messageBytes(message)
	if err != nil {
		return false, err
	}
	digest := crypto.CnFastHashIterated(data, w.config.KeccakIterations)
	return crypto.CheckSignature(digest, publicKey, signature), nil
}

func messageBytes(message any) ([]byte, error) {
	if s, ok := message.(string); ok {
		return []byte(s), nil
	}
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("%w: message is not serializable: %v", types.ErrInvalidArgument, err)
	}
	return data, nil
}
