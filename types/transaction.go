// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package types

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const (
	txInputGen     = 0xff // coinbase input
	txInputToKey   = 0x02 // ring input
	txOutputToKey  = 0x02 // one-time key output
	txExtraPubKey  = 0x01
	txExtraNonce   = 0x02
	txExtraPadding = 0x00

	txExtraNoncePaymentID = 0x00
)

var errTruncatedTransaction = errors.New("transaction blob truncated")

// TransactionInput is a ring input spending one real output hidden among
// the decoys referenced by KeyOffsets.
type TransactionInput struct {
	Amount     uint64
	KeyOffsets []uint64
	KeyImage   Hash
}

// TransactionCoinbaseInput mints at a block height.
type TransactionCoinbaseInput struct {
	Height uint64
}

// TransactionOutput sends Amount to the one-time key in Key.
type TransactionOutput struct {
	Amount uint64
	Key    Hash
}

// Transaction is a decoded CryptoNote transaction as returned by the
// device dump: prefix, extra and one ring signature set per input.
type Transaction struct {
	Raw []byte

	Version        uint64
	UnlockTime     uint64
	Inputs         []TransactionInput
	CoinbaseInputs []TransactionCoinbaseInput
	Outputs        []TransactionOutput
	Extra          []byte
	Signatures     [][]Signature
}

// TransactionFromBytes decodes a raw transaction blob, signatures included.
func TransactionFromBytes(raw []byte) (*Transaction, error) {
	tx := &Transaction{Raw: raw}
	r := bytes.NewReader(raw)

	var err error
	if tx.Version, err = ReadVarint(r); err != nil {
		return nil, fmt.Errorf("transaction version: %w", err)
	}
	if tx.UnlockTime, err = ReadVarint(r); err != nil {
		return nil, fmt.Errorf("transaction unlock time: %w", err)
	}

	vinCount, err := ReadVarint(r)
	if err != nil {
		return nil, fmt.Errorf("input count: %w", err)
	}
	ringSizes := make([]int, 0, vinCount)
	for i := uint64(0); i < vinCount; i++ {
		tag, err := r.ReadByte()
		if err != nil {
			return nil, errTruncatedTransaction
		}
		switch tag {
		case txInputGen:
			height, err := ReadVarint(r)
			if err != nil {
				return nil, fmt.Errorf("coinbase input %d: %w", i, err)
			}
			tx.CoinbaseInputs = append(tx.CoinbaseInputs, TransactionCoinbaseInput{Height: height})
			ringSizes = append(ringSizes, 0)
		case txInputToKey:
			var in TransactionInput
			if in.Amount, err = ReadVarint(r); err != nil {
				return nil, fmt.Errorf("input %d amount: %w", i, err)
			}
			offsetCount, err := ReadVarint(r)
			if err != nil {
				return nil, fmt.Errorf("input %d offset count: %w", i, err)
			}
			for j := uint64(0); j < offsetCount; j++ {
				offset, err := ReadVarint(r)
				if err != nil {
					return nil, fmt.Errorf("input %d offset %d: %w", i, j, err)
				}
				in.KeyOffsets = append(in.KeyOffsets, offset)
			}
			if _, err := readFull(r, in.KeyImage[:]); err != nil {
				return nil, errTruncatedTransaction
			}
			tx.Inputs = append(tx.Inputs, in)
			ringSizes = append(ringSizes, len(in.KeyOffsets))
		default:
			return nil, fmt.Errorf("unknown transaction input tag 0x%02x", tag)
		}
	}

	voutCount, err := ReadVarint(r)
	if err != nil {
		return nil, fmt.Errorf("output count: %w", err)
	}
	for i := uint64(0); i < voutCount; i++ {
		var out TransactionOutput
		if out.Amount, err = ReadVarint(r); err != nil {
			return nil, fmt.Errorf("output %d amount: %w", i, err)
		}
		tag, err := r.ReadByte()
		if err != nil {
			return nil, errTruncatedTransaction
		}
		if tag != txOutputToKey {
			return nil, fmt.Errorf("unknown transaction output tag 0x%02x", tag)
		}
		if _, err := readFull(r, out.Key[:]); err != nil {
			return nil, errTruncatedTransaction
		}
		tx.Outputs = append(tx.Outputs, out)
	}

	extraLen, err := ReadVarint(r)
	if err != nil {
		return nil, fmt.Errorf("extra length: %w", err)
	}
	if extraLen > uint64(r.Len()) {
		return nil, errTruncatedTransaction
	}
	tx.Extra = make([]byte, extraLen)
	if _, err := readFull(r, tx.Extra); err != nil {
		return nil, errTruncatedTransaction
	}

	for i, ringSize := range ringSizes {
		sigs := make([]Signature, 0, ringSize)
		for j := 0; j < ringSize; j++ {
			var sig Signature
			if _, err := readFull(r, sig[:]); err != nil {
				return nil, fmt.Errorf("input %d signature %d: %w", i, j, errTruncatedTransaction)
			}
			sigs = append(sigs, sig)
		}
		tx.Signatures = append(tx.Signatures, sigs)
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after transaction", r.Len())
	}
	return tx, nil
}

// Hash returns the transaction hash, cn_fast_hash over the raw blob.
func (tx *Transaction) Hash() Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(tx.Raw)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// Size returns the serialized transaction size in bytes.
func (tx *Transaction) Size() int {
	return len(tx.Raw)
}

// PublicKey extracts the transaction public key from the extra field.
func (tx *Transaction) PublicKey() (Hash, bool) {
	r := bytes.NewReader(tx.Extra)
	for r.Len() > 0 {
		tag, _ := r.ReadByte()
		switch tag {
		case txExtraPadding:
			// padding runs to the end of extra
			return Hash{}, false
		case txExtraPubKey:
			var key Hash
			if _, err := readFull(r, key[:]); err != nil {
				return Hash{}, false
			}
			return key, true
		case txExtraNonce:
			length, err := ReadVarint(r)
			if err != nil || length > uint64(r.Len()) {
				return Hash{}, false
			}
			skip := make([]byte, length)
			readFull(r, skip)
		default:
			return Hash{}, false
		}
	}
	return Hash{}, false
}

// PaymentID extracts an embedded payment id from the extra nonce, if any.
func (tx *Transaction) PaymentID() (Hash, bool) {
	r := bytes.NewReader(tx.Extra)
	for r.Len() > 0 {
		tag, _ := r.ReadByte()
		switch tag {
		case txExtraPubKey:
			skip := make([]byte, HashSize)
			if _, err := readFull(r, skip); err != nil {
				return Hash{}, false
			}
		case txExtraNonce:
			length, err := ReadVarint(r)
			if err != nil || length > uint64(r.Len()) {
				return Hash{}, false
			}
			nonce := make([]byte, length)
			if _, err := readFull(r, nonce); err != nil {
				return Hash{}, false
			}
			if len(nonce) == 1+HashSize && nonce[0] == txExtraNoncePaymentID {
				pid, err := HashFromBytes(nonce[1:])
				if err != nil {
					return Hash{}, false
				}
				return pid, true
			}
		default:
			return Hash{}, false
		}
	}
	return Hash{}, false
}

func readFull(r *bytes.Reader, buf []byte) (int, error) {
	n, err := r.Read(buf)
	if err != nil || n != len(buf) {
		return n, errTruncatedTransaction
	}
	return n, nil
}
