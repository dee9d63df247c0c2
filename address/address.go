// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

// Package address implements the CryptoNote wallet address codec: a
// varint network prefix, the spend and view public keys, an optional
// embedded payment id and a 4-byte keccak checksum, all rendered in
// block Base58.
package address

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/crypto"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

const checksumSize = 4

var (
	ErrChecksum = errors.New("address checksum mismatch")
	ErrFormat   = errors.New("malformed address")
)

// Address is a decoded wallet address. PaymentID is empty for plain
// addresses and a 64 character hex string for integrated ones.
type Address struct {
	Prefix         uint64
	SpendPublicKey types.Hash
	ViewPublicKey  types.Hash
	PaymentID      string
}

// New builds a plain address from its keys.
func New(prefix uint64, spend, view types.Hash) *Address {
	return &Address{Prefix: prefix, SpendPublicKey: spend, ViewPublicKey: view}
}

// Decode parses a block Base58 address string.
func Decode(encoded string) (*Address, error) {
	raw, err := base58Decode(encoded)
	if err != nil {
		return nil, err
	}
	if len(raw) < checksumSize {
		return nil, fmt.Errorf("%w: too short", ErrFormat)
	}
	body, checksum := raw[:len(raw)-checksumSize], raw[len(raw)-checksumSize:]
	digest := crypto.CnFastHash(body)
	if !bytes.Equal(digest[:checksumSize], checksum) {
		return nil, ErrChecksum
	}

	r := bytes.NewReader(body)
	prefix, err := types.ReadVarint(r)
	if err != nil {
		return nil, fmt.Errorf("%w: bad prefix varint", ErrFormat)
	}

	addr := &Address{Prefix: prefix}
	switch r.Len() {
	case 2 * types.HashSize:
		// plain address
	case 3 * types.HashSize:
		var pid types.Hash
		if _, err := r.Read(pid[:]); err != nil {
			return nil, ErrFormat
		}
		addr.PaymentID = pid.Hex()
	default:
		return nil, fmt.Errorf("%w: unexpected body length %d", ErrFormat, r.Len())
	}
	if _, err := r.Read(addr.SpendPublicKey[:]); err != nil {
		return nil, ErrFormat
	}
	if _, err := r.Read(addr.ViewPublicKey[:]); err != nil {
		return nil, ErrFormat
	}
	return addr, nil
}

// Encode renders the address back to its block Base58 form.
func (a *Address) Encode() (string, error) {
	var buf bytes.Buffer
	buf.Write(types.EncodeVarint(a.Prefix))
	if a.PaymentID != "" {
		pid, err := types.HashFromHex(a.PaymentID)
		if err != nil {
			return "", fmt.Errorf("payment id: %w", err)
		}
		buf.Write(pid[:])
	}
	buf.Write(a.SpendPublicKey[:])
	buf.Write(a.ViewPublicKey[:])

	digest := crypto.CnFastHash(buf.Bytes())
	buf.Write(digest[:checksumSize])
	return base58Encode(buf.Bytes()), nil
}

// IsIntegrated reports whether the address embeds a payment id.
func (a *Address) IsIntegrated() bool {
	return a.PaymentID != ""
}
