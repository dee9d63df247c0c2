// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for malformed hex strings, out-of-range
// integers and other locally rejected inputs. Nothing wrapped in it ever
// reaches the device.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// HashSize is the byte length of keys, scalars, points and hashes.
	HashSize = 32

	// SignatureSize is the byte length of a ring signature element.
	SignatureSize = 64
)

// Hash is a 32-byte value: a key, scalar, curve point or hash digest.
// Rendered as a 64 character lowercase hex string.
type Hash [HashSize]byte

// HashFromHex parses a 64 character hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	if len(s) != HashSize*2 {
		return h, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidArgument, HashSize*2, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	copy(h[:], raw)
	return h, nil
}

// HashFromBytes copies exactly 32 raw bytes into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != HashSize {
		return h, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidArgument, HashSize, len(b))
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

// Signature is a 64-byte ring signature element, rendered as a 128
// character lowercase hex string.
type Signature [SignatureSize]byte

// SignatureFromHex parses a 128 character hex string into a Signature.
func SignatureFromHex(s string) (Signature, error) {
	var sig Signature
	if len(s) != SignatureSize*2 {
		return sig, fmt.Errorf("%w: expected %d hex characters, got %d", ErrInvalidArgument, SignatureSize*2, len(s))
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return sig, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	copy(sig[:], raw)
	return sig, nil
}

// SignatureFromBytes copies exactly 64 raw bytes into a Signature.
func SignatureFromBytes(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureSize {
		return sig, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidArgument, SignatureSize, len(b))
	}
	copy(sig[:], b)
	return sig, nil
}

func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

func (s Signature) String() string {
	return s.Hex()
}

func (s Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, s[:])
	return out
}

// KeyPair holds a public key and, when the secret is host-visible, the
// matching private key. Keys held by the device leave Private zero.
type KeyPair struct {
	Public  Hash
	Private Hash
}

// TransactionKeys records how an owned output was derived: the transaction
// public key, the shared derivation and the output index inside that
// transaction.
type TransactionKeys struct {
	PublicKey   Hash
	Derivation  Hash
	OutputIndex uint32
}

// OutputInput is attached to an Output once scanning proves ownership. The
// private ephemeral never exists on the host.
type OutputInput struct {
	PublicEphemeral Hash
	TransactionKeys TransactionKeys
}

// Output is a scanned transaction output. Input and KeyImage are populated
// only after the output has been matched to our keys.
type Output struct {
	Index       uint32
	Key         Hash
	GlobalIndex uint64
	Amount      uint64
	Input       *OutputInput
	KeyImage    *Hash
}

// TxState is the device transaction construction state as reported by the
// TX_STATE command. Progression is strictly linear.
type TxState uint8

const (
	TxStateInactive TxState = iota
	TxStateReady
	TxStateReceivingInputs
	TxStateInputsReceived
	TxStateReceivingOutputs
	TxStateOutputsReceived
	TxStatePrefixReady
	TxStateComplete
)

func (s TxState) String() string {
	switch s {
	case TxStateInactive:
		return "INACTIVE"
	case TxStateReady:
		return "READY"
	case TxStateReceivingInputs:
		return "RECEIVING_INPUTS"
	case TxStateInputsReceived:
		return "INPUTS_RECEIVED"
	case TxStateReceivingOutputs:
		return "RECEIVING_OUTPUTS"
	case TxStateOutputsReceived:
		return "OUTPUTS_RECEIVED"
	case TxStatePrefixReady:
		return "PREFIX_READY"
	case TxStateComplete:
		return "COMPLETE"
	}
	return fmt.Sprintf("TxState(%d)", uint8(s))
}

// ValidHex reports whether s is a well formed hex string of n characters.
func ValidHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range strings.ToLower(s) {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
