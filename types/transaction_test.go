// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package types

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeatByte(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func buildTransactionBlob(extra []byte) []byte {
	var buf bytes.Buffer
	buf.Write(EncodeVarint(1)) // version
	buf.Write(EncodeVarint(0)) // unlock time

	buf.Write(EncodeVarint(1)) // one input
	buf.WriteByte(txInputToKey)
	buf.Write(EncodeVarint(2000))
	buf.Write(EncodeVarint(4))
	for _, offset := range []uint64{5, 2, 3, 2} {
		buf.Write(EncodeVarint(offset))
	}
	buf.Write(repeatByte(0x11, HashSize)) // key image

	buf.Write(EncodeVarint(1)) // one output
	buf.Write(EncodeVarint(100))
	buf.WriteByte(txOutputToKey)
	buf.Write(repeatByte(0x22, HashSize))

	buf.Write(EncodeVarint(uint64(len(extra))))
	buf.Write(extra)

	// one ring signature set, four members
	buf.Write(repeatByte(0x44, 4*SignatureSize))
	return buf.Bytes()
}

func TestTransactionFromBytes(t *testing.T) {
	extra := append([]byte{txExtraPubKey}, repeatByte(0x33, HashSize)...)
	blob := buildTransactionBlob(extra)

	tx, err := TransactionFromBytes(blob)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), tx.Version)
	assert.Equal(t, uint64(0), tx.UnlockTime)
	require.Len(t, tx.Inputs, 1)
	assert.Equal(t, uint64(2000), tx.Inputs[0].Amount)
	assert.Equal(t, []uint64{5, 2, 3, 2}, tx.Inputs[0].KeyOffsets)
	require.Len(t, tx.Outputs, 1)
	assert.Equal(t, uint64(100), tx.Outputs[0].Amount)
	require.Len(t, tx.Signatures, 1)
	assert.Len(t, tx.Signatures[0], 4)
	assert.Equal(t, len(blob), tx.Size())

	pub, ok := tx.PublicKey()
	require.True(t, ok)
	assert.Equal(t, repeatByte(0x33, HashSize), pub.Bytes())
}

func TestTransactionPaymentID(t *testing.T) {
	nonce := append([]byte{txExtraNoncePaymentID}, repeatByte(0x55, HashSize)...)
	extra := append([]byte{txExtraPubKey}, repeatByte(0x33, HashSize)...)
	extra = append(extra, txExtraNonce)
	extra = append(extra, EncodeVarint(uint64(len(nonce)))...)
	extra = append(extra, nonce...)

	tx, err := TransactionFromBytes(buildTransactionBlob(extra))
	require.NoError(t, err)

	pid, ok := tx.PaymentID()
	require.True(t, ok)
	assert.Equal(t, repeatByte(0x55, HashSize), pid.Bytes())
}

func TestTransactionTruncated(t *testing.T) {
	extra := append([]byte{txExtraPubKey}, repeatByte(0x33, HashSize)...)
	blob := buildTransactionBlob(extra)

	for _, cut := range []int{1, 40, 100, len(blob) - 1} {
		_, err := TransactionFromBytes(blob[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestTransactionTrailingBytes(t *testing.T) {
	extra := append([]byte{txExtraPubKey}, repeatByte(0x33, HashSize)...)
	blob := append(buildTransactionBlob(extra), 0x00)
	_, err := TransactionFromBytes(blob)
	assert.Error(t, err)
}

func TestTransactionHashDeterministic(t *testing.T) {
	extra := append([]byte{txExtraPubKey}, repeatByte(0x33, HashSize)...)
	tx, err := TransactionFromBytes(buildTransactionBlob(extra))
	require.NoError(t, err)

	first := tx.Hash()
	assert.Equal(t, first, tx.Hash())
	assert.False(t, first.IsZero())
}
