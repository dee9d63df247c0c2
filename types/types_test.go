// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package types

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFromHex(t *testing.T) {
	valid := strings.Repeat("ab", 32)
	h, err := HashFromHex(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, h.Hex())

	upper := strings.Repeat("AB", 32)
	h, err = HashFromHex(upper)
	require.NoError(t, err)
	assert.Equal(t, valid, h.Hex(), "hex rendering is lowercase")

	cases := []string{
		"",
		"abcd",
		strings.Repeat("zz", 32),
		strings.Repeat("ab", 31),
		strings.Repeat("ab", 33),
	}
	for _, c := range cases {
		_, err := HashFromHex(c)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input %q", c)
	}
}

func TestSignatureFromHex(t *testing.T) {
	valid := strings.Repeat("cd", 64)
	s, err := SignatureFromHex(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, s.Hex())

	_, err = SignatureFromHex(strings.Repeat("cd", 32))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = SignatureFromHex(strings.Repeat("xy", 64))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidHex(t *testing.T) {
	assert.True(t, ValidHex(strings.Repeat("0f", 32), 64))
	assert.True(t, ValidHex(strings.Repeat("0F", 32), 64))
	assert.False(t, ValidHex(strings.Repeat("0f", 32), 128))
	assert.False(t, ValidHex(strings.Repeat("g", 64), 64))
}

func TestTxStateString(t *testing.T) {
	expected := []string{
		"INACTIVE", "READY", "RECEIVING_INPUTS", "INPUTS_RECEIVED",
		"RECEIVING_OUTPUTS", "OUTPUTS_RECEIVED", "PREFIX_READY", "COMPLETE",
	}
	for i, name := range expected {
		assert.Equal(t, name, TxState(i).String())
	}
	assert.Equal(t, "TxState(200)", TxState(200).String())
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0x3fff, 0x4000, 2000, 1<<32 - 1, 1<<63 + 5}
	for _, v := range values {
		encoded := EncodeVarint(v)
		decoded, err := ReadVarint(bytes.NewReader(encoded))
		require.NoError(t, err, "value %d", v)
		assert.Equal(t, v, decoded)
	}
}

func TestVarintTruncated(t *testing.T) {
	_, err := ReadVarint(bytes.NewReader([]byte{0x80}))
	assert.Error(t, err)
}
