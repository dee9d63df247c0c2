// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package types

import (
	"errors"
	"io"
)

// CryptoNote varints are little-endian base-128 with a continuation bit,
// the same encoding the daemon uses for transaction blobs.

var errVarintOverflow = errors.New("varint exceeds 64 bits")

// EncodeVarint renders v in CryptoNote varint form.
func EncodeVarint(v uint64) []byte {
	var out []byte
	for ; v >= 0x80; v >>= 7 {
		out = append(out, byte(v&0x7f)|0x80)
	}
	return append(out, byte(v))
}

// ReadVarint consumes a CryptoNote varint from r.
func ReadVarint(r io.ByteReader) (uint64, error) {
	var value uint64
	for shift := uint(0); ; shift += 7 {
		if shift > 63 {
			return 0, errVarintOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return value, nil
		}
	}
}
