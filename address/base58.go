// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package address

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// CryptoNote Base58 differs from the Bitcoin flavour: input is split into
// 8-byte blocks, each encoded independently to a fixed 11 characters, so
// decoding can work blockwise without big-integer arithmetic over the
// whole payload.

const (
	b58Alphabet      = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	fullBlockSize    = 8
	fullEncodedBlock = 11
)

// encodedBlockSizes[n] is the encoded length of an n-byte trailing block.
var encodedBlockSizes = [fullBlockSize + 1]int{0, 2, 3, 5, 6, 7, 9, 10, 11}

var b58Index [256]int8

func init() {
	for i := range b58Index {
		b58Index[i] = -1
	}
	for i, c := range b58Alphabet {
		b58Index[c] = int8(i)
	}
}

func base58Encode(data []byte) string {
	out := make([]byte, 0, (len(data)/fullBlockSize+1)*fullEncodedBlock)
	for len(data) > 0 {
		n := len(data)
		if n > fullBlockSize {
			n = fullBlockSize
		}
		out = append(out, encodeBlock(data[:n])...)
		data = data[n:]
	}
	return string(out)
}

func encodeBlock(block []byte) []byte {
	padded := make([]byte, fullBlockSize)
	copy(padded[fullBlockSize-len(block):], block)
	num := binary.BigEndian.Uint64(padded)

	size := encodedBlockSizes[len(block)]
	out := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = b58Alphabet[num%58]
		num /= 58
	}
	return out
}

func base58Decode(encoded string) ([]byte, error) {
	out := make([]byte, 0, len(encoded)*fullBlockSize/fullEncodedBlock+fullBlockSize)
	for len(encoded) > 0 {
		n := len(encoded)
		if n > fullEncodedBlock {
			n = fullEncodedBlock
		}
		block, err := decodeBlock(encoded[:n])
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
		encoded = encoded[n:]
	}
	return out, nil
}

func decodeBlock(block string) ([]byte, error) {
	size := -1
	for n, encSize := range encodedBlockSizes {
		if encSize == len(block) {
			size = n
			break
		}
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: invalid base58 block length %d", ErrFormat, len(block))
	}

	num := new(big.Int)
	base := big.NewInt(58)
	for i := 0; i < len(block); i++ {
		digit := b58Index[block[i]]
		if digit < 0 {
			return nil, fmt.Errorf("%w: invalid base58 character %q", ErrFormat, block[i])
		}
		num.Mul(num, base)
		num.Add(num, big.NewInt(int64(digit)))
	}
	if num.BitLen() > size*8 {
		return nil, fmt.Errorf("%w: base58 block overflow", ErrFormat)
	}

	padded := make([]byte, fullBlockSize)
	num.FillBytes(padded)
	return padded[fullBlockSize-size:], nil
}
