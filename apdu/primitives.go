// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package apdu

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// Writer builds a request body out of the protocol primitives. Multi-byte
// integers are big-endian; keys and signatures are raw bytes.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Uint8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

func (w *Writer) Uint16(v uint16) *Writer {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) Uint32(v uint32) *Writer {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) Uint64(v uint64) *Writer {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) Hash(h types.Hash) *Writer {
	w.buf.Write(h[:])
	return w
}

func (w *Writer) Signature(s types.Signature) *Writer {
	w.buf.Write(s[:])
	return w
}

func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Reader walks a response body, failing on any read past the end.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("response body truncated: need %d bytes at offset %d of %d", n, r.pos, len(r.data))
	}
	return nil
}

func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) Hash() (types.Hash, error) {
	if err := r.need(types.HashSize); err != nil {
		return types.Hash{}, err
	}
	h, _ := types.HashFromBytes(r.data[r.pos : r.pos+types.HashSize])
	r.pos += types.HashSize
	return h, nil
}

func (r *Reader) Signature() (types.Signature, error) {
	if err := r.need(types.SignatureSize); err != nil {
		return types.Signature{}, err
	}
	s, _ := types.SignatureFromBytes(r.data[r.pos : r.pos+types.SignatureSize])
	r.pos += types.SignatureSize
	return s, nil
}

// Rest returns whatever has not been consumed yet.
func (r *Reader) Rest() []byte {
	out := make([]byte, len(r.data)-r.pos)
	copy(out, r.data[r.pos:])
	r.pos = len(r.data)
	return out
}

// Remaining reports how many bytes are left to read.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}
