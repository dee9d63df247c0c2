// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

// Package apdu frames requests for the Ledger TurtleCoin application and
// decodes its responses. The wire unit is a standard ISO 7816-4 APDU:
//
//	CLA | INS | P1 | P2 | LEN  | DATA
//	 u8 |  u8 | u8 | u8 | u16  | LEN bytes
//
// LEN is big-endian. Responses are BODY || SW with SW a big-endian status
// word, 0x9000 on success.
package apdu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

const (
	// CLA is the instruction class byte of the TurtleCoin application.
	CLA byte = 0xE0

	// P1Confirm asks the device to prompt the user before answering.
	// Skipping the prompt is only honored by DEBUG builds of the app.
	P1Confirm   byte = 0x01
	P1NoConfirm byte = 0x00

	headerSize     = 6
	maxRequestSize = 512

	// MaxDataSize is the largest request body the device accepts.
	MaxDataSize = maxRequestSize - headerSize

	// StatusOK is the status word of a successful exchange.
	StatusOK uint16 = 0x9000

	// statusDenied is the ISO status word the device answers with when
	// the user is required but has not approved the operation.
	statusDenied uint16 = 0x6985
)

// ErrPayloadTooLarge rejects request bodies over MaxDataSize before any
// transport I/O happens.
var ErrPayloadTooLarge = fmt.Errorf("%w: request payload too large", types.ErrInvalidArgument)

var errResponseTooShort = errors.New("device response shorter than a status word")

// EncodeRequest frames an instruction and its body into request bytes.
func EncodeRequest(ins byte, confirm bool, data []byte) ([]byte, error) {
	if len(data) > MaxDataSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(data), MaxDataSize)
	}
	p1 := P1NoConfirm
	if confirm {
		p1 = P1Confirm
	}
	request := make([]byte, headerSize, headerSize+len(data))
	request[0] = CLA
	request[1] = ins
	request[2] = p1
	request[3] = 0x00
	binary.BigEndian.PutUint16(request[4:6], uint16(len(data)))
	return append(request, data...), nil
}

// Response is a parsed device reply: the body and the trailing status word.
type Response struct {
	Body   []byte
	Status uint16
}

// ParseResponse splits raw reply bytes into body and status word.
func ParseResponse(raw []byte) (*Response, error) {
	if len(raw) < 2 {
		return nil, errResponseTooShort
	}
	return &Response{
		Body:   raw[:len(raw)-2],
		Status: binary.BigEndian.Uint16(raw[len(raw)-2:]),
	}, nil
}

// Err returns nil when the status word is OK, and otherwise a
// *ProtocolError carrying the surfaced error code. When the error body
// carries at least 2 bytes, those bytes supersede the status word: the
// application encodes its richer error there.
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	code := codeFromStatus(r.Status)
	if len(r.Body) >= 2 {
		code = ErrorCode(binary.BigEndian.Uint16(r.Body[:2]))
	}
	return &ProtocolError{Status: r.Status, Code: code}
}

func codeFromStatus(status uint16) ErrorCode {
	if status == statusDenied {
		return CodeOpUserRequired
	}
	return ErrorCode(status)
}
