// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package device

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtlecoin/ledger-turtlecoin-go/apdu"
	"github.com/turtlecoin/ledger-turtlecoin-go/transport"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// scriptTransport replays canned responses and records every request.
type scriptTransport struct {
	requests  [][]byte
	responses [][]byte
	closed    bool
}

func (s *scriptTransport) Exchange(request []byte) ([]byte, error) {
	s.requests = append(s.requests, append([]byte(nil), request...))
	if len(s.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	response := s.responses[0]
	s.responses = s.responses[1:]
	return response, nil
}

func (s *scriptTransport) Close() error {
	s.closed = true
	return nil
}

// ok appends a success status word to a response body.
func ok(body ...byte) []byte {
	return append(body, 0x90, 0x00)
}

func repeatHex(c string, n int) string {
	return strings.Repeat(c, n)
}

func TestVersion(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{ok(0x01, 0x02, 0x03)}}
	client := NewClient(script)

	version, err := client.Version()
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 1, Minor: 2, Patch: 3}, version)
	assert.Equal(t, "1.2.3", version.String())

	require.Len(t, script.requests, 1)
	assert.Equal(t, []byte{0xE0, 0x01, 0x01, 0x00, 0x00, 0x00}, script.requests[0])
}

func TestInvalidHexNeverReachesTransport(t *testing.T) {
	script := &scriptTransport{}
	client := NewClient(script)

	_, err := client.CheckKey(repeatHex("Z", 64))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = client.CheckKey("abcd")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = client.GenerateSignature(repeatHex("g", 64), true)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	_, err = client.CompleteRingSignature(repeatHex("ab", 32), 0, repeatHex("ab", 32), repeatHex("ab", 32), "tooshort", true)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	assert.Empty(t, script.requests, "no transport I/O for invalid input")
}

func TestDebugAndIdent(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{
		ok(0x01),
		ok(0xDE, 0xAD),
	}}
	client := NewClient(script)

	debug, err := client.Debug()
	require.NoError(t, err)
	assert.True(t, debug)

	ident, err := client.Ident()
	require.NoError(t, err)
	assert.Equal(t, "dead", ident)
}

func TestPublicKeys(t *testing.T) {
	spend := strings.Repeat("\x0a", 32)
	view := strings.Repeat("\x0b", 32)
	script := &scriptTransport{responses: [][]byte{ok(append([]byte(spend), view...)...)}}
	client := NewClient(script)

	gotSpend, gotView, err := client.PublicKeys(true)
	require.NoError(t, err)
	assert.Equal(t, repeatHex("0a", 32), gotSpend.Hex())
	assert.Equal(t, repeatHex("0b", 32), gotView.Hex())
	assert.Equal(t, byte(CmdPublicKeys), script.requests[0][1])
}

func TestGenerateKeyImageFraming(t *testing.T) {
	image := strings.Repeat("\x0c", 32)
	script := &scriptTransport{responses: [][]byte{ok([]byte(image)...)}}
	client := NewClient(script)

	txPub := repeatHex("aa", 32)
	outKey := repeatHex("bb", 32)
	got, err := client.GenerateKeyImage(txPub, 7, outKey, true)
	require.NoError(t, err)
	assert.Equal(t, repeatHex("0c", 32), got.Hex())

	request := script.requests[0]
	assert.Equal(t, apdu.CLA, request[0])
	assert.Equal(t, byte(CmdGenerateKeyImage), request[1])
	assert.Equal(t, byte(0x01), request[2])
	assert.Equal(t, []byte{0x00, 0x44}, request[4:6], "32+4+32 bytes of data")
	body := request[6:]
	assert.Equal(t, txPub, hex.EncodeToString(body[:32]))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x07}, body[32:36])
	assert.Equal(t, outKey, hex.EncodeToString(body[36:68]))
}

func TestGenerateRingSignatures(t *testing.T) {
	sigs := make([]byte, 2*types.SignatureSize)
	for i := range sigs {
		sigs[i] = byte(i)
	}
	script := &scriptTransport{responses: [][]byte{ok(sigs...)}}
	client := NewClient(script)

	keys := []string{repeatHex("aa", 32), repeatHex("bb", 32)}
	got, err := client.GenerateRingSignatures(repeatHex("11", 32), 0, repeatHex("22", 32), repeatHex("33", 32), keys, 1, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sigs[:64], got[0].Bytes())
	assert.Equal(t, sigs[64:], got[1].Bytes())
}

func TestGenerateRingSignaturesCountMismatch(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{ok(make([]byte, types.SignatureSize)...)}}
	client := NewClient(script)

	keys := []string{repeatHex("aa", 32), repeatHex("bb", 32)}
	_, err := client.GenerateRingSignatures(repeatHex("11", 32), 0, repeatHex("22", 32), repeatHex("33", 32), keys, 0, true)
	assert.ErrorContains(t, err, "expected 2 ring signatures")
}

func TestGenerateRingSignaturesUnevenBody(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{ok(make([]byte, 100)...)}}
	client := NewClient(script)

	keys := []string{repeatHex("aa", 32)}
	_, err := client.GenerateRingSignatures(repeatHex("11", 32), 0, repeatHex("22", 32), repeatHex("33", 32), keys, 0, true)
	assert.ErrorContains(t, err, "not a multiple")
}

func TestGenerateRingSignaturesNeedsMembers(t *testing.T) {
	script := &scriptTransport{}
	client := NewClient(script)

	_, err := client.GenerateRingSignatures(repeatHex("11", 32), 0, repeatHex("22", 32), repeatHex("33", 32), nil, 0, true)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.Empty(t, script.requests)
}

func TestTxStartFraming(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{ok()}}
	client := NewClient(script)

	txPub := repeatHex("ab", 32)
	pid := repeatHex("cd", 32)
	err := client.TxStart(0x0102030405060708, 2, 3, txPub, pid, true)
	require.NoError(t, err)

	body := script.requests[0][6:]
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, body[:8])
	assert.Equal(t, byte(2), body[8])
	assert.Equal(t, byte(3), body[9])
	assert.Equal(t, txPub, hex.EncodeToString(body[10:42]))
	assert.Equal(t, byte(1), body[42])
	assert.Equal(t, pid, hex.EncodeToString(body[43:75]))
}

func TestTxStartWithoutPaymentID(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{ok()}}
	client := NewClient(script)

	require.NoError(t, client.TxStart(0, 1, 1, repeatHex("ab", 32), "", true))
	body := script.requests[0][6:]
	assert.Equal(t, byte(0), body[len(body)-1])
	assert.Len(t, body, 8+1+1+32+1)
}

func TestTxStartRejectsCounts(t *testing.T) {
	script := &scriptTransport{}
	client := NewClient(script)

	err := client.TxStart(0, 91, 1, repeatHex("ab", 32), "", true)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	err = client.TxStart(0, 1, 91, repeatHex("ab", 32), "", true)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.Empty(t, script.requests)
}

func TestTxLoadInputValidatesRing(t *testing.T) {
	script := &scriptTransport{}
	client := NewClient(script)

	keys3 := []string{repeatHex("aa", 32), repeatHex("bb", 32), repeatHex("cc", 32)}
	err := client.TxLoadInput(repeatHex("ab", 32), 0, 100, keys3, []uint32{1, 2, 3, 4}, 0)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	keys4 := append(keys3, repeatHex("dd", 32))
	err = client.TxLoadInput(repeatHex("ab", 32), 0, 100, keys4, []uint32{1, 2, 3}, 0)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	err = client.TxLoadInput(repeatHex("ab", 32), 0, 100, keys4, []uint32{1, 2, 3, 4}, 4)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	assert.Empty(t, script.requests)
}

func TestTxSign(t *testing.T) {
	hash := make([]byte, 32)
	hash[0] = 0x42
	script := &scriptTransport{responses: [][]byte{ok(append(hash, 0x01, 0x90)...)}}
	client := NewClient(script)

	gotHash, size, err := client.TxSign(true)
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), gotHash[0])
	assert.Equal(t, uint16(0x0190), size)
}

func TestProtocolErrorSurfaced(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{{0x94, 0x00, 0x6A, 0x80}}}
	client := NewClient(script)

	_, err := client.CheckKey(repeatHex("ab", 32))
	var pe *apdu.ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, apdu.CodePrivateSpend, pe.Code, "body code supersedes the status word")
}

func TestTransportErrorWrapped(t *testing.T) {
	script := &scriptTransport{}
	client := NewClient(script)

	_, err := client.Version()
	assert.ErrorIs(t, err, transport.ErrTransport)
}

func TestObserverEvents(t *testing.T) {
	script := &scriptTransport{responses: [][]byte{ok(0x01, 0x02, 0x03)}}
	client := NewClient(script)

	var sent, received []string
	client.OnSend(func(payload string) { sent = append(sent, payload) })
	client.OnReceive(func(payload string) { received = append(received, payload) })

	_, err := client.Version()
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, "e00101000000", sent[0])
	require.Len(t, received, 1)
	assert.Equal(t, "0102039000", received[0])
}

func TestCommandNames(t *testing.T) {
	assert.Equal(t, "VERSION", CmdVersion.String())
	assert.Equal(t, "TX_FINALIZE_TX_PREFIX", CmdTxFinalizePrefix.String())
	assert.Equal(t, "RESET_KEYS", CmdResetKeys.String())
	assert.Equal(t, "Command(0xEE)", Command(0xEE).String())
}

func TestClose(t *testing.T) {
	script := &scriptTransport{}
	client := NewClient(script)
	require.NoError(t, client.Close())
	assert.True(t, script.closed)
}
