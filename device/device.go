// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

// Package device is the command-level client for the TurtleCoin Ledger
// application: one method per instruction, input validation before any
// transport I/O, and serialized APDU exchanges.
package device

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/turtlecoin/ledger-turtlecoin-go/apdu"
	"github.com/turtlecoin/ledger-turtlecoin-go/transport"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

const (
	// MaxTransactionEdges caps the input and output counts of TX_START.
	MaxTransactionEdges = 90

	// RingParticipants is the ring size the device signs with: the real
	// output plus three decoys.
	RingParticipants = 4
)

// Version is the application version reported by the device.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Client drives one Ledger device. Exchanges are serialized: a new
// request is never written before the previous response is consumed.
type Client struct {
	transport transport.Device

	mu     sync.Mutex
	events eventRegistry
}

// NewClient wraps a transport channel in a command client. The client
// takes ownership of the channel.
func NewClient(t transport.Device) *Client {
	return &Client{transport: t}
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

// OnSend registers an observer for outbound request bytes (hex).
func (c *Client) OnSend(fn func(hexRequest string)) {
	c.events.onSend(fn)
}

// OnReceive registers an observer for inbound response bytes (hex).
func (c *Client) OnReceive(fn func(hexResponse string)) {
	c.events.onReceive(fn)
}

// exchange frames one command, performs the transport round trip and
// returns a reader over the response body. Non-OK status words surface
// as *apdu.ProtocolError.
func (c *Client) exchange(cmd Command, confirm bool, data []byte) (*apdu.Reader, error) {
	request, err := apdu.EncodeRequest(byte(cmd), confirm, data)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log.Debugf("[APDU] => %s %x", cmd, request)
	c.events.emitSend(hex.EncodeToString(request))

	raw, err := c.transport.Exchange(request)
	if err != nil {
		if errors.Is(err, transport.ErrTransport) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", transport.ErrTransport, err)
	}

	log.Debugf("[APDU] <= %s %x", cmd, raw)
	c.events.emitReceive(hex.EncodeToString(raw))

	response, err := apdu.ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	if err := response.Err(); err != nil {
		return nil, err
	}
	return apdu.NewReader(response.Body), nil
}

// eventRegistry is a small publish-subscribe list for the informational
// send/receive hooks. Observers get hex strings and cannot touch the
// buffers that actually went over the wire.
type eventRegistry struct {
	mu      sync.RWMutex
	send    []func(string)
	receive []func(string)
}

func (e *eventRegistry) onSend(fn func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.send = append(e.send, fn)
}

func (e *eventRegistry) onReceive(fn func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.receive = append(e.receive, fn)
}

func (e *eventRegistry) emitSend(payload string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, fn := range e.send {
		fn(payload)
	}
}

func (e *eventRegistry) emitReceive(payload string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, fn := range e.receive {
		fn(payload)
	}
}

// parseKey validates a 64 character hex key/scalar/hash argument.
func parseKey(name, value string) (types.Hash, error) {
	h, err := types.HashFromHex(value)
	if err != nil {
		return types.Hash{}, fmt.Errorf("%s: %w", name, err)
	}
	return h, nil
}

// parseSignature validates a 128 character hex signature argument.
func parseSignature(name, value string) (types.Signature, error) {
	s, err := types.SignatureFromHex(value)
	if err != nil {
		return types.Signature{}, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}
