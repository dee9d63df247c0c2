// Copyright (C) 2020-2026, The TurtleCoin Developers
// Forked from github.com/zondax/ledger-go
// Licensed under the Apache License, Version 2.0

package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// USB HID framing: every packet opens with the channel id (u16be), the
// TAG_APDU marker and a big-endian sequence index. The first packet
// additionally carries the total payload length, so reassembly knows
// when to stop reading.

const (
	tagAPDU         = 0x05
	frameHeaderSize = 5
	lengthSize      = 2
)

// wrapRequest splits an APDU request into HID packets of packetSize bytes.
func wrapRequest(channel uint16, request []byte, packetSize int) ([][]byte, error) {
	if packetSize <= frameHeaderSize+lengthSize {
		return nil, errors.New("packet size too small for frame header")
	}

	payload := make([]byte, lengthSize+len(request))
	binary.BigEndian.PutUint16(payload, uint16(len(request)))
	copy(payload[lengthSize:], request)

	var packets [][]byte
	for seq := uint16(0); len(payload) > 0; seq++ {
		packet := make([]byte, packetSize)
		binary.BigEndian.PutUint16(packet[0:2], channel)
		packet[2] = tagAPDU
		binary.BigEndian.PutUint16(packet[3:5], seq)

		n := copy(packet[frameHeaderSize:], payload)
		payload = payload[n:]
		packets = append(packets, packet)
	}
	return packets, nil
}

// frameReassembler accumulates response packets until the length
// announced by the first packet is satisfied.
type frameReassembler struct {
	channel uint16
	total   int
	started bool
	body    []byte
}

func newFrameReassembler(channel uint16) *frameReassembler {
	return &frameReassembler{channel: channel}
}

// consume folds one packet in and reports whether more are needed.
func (f *frameReassembler) consume(packet []byte) (bool, error) {
	if len(packet) < frameHeaderSize {
		return false, fmt.Errorf("response packet too short: %d bytes", len(packet))
	}
	if got := binary.BigEndian.Uint16(packet[0:2]); got != f.channel {
		return false, fmt.Errorf("response on channel 0x%04x, expected 0x%04x", got, f.channel)
	}
	if packet[2] != tagAPDU {
		return false, fmt.Errorf("unexpected response tag 0x%02x", packet[2])
	}

	payload := packet[frameHeaderSize:]
	if !f.started {
		if len(packet) < frameHeaderSize+lengthSize {
			return false, errors.New("first response packet lacks a length")
		}
		f.total = int(binary.BigEndian.Uint16(packet[frameHeaderSize:]))
		f.started = true
		payload = packet[frameHeaderSize+lengthSize:]
	}

	if missing := f.total - len(f.body); len(payload) > missing {
		payload = payload[:missing]
	}
	f.body = append(f.body, payload...)
	return len(f.body) < f.total, nil
}

func (f *frameReassembler) bytes() []byte {
	return f.body
}
