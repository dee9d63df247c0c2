// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRequestSinglePacket(t *testing.T) {
	request := []byte{0xE0, 0x01, 0x01, 0x00, 0x00, 0x00}
	packets, err := wrapRequest(0x0101, request, 64)
	require.NoError(t, err)
	require.Len(t, packets, 1)

	packet := packets[0]
	assert.Len(t, packet, 64)
	assert.Equal(t, []byte{0x01, 0x01}, packet[0:2])
	assert.Equal(t, byte(tagAPDU), packet[2])
	assert.Equal(t, []byte{0x00, 0x00}, packet[3:5], "first sequence index")
	assert.Equal(t, []byte{0x00, 0x06}, packet[5:7], "payload length")
	assert.Equal(t, request, packet[7:13])
}

func TestWrapRequestSplitsLargePayloads(t *testing.T) {
	request := bytes.Repeat([]byte{0xAB}, 150)
	packets, err := wrapRequest(0x0101, request, 64)
	require.NoError(t, err)
	assert.Len(t, packets, 3)

	for i, packet := range packets {
		assert.Len(t, packet, 64)
		assert.Equal(t, byte(i), packet[4], "sequence increments")
	}
}

func TestWrapRequestRejectsTinyPackets(t *testing.T) {
	_, err := wrapRequest(0x0101, []byte{0x01}, 5)
	assert.Error(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	for _, size := range []int{1, 30, 59, 60, 200, 1000} {
		payload := make([]byte, size)
		for i := range payload {
			payload[i] = byte(i)
		}

		packets, err := wrapRequest(0x0101, payload, 64)
		require.NoError(t, err)

		reassembler := newFrameReassembler(0x0101)
		needMore := true
		for _, packet := range packets {
			require.True(t, needMore, "reassembler finished early at size %d", size)
			needMore, err = reassembler.consume(packet)
			require.NoError(t, err)
		}
		assert.False(t, needMore)
		assert.Equal(t, payload, reassembler.bytes(), "size %d", size)
	}
}

func TestReassemblerRejectsForeignPackets(t *testing.T) {
	packets, err := wrapRequest(0x0202, []byte{0x01, 0x02}, 64)
	require.NoError(t, err)

	reassembler := newFrameReassembler(0x0101)
	_, err = reassembler.consume(packets[0])
	assert.ErrorContains(t, err, "channel")

	bad := make([]byte, 64)
	bad[0], bad[1] = 0x01, 0x01
	bad[2] = 0x06 // not TAG_APDU
	_, err = reassembler.consume(bad)
	assert.ErrorContains(t, err, "tag")

	_, err = reassembler.consume([]byte{0x01})
	assert.ErrorContains(t, err, "too short")
}
