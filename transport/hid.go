//go:build !ledger_mock
// +build !ledger_mock

// Copyright (C) 2020-2026, The TurtleCoin Developers
// Forked from github.com/zondax/ledger-go
// Licensed under the Apache License, Version 2.0

package transport

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zondax/hid"
)

const (
	VendorLedger   = 0x2c97
	UsagePageAPDU  = 0xffa0
	Channel        = 0x0101
	PacketSize     = 64
	responseWindow = 20 * time.Second
)

// supported product ids and their interfaces, per
// https://github.com/LedgerHQ/ledger-live/blob/develop/libs/ledgerjs/packages/devices/src/index.ts
var supportedLedgerProductID = map[uint8]int{
	0x40: 0, // Ledger Nano X
	0x10: 0, // Ledger Nano S
	0x50: 0, // Ledger Nano S Plus
	0x60: 0, // Ledger Stax
	0x70: 0, // Ledger Flex
}

type hidAdmin struct{}

type hidDevice struct {
	device      *hid.Device
	readOnce    *sync.Once
	readChannel chan []byte
}

// NewAdmin returns the USB HID device manager.
func NewAdmin() Admin {
	return &hidAdmin{}
}

func (admin *hidAdmin) ListDevices() ([]string, error) {
	devices := hid.Enumerate(0, 0)
	if len(devices) == 0 {
		log.Debug("No devices. Ledger LOCKED OR other program may have control of the device.")
	}

	paths := make([]string, 0, len(devices))
	for _, d := range devices {
		logDeviceInfo(d)
		if d.VendorID == VendorLedger && isLedgerDevice(d) {
			paths = append(paths, d.Path)
		}
	}
	return paths, nil
}

func logDeviceInfo(d hid.DeviceInfo) {
	log.Debugf("============ %s", d.Path)
	log.Debugf("VendorID      : %x", d.VendorID)
	log.Debugf("ProductID     : %x", d.ProductID)
	log.Debugf("Serial        : %x", d.Serial)
	log.Debugf("Manufacturer  : %s", d.Manufacturer)
	log.Debugf("Product       : %s", d.Product)
	log.Debugf("UsagePage     : %x", d.UsagePage)
}

func isLedgerDevice(d hid.DeviceInfo) bool {
	if d.UsagePage == UsagePageAPDU {
		return true
	}
	// Workaround for possibly empty usage pages
	productIDMM := uint8(d.ProductID >> 8)
	if interfaceID, supported := supportedLedgerProductID[productIDMM]; supported && interfaceID == d.Interface {
		return true
	}
	return false
}

func (admin *hidAdmin) CountDevices() int {
	count := 0
	for _, d := range hid.Enumerate(0, 0) {
		if d.VendorID == VendorLedger && isLedgerDevice(d) {
			count++
		}
	}
	return count
}

func (admin *hidAdmin) Connect(deviceIndex int) (Device, error) {
	currentIndex := 0
	for _, d := range hid.Enumerate(0, 0) {
		if d.VendorID != VendorLedger || !isLedgerDevice(d) {
			continue
		}
		if currentIndex == deviceIndex {
			device, err := d.Open()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTransport, err)
			}
			return &hidDevice{device: device, readOnce: &sync.Once{}, readChannel: make(chan []byte)}, nil
		}
		currentIndex++
	}
	return nil, fmt.Errorf("%w: device not found", ErrTransport)
}

// Exchange writes one APDU request and blocks for the complete reply.
func (t *hidDevice) Exchange(request []byte) ([]byte, error) {
	log.Debugf("[HID] => %x", request)

	packets, err := wrapRequest(Channel, request, PacketSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	for _, packet := range packets {
		if err := t.write(packet); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	response, err := t.readResponse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	log.Debugf("[HID] <= %x", response)
	return response, nil
}

func (t *hidDevice) write(packet []byte) error {
	written := 0
	for written < len(packet) {
		n, err := t.device.Write(packet)
		if err != nil {
			return err
		}
		written += n
	}
	return nil
}

func (t *hidDevice) read() <-chan []byte {
	t.readOnce.Do(func() {
		go t.readThread()
	})
	return t.readChannel
}

func (t *hidDevice) readThread() {
	defer close(t.readChannel)
	for {
		buffer := make([]byte, PacketSize)
		n, err := t.device.Read(buffer)
		if err != nil {
			return
		}
		select {
		case t.readChannel <- buffer[:n]:
		default:
		}
	}
}

func (t *hidDevice) readResponse() ([]byte, error) {
	readChannel := t.read()
	reassembler := newFrameReassembler(Channel)

	needMore := true
	for needMore {
		select {
		case packet, ok := <-readChannel:
			if !ok {
				return nil, errors.New("read channel closed")
			}
			var err error
			needMore, err = reassembler.consume(packet)
			if err != nil {
				return nil, err
			}
		case <-time.After(responseWindow):
			return nil, errors.New("timeout reading from device")
		}
	}

	response := reassembler.bytes()
	if len(response) < 2 {
		return nil, fmt.Errorf("response too short: %d bytes", len(response))
	}
	return response, nil
}

func (t *hidDevice) Close() error {
	return t.device.Close()
}
