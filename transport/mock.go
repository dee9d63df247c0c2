//go:build ledger_mock
// +build ledger_mock

// Copyright (C) 2020-2026, The TurtleCoin Developers
// Forked from github.com/zondax/ledger-go
// Licensed under the Apache License, Version 2.0

package transport

import "fmt"

type mockAdmin struct{}

type mockDevice struct{}

// NewAdmin returns a device manager with a single always-happy device.
func NewAdmin() Admin {
	return &mockAdmin{}
}

func (admin *mockAdmin) CountDevices() int {
	return 1
}

func (admin *mockAdmin) ListDevices() ([]string, error) {
	return []string{"mock"}, nil
}

func (admin *mockAdmin) Connect(deviceIndex int) (Device, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("%w: device not found", ErrTransport)
	}
	return &mockDevice{}, nil
}

func (t *mockDevice) Exchange(request []byte) ([]byte, error) {
	// Empty body with a success status word
	return []byte{0x90, 0x00}, nil
}

func (t *mockDevice) Close() error {
	return nil
}
