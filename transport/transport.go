// Copyright (C) 2020-2026, The TurtleCoin Developers
// Forked from github.com/zondax/ledger-go
// Licensed under the Apache License, Version 2.0

// Package transport carries APDU request bytes to a Ledger device and
// returns the raw reply. The rest of the module only sees the Device
// interface; USB HID specifics stay here.
package transport

import "errors"

// ErrTransport wraps every failure of the underlying byte channel so
// callers can tell device refusals from transport trouble.
var ErrTransport = errors.New("transport error")

// Admin manages attached Ledger devices.
type Admin interface {
	CountDevices() int
	ListDevices() ([]string, error)
	Connect(deviceIndex int) (Device, error)
}

// Device is the opaque byte-exchange channel to one Ledger device: a
// single request buffer in, a single response buffer out.
type Device interface {
	Exchange(request []byte) ([]byte, error)
	Close() error
}
