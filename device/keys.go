// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package device

import (
	"encoding/hex"
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/apdu"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// Version retrieves the running application version.
//
// The protocol is defined as follows:
//
//	CLA | INS | P1 | P2 | LEN
//	----+-----+----+----+-----
//	 E0 | 01  | 01 | 00 | 0000
//
// With no input data, and the output data being:
//
//	Description                | Length
//	---------------------------+--------
//	Application major version  | 1 byte
//	Application minor version  | 1 byte
//	Application patch version  | 1 byte
func (c *Client) Version() (Version, error) {
	r, err := c.exchange(CmdVersion, true, nil)
	if err != nil {
		return Version{}, err
	}
	var v Version
	if v.Major, err = r.Uint8(); err != nil {
		return Version{}, err
	}
	if v.Minor, err = r.Uint8(); err != nil {
		return Version{}, err
	}
	if v.Patch, err = r.Uint8(); err != nil {
		return Version{}, err
	}
	return v, nil
}

// Debug reports whether the device runs a DEBUG build of the application.
func (c *Client) Debug() (bool, error) {
	r, err := c.exchange(CmdDebug, true, nil)
	if err != nil {
		return false, err
	}
	flag, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return flag != 0, nil
}

// Ident returns the opaque device identification bytes as hex.
func (c *Client) Ident() (string, error) {
	r, err := c.exchange(CmdIdent, true, nil)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(r.Rest()), nil
}

// PublicKeys retrieves the wallet spend and view public keys.
func (c *Client) PublicKeys(confirm bool) (spend, view types.Hash, err error) {
	r, err := c.exchange(CmdPublicKeys, confirm, nil)
	if err != nil {
		return types.Hash{}, types.Hash{}, err
	}
	if spend, err = r.Hash(); err != nil {
		return types.Hash{}, types.Hash{}, err
	}
	if view, err = r.Hash(); err != nil {
		return types.Hash{}, types.Hash{}, err
	}
	return spend, view, nil
}

// ViewSecretKey retrieves the private view key from the device.
func (c *Client) ViewSecretKey(confirm bool) (types.Hash, error) {
	r, err := c.exchange(CmdViewSecretKey, confirm, nil)
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// SpendSecretKey retrieves the private spend key. The device always
// prompts for this one; a DEBUG build is the only exception.
func (c *Client) SpendSecretKey(confirm bool) (types.Hash, error) {
	r, err := c.exchange(CmdSpendSecretKey, confirm, nil)
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// CheckKey asks the device whether key is a valid curve point.
func (c *Client) CheckKey(key string) (bool, error) {
	h, err := parseKey("key", key)
	if err != nil {
		return false, err
	}
	r, err := c.exchange(CmdCheckKey, true, apdu.NewWriter().Hash(h).Bytes())
	if err != nil {
		return false, err
	}
	valid, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return valid != 0, nil
}

// CheckScalar asks the device whether value is a canonical scalar.
func (c *Client) CheckScalar(value string) (bool, error) {
	h, err := parseKey("scalar", value)
	if err != nil {
		return false, err
	}
	r, err := c.exchange(CmdCheckScalar, true, apdu.NewWriter().Hash(h).Bytes())
	if err != nil {
		return false, err
	}
	valid, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return valid != 0, nil
}

// PrivateToPublic turns a private key into its public counterpart on the
// device.
func (c *Client) PrivateToPublic(privateKey string) (types.Hash, error) {
	h, err := parseKey("privateKey", privateKey)
	if err != nil {
		return types.Hash{}, err
	}
	r, err := c.exchange(CmdPrivateToPublic, true, apdu.NewWriter().Hash(h).Bytes())
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// RandomKeyPair asks the device for a fresh random key pair.
func (c *Client) RandomKeyPair() (types.KeyPair, error) {
	r, err := c.exchange(CmdRandomKeyPair, true, nil)
	if err != nil {
		return types.KeyPair{}, err
	}
	var pair types.KeyPair
	if pair.Public, err = r.Hash(); err != nil {
		return types.KeyPair{}, err
	}
	if pair.Private, err = r.Hash(); err != nil {
		return types.KeyPair{}, err
	}
	return pair, nil
}

// Address retrieves the wallet address string held by the device.
func (c *Client) Address(confirm bool) (string, error) {
	r, err := c.exchange(CmdAddress, confirm, nil)
	if err != nil {
		return "", err
	}
	return string(r.Rest()), nil
}

// GenerateKeyDerivation computes the shared key derivation for a
// transaction public key using the on-device private view key.
func (c *Client) GenerateKeyDerivation(txPublicKey string, confirm bool) (types.Hash, error) {
	h, err := parseKey("txPublicKey", txPublicKey)
	if err != nil {
		return types.Hash{}, err
	}
	r, err := c.exchange(CmdGenerateKeyDerivation, confirm, apdu.NewWriter().Hash(h).Bytes())
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// DerivePublicKey derives the one-time output public key for the given
// derivation and output index.
func (c *Client) DerivePublicKey(derivation string, outputIndex uint32, confirm bool) (types.Hash, error) {
	h, err := parseKey("derivation", derivation)
	if err != nil {
		return types.Hash{}, err
	}
	data := apdu.NewWriter().Hash(h).Uint32(outputIndex).Bytes()
	r, err := c.exchange(CmdDerivePublicKey, confirm, data)
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// DeriveSecretKey derives the one-time output secret key on the device.
func (c *Client) DeriveSecretKey(derivation string, outputIndex uint32, confirm bool) (types.Hash, error) {
	h, err := parseKey("derivation", derivation)
	if err != nil {
		return types.Hash{}, err
	}
	data := apdu.NewWriter().Hash(h).Uint32(outputIndex).Bytes()
	r, err := c.exchange(CmdDeriveSecretKey, confirm, data)
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// GenerateKeyImage computes the key image of an owned output. The
// private spend key involved never leaves the device.
//
//	Description             | Length
//	------------------------+--------
//	Transaction public key  | 32 bytes
//	Output index (u32be)    | 4 bytes
//	Output key              | 32 bytes
func (c *Client) GenerateKeyImage(txPublicKey string, outputIndex uint32, outputKey string, confirm bool) (types.Hash, error) {
	txPub, err := parseKey("txPublicKey", txPublicKey)
	if err != nil {
		return types.Hash{}, err
	}
	outKey, err := parseKey("outputKey", outputKey)
	if err != nil {
		return types.Hash{}, err
	}
	data := apdu.NewWriter().Hash(txPub).Uint32(outputIndex).Hash(outKey).Bytes()
	r, err := c.exchange(CmdGenerateKeyImage, confirm, data)
	if err != nil {
		return types.Hash{}, err
	}
	return r.Hash()
}

// ResetKeys wipes the wallet keys held by the device.
func (c *Client) ResetKeys(confirm bool) error {
	_, err := c.exchange(CmdResetKeys, confirm, nil)
	return err
}

func validateCount(name string, value, max int) error {
	if value < 0 || value > max {
		return fmt.Errorf("%s: %w: %d out of range [0, %d]", name, types.ErrInvalidArgument, value, max)
	}
	return nil
}
