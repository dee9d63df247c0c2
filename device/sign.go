// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package device

import (
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/apdu"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// GenerateRingSignatures produces the full ring signature set for one
// transaction input.
//
//	Description                  | Length
//	-----------------------------+----------------
//	Transaction public key       | 32 bytes
//	Output index (u32be)         | 4 bytes
//	Output key                   | 32 bytes
//	Transaction prefix hash      | 32 bytes
//	Ring member keys             | 32 bytes each
//	Real output index (u32be)    | 4 bytes
//
// The response carries one 64-byte signature per ring member.
func (c *Client) GenerateRingSignatures(txPublicKey string, outputIndex uint32, outputKey, prefixHash string, inputKeys []string, realIndex uint32, confirm bool) ([]types.Signature, error) {
	if len(inputKeys) < 1 {
		return nil, fmt.Errorf("inputKeys: %w: at least one ring member required", types.ErrInvalidArgument)
	}
	txPub, err := parseKey("txPublicKey", txPublicKey)
	if err != nil {
		return nil, err
	}
	outKey, err := parseKey("outputKey", outputKey)
	if err != nil {
		return nil, err
	}
	prefix, err := parseKey("prefixHash", prefixHash)
	if err != nil {
		return nil, err
	}

	w := apdu.NewWriter().Hash(txPub).Uint32(outputIndex).Hash(outKey).Hash(prefix)
	for i, key := range inputKeys {
		h, err := parseKey(fmt.Sprintf("inputKeys[%d]", i), key)
		if err != nil {
			return nil, err
		}
		w.Hash(h)
	}
	w.Uint32(realIndex)

	r, err := c.exchange(CmdGenerateRingSignatures, confirm, w.Bytes())
	if err != nil {
		return nil, err
	}

	if r.Remaining()%types.SignatureSize != 0 {
		return nil, fmt.Errorf("ring signature response length %d is not a multiple of %d", r.Remaining(), types.SignatureSize)
	}
	count := r.Remaining() / types.SignatureSize
	if count != len(inputKeys) {
		return nil, fmt.Errorf("expected %d ring signatures, device returned %d", len(inputKeys), count)
	}

	signatures := make([]types.Signature, 0, count)
	for i := 0; i < count; i++ {
		sig, err := r.Signature()
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, sig)
	}
	return signatures, nil
}

// CompleteRingSignature finishes a partially computed ring signature
// using the on-device secret.
func (c *Client) CompleteRingSignature(txPublicKey string, outputIndex uint32, outputKey, k, partial string, confirm bool) (types.Signature, error) {
	txPub, err := parseKey("txPublicKey", txPublicKey)
	if err != nil {
		return types.Signature{}, err
	}
	outKey, err := parseKey("outputKey", outputKey)
	if err != nil {
		return types.Signature{}, err
	}
	scalar, err := parseKey("k", k)
	if err != nil {
		return types.Signature{}, err
	}
	partialSig, err := parseSignature("partial", partial)
	if err != nil {
		return types.Signature{}, err
	}

	data := apdu.NewWriter().Hash(txPub).Uint32(outputIndex).Hash(outKey).Hash(scalar).Signature(partialSig).Bytes()
	r, err := c.exchange(CmdCompleteRingSignature, confirm, data)
	if err != nil {
		return types.Signature{}, err
	}
	return r.Signature()
}

// CheckRingSignatures verifies a ring signature set on the device.
func (c *Client) CheckRingSignatures(prefixHash, keyImage string, publicKeys, signatures []string) (bool, error) {
	prefix, err := parseKey("prefixHash", prefixHash)
	if err != nil {
		return false, err
	}
	image, err := parseKey("keyImage", keyImage)
	if err != nil {
		return false, err
	}

	w := apdu.NewWriter().Hash(prefix).Hash(image)
	for i, key := range publicKeys {
		h, err := parseKey(fmt.Sprintf("publicKeys[%d]", i), key)
		if err != nil {
			return false, err
		}
		w.Hash(h)
	}
	for i, sig := range signatures {
		s, err := parseSignature(fmt.Sprintf("signatures[%d]", i), sig)
		if err != nil {
			return false, err
		}
		w.Signature(s)
	}

	r, err := c.exchange(CmdCheckRingSignatures, true, w.Bytes())
	if err != nil {
		return false, err
	}
	valid, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return valid != 0, nil
}

// GenerateSignature signs a 32-byte digest with the wallet keys.
func (c *Client) GenerateSignature(digest string, confirm bool) (types.Signature, error) {
	h, err := parseKey("digest", digest)
	if err != nil {
		return types.Signature{}, err
	}
	r, err := c.exchange(CmdGenerateSignature, confirm, apdu.NewWriter().Hash(h).Bytes())
	if err != nil {
		return types.Signature{}, err
	}
	return r.Signature()
}

// CheckSignature verifies a digest signature on the device.
func (c *Client) CheckSignature(digest, publicKey, signature string) (bool, error) {
	h, err := parseKey("digest", digest)
	if err != nil {
		return false, err
	}
	pub, err := parseKey("publicKey", publicKey)
	if err != nil {
		return false, err
	}
	sig, err := parseSignature("signature", signature)
	if err != nil {
		return false, err
	}

	data := apdu.NewWriter().Hash(h).Hash(pub).Signature(sig).Bytes()
	r, err := c.exchange(CmdCheckSignature, true, data)
	if err != nil {
		return false, err
	}
	valid, err := r.Uint8()
	if err != nil {
		return false, err
	}
	return valid != 0, nil
}
