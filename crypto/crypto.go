// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

// Package crypto is the host-side CryptoNote cryptography provider: the
// derivations that do not require a secret spend key. Secret operations
// (key images, ring signature completion) stay on the device.
package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

var errNotAPoint = errors.New("value is not a curve point")

// CnFastHash computes the CryptoNote fast hash (keccak-256) of data.
func CnFastHash(data []byte) types.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// CnFastHashIterated applies CnFastHash the requested number of times.
// The network configuration pins iterations to 1 but the knob exists.
func CnFastHashIterated(data []byte, iterations int) types.Hash {
	out := CnFastHash(data)
	for i := 1; i < iterations; i++ {
		out = CnFastHash(out[:])
	}
	return out
}

// GenerateKeyDerivation computes the shared derivation D = 8 * (sec * pub).
func GenerateKeyDerivation(pub, sec types.Hash) (types.Hash, error) {
	point, err := new(edwards25519.Point).SetBytes(pub[:])
	if err != nil {
		return types.Hash{}, fmt.Errorf("%w: %s", errNotAPoint, pub)
	}
	scalar, err := new(edwards25519.Scalar).SetCanonicalBytes(sec[:])
	if err != nil {
		return types.Hash{}, fmt.Errorf("secret key is not a canonical scalar: %s", sec)
	}
	derivation := new(edwards25519.Point).ScalarMult(scalar, point)
	derivation.MultByCofactor(derivation)
	return types.HashFromBytes(derivation.Bytes())
}

// DerivationToScalar hashes derivation || varint(outputIndex) to a scalar,
// the Hs() step of the stealth address scheme.
func DerivationToScalar(derivation types.Hash, outputIndex uint32) *edwards25519.Scalar {
	data := append(derivation.Bytes(), types.EncodeVarint(uint64(outputIndex))...)
	return hashToScalar(data)
}

// DerivePublicKey computes the stealth output key P = Hs(D, i)G + B for
// the spend public key B.
func DerivePublicKey(derivation types.Hash, outputIndex uint32, base types.Hash) (types.Hash, error) {
	basePoint, err := new(edwards25519.Point).SetBytes(base[:])
	if err != nil {
		return types.Hash{}, fmt.Errorf("%w: %s", errNotAPoint, base)
	}
	hs := DerivationToScalar(derivation, outputIndex)
	derived := new(edwards25519.Point).ScalarBaseMult(hs)
	derived.Add(derived, basePoint)
	return types.HashFromBytes(derived.Bytes())
}

// SecretKeyToPublicKey computes the public key A = a * G.
func SecretKeyToPublicKey(sec types.Hash) (types.Hash, error) {
	scalar, err := new(edwards25519.Scalar).SetCanonicalBytes(sec[:])
	if err != nil {
		return types.Hash{}, fmt.Errorf("secret key is not a canonical scalar: %s", sec)
	}
	pub := new(edwards25519.Point).ScalarBaseMult(scalar)
	return types.HashFromBytes(pub.Bytes())
}

// CheckKey reports whether key is the canonical encoding of a point on
// the curve. Non-canonical encodings of valid points are rejected.
func CheckKey(key types.Hash) bool {
	point, err := new(edwards25519.Point).SetBytes(key[:])
	return err == nil && bytes.Equal(point.Bytes(), key[:])
}

// CheckScalar reports whether value is a canonical scalar.
func CheckScalar(value types.Hash) bool {
	_, err := new(edwards25519.Scalar).SetCanonicalBytes(value[:])
	return err == nil
}

// CheckSignature verifies a CryptoNote signature (c, r) of prefixHash by
// the public key: recompute c' = Hs(prefixHash || A || rG + cA) and
// compare with c.
func CheckSignature(prefixHash, publicKey types.Hash, sig types.Signature) bool {
	pub, err := new(edwards25519.Point).SetBytes(publicKey[:])
	if err != nil {
		return false
	}
	c, err := new(edwards25519.Scalar).SetCanonicalBytes(sig[:32])
	if err != nil {
		return false
	}
	r, err := new(edwards25519.Scalar).SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}

	comm := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(c, pub, r)

	buf := make([]byte, 0, 3*types.HashSize)
	buf = append(buf, prefixHash[:]...)
	buf = append(buf, publicKey[:]...)
	buf = append(buf, comm.Bytes()...)
	expected := hashToScalar(buf)

	return expected.Equal(c) == 1
}

// hashToScalar is keccak followed by reduction mod l (sc_reduce32).
func hashToScalar(data []byte) *edwards25519.Scalar {
	digest := CnFastHash(data)
	wide := make([]byte, 64)
	copy(wide, digest[:])
	scalar, _ := new(edwards25519.Scalar).SetUniformBytes(wide)
	return scalar
}
