// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package device

import (
	"fmt"

	"github.com/turtlecoin/ledger-turtlecoin-go/apdu"
	"github.com/turtlecoin/ledger-turtlecoin-go/types"
)

// TxState reads the transaction construction state machine position.
func (c *Client) TxState() (types.TxState, error) {
	r, err := c.exchange(CmdTxState, true, nil)
	if err != nil {
		return types.TxStateInactive, err
	}
	state, err := r.Uint8()
	if err != nil {
		return types.TxStateInactive, err
	}
	return types.TxState(state), nil
}

// TxStart opens a transaction construction session on the device.
//
//	Description                    | Length
//	-------------------------------+----------
//	Unlock time (u64be)            | 8 bytes
//	Input count                    | 1 byte
//	Output count                   | 1 byte
//	Transaction public key         | 32 bytes
//	Has payment id                 | 1 byte
//	Payment id (when present)      | 32 bytes
func (c *Client) TxStart(unlockTime uint64, inputCount, outputCount int, txPublicKey, paymentID string, confirm bool) error {
	if err := validateCount("inputCount", inputCount, MaxTransactionEdges); err != nil {
		return err
	}
	if err := validateCount("outputCount", outputCount, MaxTransactionEdges); err != nil {
		return err
	}
	txPub, err := parseKey("txPublicKey", txPublicKey)
	if err != nil {
		return err
	}

	w := apdu.NewWriter().
		Uint64(unlockTime).
		Uint8(uint8(inputCount)).
		Uint8(uint8(outputCount)).
		Hash(txPub)
	if paymentID == "" {
		w.Uint8(0)
	} else {
		pid, err := parseKey("paymentID", paymentID)
		if err != nil {
			return err
		}
		w.Uint8(1).Hash(pid)
	}

	_, err = c.exchange(CmdTxStart, confirm, w.Bytes())
	return err
}

// TxStartInputLoad moves the device into the input loading phase.
func (c *Client) TxStartInputLoad() error {
	_, err := c.exchange(CmdTxStartInputLoad, true, nil)
	return err
}

// TxLoadInput loads one ring input. The ring holds exactly four members
// and the offsets are relative: first absolute, the rest deltas.
//
//	Description                        | Length
//	-----------------------------------+----------
//	Input transaction public key       | 32 bytes
//	Output index in that transaction   | 1 byte
//	Amount (u64be)                     | 8 bytes
//	Ring member keys                   | 4 x 32 bytes
//	Relative ring offsets (u32be)      | 4 x 4 bytes
//	Real output index in the ring      | 1 byte
func (c *Client) TxLoadInput(inputTxPublicKey string, inputOutputIndex uint8, amount uint64, ringKeys []string, ringOffsets []uint32, realIndex uint8) error {
	if len(ringKeys) != RingParticipants {
		return fmt.Errorf("ringKeys: %w: expected %d ring members, got %d", types.ErrInvalidArgument, RingParticipants, len(ringKeys))
	}
	if len(ringOffsets) != RingParticipants {
		return fmt.Errorf("ringOffsets: %w: expected %d offsets, got %d", types.ErrInvalidArgument, RingParticipants, len(ringOffsets))
	}
	if int(realIndex) >= RingParticipants {
		return fmt.Errorf("realIndex: %w: %d out of ring", types.ErrInvalidArgument, realIndex)
	}
	txPub, err := parseKey("inputTxPublicKey", inputTxPublicKey)
	if err != nil {
		return err
	}

	w := apdu.NewWriter().Hash(txPub).Uint8(inputOutputIndex).Uint64(amount)
	for i, key := range ringKeys {
		h, err := parseKey(fmt.Sprintf("ringKeys[%d]", i), key)
		if err != nil {
			return err
		}
		w.Hash(h)
	}
	for _, offset := range ringOffsets {
		w.Uint32(offset)
	}
	w.Uint8(realIndex)

	_, err = c.exchange(CmdTxLoadInput, true, w.Bytes())
	return err
}

// TxStartOutputLoad moves the device into the output loading phase.
func (c *Client) TxStartOutputLoad() error {
	_, err := c.exchange(CmdTxStartOutputLoad, true, nil)
	return err
}

// TxLoadOutput loads one prepared output: amount and one-time key.
func (c *Client) TxLoadOutput(amount uint64, outputKey string) error {
	key, err := parseKey("outputKey", outputKey)
	if err != nil {
		return err
	}
	_, err = c.exchange(CmdTxLoadOutput, true, apdu.NewWriter().Uint64(amount).Hash(key).Bytes())
	return err
}

// TxFinalizePrefix seals the transaction prefix on the device.
func (c *Client) TxFinalizePrefix() error {
	_, err := c.exchange(CmdTxFinalizePrefix, true, nil)
	return err
}

// TxSign signs the constructed transaction and returns its hash and
// serialized size.
func (c *Client) TxSign(confirm bool) (types.Hash, uint16, error) {
	r, err := c.exchange(CmdTxSign, confirm, nil)
	if err != nil {
		return types.Hash{}, 0, err
	}
	hash, err := r.Hash()
	if err != nil {
		return types.Hash{}, 0, err
	}
	size, err := r.Uint16()
	if err != nil {
		return types.Hash{}, 0, err
	}
	return hash, size, nil
}

// TxDump reads a window of the signed transaction starting at offset.
// An empty response means the end was reached.
func (c *Client) TxDump(offset uint16) ([]byte, error) {
	r, err := c.exchange(CmdTxDump, true, apdu.NewWriter().Uint16(offset).Bytes())
	if err != nil {
		return nil, err
	}
	return r.Rest(), nil
}

// TxReset aborts any transaction construction in progress and returns
// the device to the inactive state.
func (c *Client) TxReset() error {
	_, err := c.exchange(CmdTxReset, true, nil)
	return err
}
