// Copyright (C) 2020-2026, The TurtleCoin Developers
// Licensed under the Apache License, Version 2.0

package device

import "fmt"

// Command is an instruction byte understood by the TurtleCoin Ledger
// application.
type Command byte

const (
	CmdVersion                Command = 0x01
	CmdDebug                  Command = 0x02
	CmdIdent                  Command = 0x05
	CmdPublicKeys             Command = 0x10
	CmdViewSecretKey          Command = 0x11
	CmdSpendSecretKey         Command = 0x12
	CmdCheckKey               Command = 0x16
	CmdCheckScalar            Command = 0x17
	CmdPrivateToPublic        Command = 0x18
	CmdRandomKeyPair          Command = 0x19
	CmdAddress                Command = 0x30
	CmdGenerateKeyImage       Command = 0x40
	CmdGenerateRingSignatures Command = 0x50
	CmdCompleteRingSignature  Command = 0x51
	CmdCheckRingSignatures    Command = 0x52
	CmdGenerateSignature      Command = 0x55
	CmdCheckSignature         Command = 0x56
	CmdGenerateKeyDerivation  Command = 0x60
	CmdDerivePublicKey        Command = 0x61
	CmdDeriveSecretKey        Command = 0x62
	CmdTxState                Command = 0x70
	CmdTxStart                Command = 0x71
	CmdTxStartInputLoad       Command = 0x72
	CmdTxLoadInput            Command = 0x73
	CmdTxStartOutputLoad      Command = 0x74
	CmdTxLoadOutput           Command = 0x75
	CmdTxFinalizePrefix       Command = 0x76
	CmdTxSign                 Command = 0x77
	CmdTxDump                 Command = 0x78
	CmdTxReset                Command = 0x79
	CmdResetKeys              Command = 0xFF
)

var commandNames = map[Command]string{
	CmdVersion:                "VERSION",
	CmdDebug:                  "DEBUG",
	CmdIdent:                  "IDENT",
	CmdPublicKeys:             "PUBLIC_KEYS",
	CmdViewSecretKey:          "VIEW_SECRET_KEY",
	CmdSpendSecretKey:         "SPEND_ESECRET_KEY",
	CmdCheckKey:               "CHECK_KEY",
	CmdCheckScalar:            "CHECK_SCALAR",
	CmdPrivateToPublic:        "PRIVATE_TO_PUBLIC",
	CmdRandomKeyPair:          "RANDOM_KEY_PAIR",
	CmdAddress:                "ADDRESS",
	CmdGenerateKeyImage:       "GENERATE_KEY_IMAGE",
	CmdGenerateRingSignatures: "GENERATE_RING_SIGNATURES",
	CmdCompleteRingSignature:  "COMPLETE_RING_SIGNATURE",
	CmdCheckRingSignatures:    "CHECK_RING_SIGNATURES",
	CmdGenerateSignature:      "GENERATE_SIGNATURE",
	CmdCheckSignature:         "CHECK_SIGNATURE",
	CmdGenerateKeyDerivation:  "GENERATE_KEY_DERIVATION",
	CmdDerivePublicKey:        "DERIVE_PUBLIC_KEY",
	CmdDeriveSecretKey:        "DERIVE_SECRET_KEY",
	CmdTxState:                "TX_STATE",
	CmdTxStart:                "TX_START",
	CmdTxStartInputLoad:       "TX_START_INPUT_LOAD",
	CmdTxLoadInput:            "TX_LOAD_INPUT",
	CmdTxStartOutputLoad:      "TX_START_OUTPUT_LOAD",
	CmdTxLoadOutput:           "TX_LOAD_OUTPUT",
	CmdTxFinalizePrefix:       "TX_FINALIZE_TX_PREFIX",
	CmdTxSign:                 "TX_SIGN",
	CmdTxDump:                 "TX_DUMP",
	CmdTxReset:                "TX_RESET",
	CmdResetKeys:              "RESET_KEYS",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(0x%02X)", byte(c))
}
