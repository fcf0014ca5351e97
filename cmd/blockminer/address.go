package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/SummerOfBitcoin/code-challenge-2024-Mirebella/crypto"
	"github.com/spf13/cobra"
)

func newAddressCmd() *cobra.Command {
	var versionByte uint8
	cmd := &cobra.Command{
		Use:   "address <pubkey-hex>",
		Short: "Derive the P2PKH reward address of a secp256k1 public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return usageError{fmt.Errorf("pubkey: %w", err)}
			}
			addr, err := crypto.PubKeyToAddress(pub, versionByte)
			if err != nil {
				return usageError{err}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().Uint8Var(&versionByte, "version-byte", crypto.P2PKH_VERSION_MAINNET, "base58check version byte")
	return cmd
}
