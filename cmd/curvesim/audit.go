package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/config"
	"github.com/krazyTry/pump-science-go/custody"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var (
		curvePath   string
		accountPath string
		escrow      uint64
		rent        uint64
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check a stored curve record against its custody balances",
		Long: `Decodes a base64 bonding curve record and a jsonParsed token account
(as returned by getAccountInfo) and runs the invariant checks on them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := os.ReadFile(curvePath)
			if err != nil {
				return err
			}
			data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(record)))
			if err != nil {
				return fmt.Errorf("curve record: %w", err)
			}
			curve, err := bonding_curve.DecodeBondingCurve(data)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(accountPath)
			if err != nil {
				return err
			}
			account, err := custody.ParseTokenAccountJSON(raw)
			if err != nil {
				return err
			}
			if !account.Mint.Equals(curve.Mint) {
				return fmt.Errorf("token account mint %s does not match curve mint %s", account.Mint, curve.Mint)
			}

			cmd.Printf("curve %s\n", curve)
			if err := bonding_curve.CheckInvariant(curve, custody.Snapshot(escrow, rent, account)); err != nil {
				return err
			}
			cmd.Println("ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&curvePath, "curve", "", "file holding the base64 curve record")
	cmd.Flags().StringVar(&accountPath, "token-account", "", "file holding the jsonParsed curve token account")
	cmd.Flags().Uint64Var(&escrow, "escrow", 0, "sol escrow balance in lamports")
	cmd.Flags().Uint64Var(&rent, "rent", config.DefaultRentExemptMinimum, "rent-exempt minimum of the escrow")
	_ = cmd.MarkFlagRequired("curve")
	_ = cmd.MarkFlagRequired("token-account")
	return cmd
}
