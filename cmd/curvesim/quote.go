package main

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/shared"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		side    string
		amount  string
		elapsed uint64
	)
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a buy (in SOL) or a sell (in tokens) against a fresh default curve",
		Example: `  curvesim quote --side buy --amount 1.5
  curvesim quote --side sell --amount 1000000 --elapsed 300`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			global := shared.DefaultGlobal()
			curve, err := bonding_curve.NewBondingCurve(solanago.PublicKey{}, solanago.PublicKey{}, global, shared.CreateBondingCurveParams{}, 0, 0)
			if err != nil {
				return err
			}

			var (
				res *shared.TradeResult
				fee uint64
			)
			switch side {
			case "buy":
				lamports, err := helpers.ConvertToLamports(amount, shared.SolDecimals)
				if err != nil {
					return err
				}
				if !lamports.IsUint64() {
					return fmt.Errorf("%w: amount %s", shared.ErrInvalidParameter, amount)
				}
				res, fee, err = curve.QuoteBuy(lamports.Uint64(), elapsed)
				if err != nil {
					return err
				}
			case "sell":
				tokens, err := helpers.ConvertToLamports(amount, int32(global.MintDecimals))
				if err != nil {
					return err
				}
				if !tokens.IsUint64() {
					return fmt.Errorf("%w: amount %s", shared.ErrInvalidParameter, amount)
				}
				// a fresh curve holds no sol; sells are priced after a seed buy of the virtual sol reserves
				if _, err := curve.ApplyBuy(curve.VirtualSolReserves); err != nil {
					return err
				}
				res, fee, err = curve.QuoteSell(tokens.Uint64(), elapsed)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: side %q", shared.ErrInvalidParameter, side)
			}

			cmd.Printf("%s %s: %s tokens for %s SOL, fee %s SOL\n", side, amount,
				helpers.FromLamports(res.TokenAmount, int32(global.MintDecimals)).String(),
				helpers.FromLamports(res.SolAmount, shared.SolDecimals).String(),
				helpers.FromLamports(fee, shared.SolDecimals).String(),
			)
			cmd.Printf("spot price %s SOL\n", curve.SpotPrice().StringFixed(12))
			return nil
		},
	}
	cmd.Flags().StringVar(&side, "side", "buy", "buy or sell")
	cmd.Flags().StringVar(&amount, "amount", "1", "SOL to spend or tokens to sell, in whole units")
	cmd.Flags().Uint64Var(&elapsed, "elapsed", 0, "slots since trading started")
	return cmd
}
