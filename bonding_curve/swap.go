package bonding_curve

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/helpers"
	"github.com/krazyTry/pump-science-go/math"
	"github.com/krazyTry/pump-science-go/shared"
	"go.uber.org/zap"
)

// Trade is either a Buy or a Sell.
type Trade interface {
	Direction() shared.TradeDirection
	Amounts() (exactIn uint64, minOut uint64)
}

// Buy spends ExactInAmount lamports, fee included, for at least MinOutAmount tokens.
type Buy struct {
	ExactInAmount uint64
	MinOutAmount  uint64
}

func (Buy) Direction() shared.TradeDirection { return shared.TradeDirectionBuy }

func (b Buy) Amounts() (uint64, uint64) { return b.ExactInAmount, b.MinOutAmount }

// Sell spends ExactInAmount tokens for at least MinOutAmount lamports after fees.
type Sell struct {
	ExactInAmount uint64
	MinOutAmount  uint64
}

func (Sell) Direction() shared.TradeDirection { return shared.TradeDirectionSell }

func (s Sell) Amounts() (uint64, uint64) { return s.ExactInAmount, s.MinOutAmount }

type SwapParams struct {
	User        solanago.PublicKey
	CurrentSlot uint64

	LastRestartSlot uint64

	UserSolLamports   uint64
	UserTokenBalance  uint64
	RentExemptMinimum uint64
}

type SwapResult struct {
	Direction   shared.TradeDirection
	TokenAmount uint64
	SolAmount   uint64
	FeeLamports uint64
	DevBuy      bool
	Complete    bool

	// Transfers must be executed in full by custody, after which the curve
	// token account is frozen iff FreezeTokenAccount.
	Transfers          []shared.Transfer
	FreezeTokenAccount bool
}

// Settle validates and applies trade to curve. curve is only updated when the
// whole trade succeeds.
func Settle(curve *BondingCurve, global shared.Global, trade Trade, params SwapParams, logger *zap.Logger) (*SwapResult, error) {
	if curve == nil {
		return nil, shared.ErrNilCurve
	}
	if trade == nil {
		return nil, shared.ErrUnknownTrade
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := helpers.ValidateGlobal(global, params.LastRestartSlot); err != nil {
		return nil, err
	}
	if curve.Complete {
		return nil, shared.ErrCurveComplete
	}
	exactIn, minOut := trade.Amounts()
	if exactIn == 0 {
		return nil, shared.ErrZeroAmount
	}
	if !curve.IsTradingOpen(params.User, params.CurrentSlot) {
		return nil, fmt.Errorf("%w: slot %d, start slot %d", shared.ErrCurveNotStarted, params.CurrentSlot, curve.StartSlot)
	}

	logger.Debug("swap started",
		zap.Stringer("mint", curve.Mint),
		zap.Stringer("direction", trade.Direction()),
		zap.Uint64("exact_in_amount", exactIn),
		zap.Uint64("min_out_amount", minOut),
	)

	next := curve.Clone()
	var (
		result *SwapResult
		err    error
	)
	switch t := trade.(type) {
	case Buy:
		result, err = settleBuy(next, t, params, logger)
	case Sell:
		result, err = settleSell(next, t, params, logger)
	default:
		return nil, fmt.Errorf("%w: %T", shared.ErrUnknownTrade, trade)
	}
	if err != nil {
		return nil, err
	}

	*curve = *next
	result.Complete = curve.Complete
	result.FreezeTokenAccount = !curve.Complete

	logger.Debug("swap settled",
		zap.Stringer("mint", curve.Mint),
		zap.Uint64("virtual_sol_reserves", curve.VirtualSolReserves),
		zap.Uint64("virtual_token_reserves", curve.VirtualTokenReserves),
		zap.Uint64("real_sol_reserves", curve.RealSolReserves),
		zap.Uint64("real_token_reserves", curve.RealTokenReserves),
		zap.Bool("complete", curve.Complete),
	)
	return result, nil
}

func settleBuy(curve *BondingCurve, buy Buy, params SwapParams, logger *zap.Logger) (*SwapResult, error) {
	required, err := math.CheckedAddU64(buy.ExactInAmount, params.RentExemptMinimum)
	if err != nil {
		return nil, err
	}
	if params.UserSolLamports < required {
		return nil, fmt.Errorf("%w: have %d, need %d", shared.ErrInsufficientUserSOL, params.UserSolLamports, required)
	}

	devBuy := curve.IsDevBuy(params.User, params.CurrentSlot)
	var fee uint64
	if !devBuy {
		fee, err = curve.CalculateFee(buy.ExactInAmount, params.CurrentSlot)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("buy fee", zap.Bool("dev_buy", devBuy), zap.Uint64("fee_lamports", fee))

	res, err := curve.ApplyBuy(buy.ExactInAmount - fee)
	if err != nil {
		return nil, err
	}
	if res.TokenAmount < buy.MinOutAmount {
		return nil, fmt.Errorf("%w: %d tokens out, min %d", shared.ErrSlippageExceeded, res.TokenAmount, buy.MinOutAmount)
	}

	transfers := []shared.Transfer{
		{Asset: shared.AssetToken, From: shared.PartyCurveTokenAccount, To: shared.PartyUser, Amount: res.TokenAmount},
		{Asset: shared.AssetSol, From: shared.PartyUser, To: shared.PartySolEscrow, Amount: res.SolAmount},
	}
	if fee > 0 {
		transfers = append(transfers, shared.Transfer{Asset: shared.AssetSol, From: shared.PartyUser, To: shared.PartyFeeReceiver, Amount: fee})
	}

	return &SwapResult{
		Direction:   shared.TradeDirectionBuy,
		TokenAmount: res.TokenAmount,
		SolAmount:   res.SolAmount,
		FeeLamports: fee,
		DevBuy:      devBuy,
		Transfers:   transfers,
	}, nil
}

func settleSell(curve *BondingCurve, sell Sell, params SwapParams, logger *zap.Logger) (*SwapResult, error) {
	if params.UserTokenBalance < sell.ExactInAmount {
		return nil, fmt.Errorf("%w: have %d, selling %d", shared.ErrInsufficientUserTokens, params.UserTokenBalance, sell.ExactInAmount)
	}

	res, err := curve.ApplySell(sell.ExactInAmount)
	if err != nil {
		return nil, err
	}

	// sells always pay the fee, the creator's start slot included
	fee, err := curve.CalculateFee(res.SolAmount, params.CurrentSlot)
	if err != nil {
		return nil, err
	}
	logger.Debug("sell fee", zap.Uint64("fee_lamports", fee))

	proceeds := res.SolAmount - fee
	if proceeds < sell.MinOutAmount {
		return nil, fmt.Errorf("%w: %d lamports out, min %d", shared.ErrSlippageExceeded, proceeds, sell.MinOutAmount)
	}

	transfers := []shared.Transfer{
		{Asset: shared.AssetToken, From: shared.PartyUser, To: shared.PartyCurveTokenAccount, Amount: res.TokenAmount},
		{Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyUser, Amount: proceeds},
	}
	if fee > 0 {
		transfers = append(transfers, shared.Transfer{Asset: shared.AssetSol, From: shared.PartySolEscrow, To: shared.PartyFeeReceiver, Amount: fee})
	}

	return &SwapResult{
		Direction:   shared.TradeDirectionSell,
		TokenAmount: res.TokenAmount,
		SolAmount:   res.SolAmount,
		FeeLamports: fee,
		Transfers:   transfers,
	}, nil
}
