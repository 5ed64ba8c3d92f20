package pumpscience

import (
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/krazyTry/pump-science-go/engine"
)

// NewEngine creates a settlement engine over a store and a custodian.
//
// Example:
//
// eng, _ := NewEngine(engine.Options{Store: store.NewMemoryStore(), Custodian: custody.NewLedger(890_880), Global: shared.DefaultGlobal()})
//
// eng.CreateCurve(ctx, mint, creator, shared.CreateBondingCurveParams{}, slot, bump)
//
// eng.Swap(ctx, mint, user, bonding_curve.Buy{ExactInAmount: 1_000_000_000}, slot)
var NewEngine = engine.New

// NewBondingCurve builds a standalone curve for quoting.
//
// Example:
//
// curve, _ := NewBondingCurve(mint, creator, shared.DefaultGlobal(), shared.CreateBondingCurveParams{}, slot, 0)
//
// curve.QuoteBuy(1_000_000_000, slot)
var NewBondingCurve = bonding_curve.NewBondingCurve
