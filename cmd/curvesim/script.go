package main

import (
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/krazyTry/pump-science-go/bonding_curve"
	"github.com/tidwall/gjson"
)

// script is a replayable market history.
//
//	{
//	  "mint": "<base58>", "creator": "<base58>",
//	  "slot": 100, "start_slot": 100,
//	  "fund": [{"user": "<base58>", "lamports": 5000000000}],
//	  "trades": [{"user": "<base58>", "slot": 100, "side": "buy", "amount": 1000000000, "min_out": 0}],
//	  "migrate": true
//	}
type script struct {
	Mint      solanago.PublicKey
	Creator   solanago.PublicKey
	Slot      uint64
	StartSlot *uint64
	Fund      []funding
	Trades    []scriptedTrade
	Migrate   bool
}

type funding struct {
	User     solanago.PublicKey
	Lamports uint64
}

type scriptedTrade struct {
	User  solanago.PublicKey
	Slot  uint64
	Trade bonding_curve.Trade
}

var errInvalidScript = errors.New("invalid script")

func parseScript(raw []byte) (*script, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: malformed json", errInvalidScript)
	}
	doc := gjson.ParseBytes(raw)

	var errs []error
	key := func(path string, v gjson.Result) solanago.PublicKey {
		k, err := solanago.PublicKeyFromBase58(v.String())
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", errInvalidScript, path, err))
		}
		return k
	}

	s := &script{
		Mint:    key("mint", doc.Get("mint")),
		Creator: key("creator", doc.Get("creator")),
		Slot:    doc.Get("slot").Uint(),
		Migrate: doc.Get("migrate").Bool(),
	}
	if v := doc.Get("start_slot"); v.Exists() {
		startSlot := v.Uint()
		s.StartSlot = &startSlot
	}

	for i, f := range doc.Get("fund").Array() {
		s.Fund = append(s.Fund, funding{
			User:     key(fmt.Sprintf("fund.%d.user", i), f.Get("user")),
			Lamports: f.Get("lamports").Uint(),
		})
	}

	for i, t := range doc.Get("trades").Array() {
		amount, minOut := t.Get("amount").Uint(), t.Get("min_out").Uint()
		var trade bonding_curve.Trade
		switch side := t.Get("side").String(); side {
		case "buy":
			trade = bonding_curve.Buy{ExactInAmount: amount, MinOutAmount: minOut}
		case "sell":
			trade = bonding_curve.Sell{ExactInAmount: amount, MinOutAmount: minOut}
		default:
			errs = append(errs, fmt.Errorf("%w: trades.%d.side %q", errInvalidScript, i, side))
			continue
		}
		slot := s.Slot
		if v := t.Get("slot"); v.Exists() {
			slot = v.Uint()
		}
		s.Trades = append(s.Trades, scriptedTrade{
			User:  key(fmt.Sprintf("trades.%d.user", i), t.Get("user")),
			Slot:  slot,
			Trade: trade,
		})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}
