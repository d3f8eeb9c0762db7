package engine

import (
	"github.com/shopspring/decimal"

	"slot_backend/pkg/provably"
)

// MoneyPlaces - точность денежных сумм
const MoneyPlaces = 2

var one = decimal.NewFromInt(1)

// WinAmount переводит множитель в деньги. Округляем вниз, чтобы не переплатить.
func WinAmount(multiplier, bet decimal.Decimal) decimal.Decimal {
	return multiplier.Mul(bet).RoundFloor(MoneyPlaces)
}

// CapWin ограничивает выигрыш в кратности ставки
func CapWin(win, bet, maxWinMultiplier decimal.Decimal) decimal.Decimal {
	limit := bet.Mul(maxWinMultiplier)
	if win.GreaterThan(limit) {
		return limit
	}
	return win
}

// BonusRules - параметры бонусного раунда.
// Factor = min(1 + cumulative * MultiplierStep, MultiplierCap).
type BonusRules struct {
	RetriggerSpins   int
	MultiplierStep   decimal.Decimal
	MultiplierCap    decimal.Decimal
	MaxWinMultiplier decimal.Decimal
}

func (r BonusRules) Factor(cumulative int) decimal.Decimal {
	f := one.Add(r.MultiplierStep.Mul(decimal.NewFromInt(int64(cumulative))))
	if f.GreaterThan(r.MultiplierCap) {
		return r.MultiplierCap
	}
	return f
}

// BonusState - состояние бонусного раунда, которое хранится между вызовами
type BonusState struct {
	ServerSeed           string
	ClientSeed           string
	NonceCursor          uint64
	Ante                 bool
	Bet                  decimal.Decimal
	SpinsRemaining       int
	TotalSpins           int
	CumulativeMultiplier int
	TotalWin             decimal.Decimal
}

// BonusSpin - итог одного бесплатного спина
type BonusSpin struct {
	Outcome       SpinOutcome
	Nonce         uint64
	Factor        decimal.Decimal
	Win           decimal.Decimal
	Retriggered   bool
	MaxWinReached bool
	Finished      bool
}

// NewBonusState - начало раунда после спина, который выдал фриспины
func NewBonusState(seed provably.Seed, ante bool, bet decimal.Decimal, awarded int) BonusState {
	return BonusState{
		ServerSeed:     seed.ServerSeed,
		ClientSeed:     seed.ClientSeed,
		NonceCursor:    seed.Nonce,
		Ante:           ante,
		Bet:            bet,
		SpinsRemaining: awarded,
		TotalSpins:     awarded,
		TotalWin:       decimal.Zero,
	}
}

// PlayBonusSpin крутит один бесплатный спин на текущем nonce и двигает состояние
func (e *Engine) PlayBonusSpin(state *BonusState, rules BonusRules) (BonusSpin, error) {
	if state.SpinsRemaining <= 0 {
		return BonusSpin{}, ErrBonusFinished
	}

	nonce := state.NonceCursor
	out, err := e.ExecuteSpin(provably.Seed{
		ServerSeed: state.ServerSeed,
		ClientSeed: state.ClientSeed,
		Nonce:      nonce,
	}, state.Ante)
	if err != nil {
		return BonusSpin{}, err
	}

	state.CumulativeMultiplier += out.MultiplierSum()
	factor := rules.Factor(state.CumulativeMultiplier)
	win := WinAmount(out.TotalWin.Mul(factor), state.Bet)

	res := BonusSpin{Outcome: out, Nonce: nonce, Factor: factor}

	limit := state.Bet.Mul(rules.MaxWinMultiplier)
	total := state.TotalWin.Add(win)
	if total.GreaterThanOrEqual(limit) {
		win = limit.Sub(state.TotalWin)
		total = limit
		res.MaxWinReached = true
	}
	res.Win = win
	state.TotalWin = total

	state.SpinsRemaining--
	state.NonceCursor++

	switch {
	case res.MaxWinReached:
		// лимит выигрыша закрывает раунд досрочно
		state.SpinsRemaining = 0
	case out.FreeSpinsAwarded > 0:
		state.SpinsRemaining += rules.RetriggerSpins
		state.TotalSpins += rules.RetriggerSpins
		res.Retriggered = true
	}

	res.Finished = state.SpinsRemaining == 0
	return res, nil
}
