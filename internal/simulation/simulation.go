package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"slot_backend/internal/engine"
	"slot_backend/pkg/provably"
)

var ErrInvalidParams = errors.New("invalid simulation params")

// Params - прогон Монте-Карло. Каждый воркер играет как отдельный игрок
// со своим серверным сидом: nonce идут подряд, бонус занимает следующие nonce.
type Params struct {
	Spins            int
	Workers          int
	Bet              decimal.Decimal
	Ante             bool
	AnteFactor       decimal.Decimal
	MaxWinMultiplier decimal.Decimal
	ClientSeed       string
}

type Report struct {
	BaseSpins     int
	FreeSpins     int
	BonusRounds   int
	Wins          int
	TotalStake    decimal.Decimal
	TotalPayout   decimal.Decimal
	BasePayout    decimal.Decimal
	BonusPayout   decimal.Decimal
	MaxWin        decimal.Decimal
	MaxWinCapHits int
}

// RTP - возврат игроку в процентах
func (r Report) RTP() float64 {
	if !r.TotalStake.IsPositive() {
		return 0
	}
	return r.TotalPayout.Div(r.TotalStake).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func (r Report) HitRate() float64 {
	if r.BaseSpins == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.BaseSpins) * 100
}

// BonusFrequency - в среднем платных спинов на один бонус
func (r Report) BonusFrequency() float64 {
	if r.BonusRounds == 0 {
		return 0
	}
	return float64(r.BaseSpins) / float64(r.BonusRounds)
}

func (r *Report) merge(o Report) {
	r.BaseSpins += o.BaseSpins
	r.FreeSpins += o.FreeSpins
	r.BonusRounds += o.BonusRounds
	r.Wins += o.Wins
	r.TotalStake = r.TotalStake.Add(o.TotalStake)
	r.TotalPayout = r.TotalPayout.Add(o.TotalPayout)
	r.BasePayout = r.BasePayout.Add(o.BasePayout)
	r.BonusPayout = r.BonusPayout.Add(o.BonusPayout)
	if o.MaxWin.GreaterThan(r.MaxWin) {
		r.MaxWin = o.MaxWin
	}
	r.MaxWinCapHits += o.MaxWinCapHits
}

func newReport() Report {
	return Report{
		TotalStake:  decimal.Zero,
		TotalPayout: decimal.Zero,
		BasePayout:  decimal.Zero,
		BonusPayout: decimal.Zero,
		MaxWin:      decimal.Zero,
	}
}

func (p *Params) validate() error {
	switch {
	case p.Spins <= 0:
		return fmt.Errorf("%w: spins must be positive", ErrInvalidParams)
	case !p.Bet.IsPositive():
		return fmt.Errorf("%w: bet must be positive", ErrInvalidParams)
	case p.Ante && !p.AnteFactor.IsPositive():
		return fmt.Errorf("%w: ante factor must be positive", ErrInvalidParams)
	case !p.MaxWinMultiplier.IsPositive():
		return fmt.Errorf("%w: max win multiplier must be positive", ErrInvalidParams)
	}
	if p.Workers <= 0 {
		p.Workers = 1
	}
	if p.Workers > p.Spins {
		p.Workers = p.Spins
	}
	return nil
}

// Run гоняет Spins платных спинов на Workers горутинах.
// Результат детерминирован для одинаковых serverSeeds и params.
func Run(ctx context.Context, eng *engine.Engine, bonus engine.BonusRules, serverSeeds func(worker int) string, p Params) (Report, error) {
	if err := p.validate(); err != nil {
		return Report{}, err
	}

	stake := p.Bet
	if p.Ante {
		stake = p.Bet.Mul(p.AnteFactor).RoundCeil(engine.MoneyPlaces)
	}

	reports := make([]Report, p.Workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < p.Workers; w++ {
		n := p.Spins / p.Workers
		if w < p.Spins%p.Workers {
			n++
		}
		g.Go(func() error {
			rep, err := play(ctx, eng, bonus, provably.Seed{ServerSeed: serverSeeds(w), ClientSeed: p.ClientSeed}, n, stake, p)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			reports[w] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	total := newReport()
	for _, rep := range reports {
		total.merge(rep)
	}
	return total, nil
}

func play(ctx context.Context, eng *engine.Engine, bonus engine.BonusRules, seed provably.Seed, spins int, stake decimal.Decimal, p Params) (Report, error) {
	rep := newReport()
	for i := 0; i < spins; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
		}

		out, err := eng.ExecuteSpin(seed, p.Ante)
		if err != nil {
			return rep, err
		}
		seed.Nonce++

		rep.BaseSpins++
		rep.TotalStake = rep.TotalStake.Add(stake)
		win := engine.CapWin(engine.WinAmount(out.TotalWin, p.Bet), p.Bet, p.MaxWinMultiplier)
		if win.IsPositive() {
			rep.Wins++
		}
		rep.BasePayout = rep.BasePayout.Add(win)
		rep.TotalPayout = rep.TotalPayout.Add(win)
		if win.GreaterThan(rep.MaxWin) {
			rep.MaxWin = win
		}

		if out.FreeSpinsAwarded == 0 {
			continue
		}

		rep.BonusRounds++
		st := engine.NewBonusState(seed, p.Ante, p.Bet, out.FreeSpinsAwarded)
		for st.SpinsRemaining > 0 {
			spin, err := eng.PlayBonusSpin(&st, bonus)
			if err != nil {
				return rep, err
			}
			rep.FreeSpins++
			if spin.MaxWinReached {
				rep.MaxWinCapHits++
			}
		}
		seed.Nonce = st.NonceCursor

		rep.BonusPayout = rep.BonusPayout.Add(st.TotalWin)
		rep.TotalPayout = rep.TotalPayout.Add(st.TotalWin)
		if st.TotalWin.GreaterThan(rep.MaxWin) {
			rep.MaxWin = st.TotalWin
		}
	}
	return rep, nil
}
