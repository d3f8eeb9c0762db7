package engine

import (
	"github.com/shopspring/decimal"
)

// Bracket - выплата (в кратности ставки) начиная с Count символов
type Bracket struct {
	Count  int             `json:"count" yaml:"count"`
	Payout decimal.Decimal `json:"payout" yaml:"payout"`
}

// Paytable определена для каждого обычного символа, индекс = Symbol
type Paytable [RegularSymbolCount][]Bracket

// Payout ищет выплату для кластера. Размер обрезается до верхней ступени,
// дальше берется старшая ступень <= размера. Спецсимволы не платят никогда.
func (p *Paytable) Payout(sym Symbol, count int) (decimal.Decimal, bool) {
	if !sym.Valid() || sym.Special() {
		return decimal.Zero, false
	}
	brackets := p[sym]
	if len(brackets) == 0 {
		return decimal.Zero, false
	}
	if top := brackets[len(brackets)-1].Count; count > top {
		count = top
	}
	for i := len(brackets) - 1; i >= 0; i-- {
		if brackets[i].Count <= count {
			return brackets[i].Payout, true
		}
	}
	return decimal.Zero, false
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func brackets(p8, p10, p12 string) []Bracket {
	return []Bracket{
		{Count: 8, Payout: d(p8)},
		{Count: 10, Payout: d(p10)},
		{Count: 12, Payout: d(p12)},
	}
}

// DefaultRules - базовая математика игры. config.yaml повторяет эти значения.
// Анте поднимает только вес скаттера: бонус выпадает примерно вдвое чаще,
// RTP обоих режимов держится около 96.5% (см. slotctl simulate).
func DefaultRules() Rules {
	return Rules{
		BaseWeights: WeightTable{
			Banana:      1000,
			Grapes:      900,
			Watermelon:  800,
			Plum:        700,
			Apple:       600,
			BlueCandy:   400,
			GreenCandy:  300,
			PurpleCandy: 200,
			RedHeart:    100,
			Scatter:     85,
			Orb:         150,
		},
		AnteWeights: WeightTable{
			Banana:      1000,
			Grapes:      900,
			Watermelon:  800,
			Plum:        700,
			Apple:       600,
			BlueCandy:   400,
			GreenCandy:  300,
			PurpleCandy: 200,
			RedHeart:    100,
			Scatter:     108,
			Orb:         150,
		},
		OrbValues: []OrbWeight{
			{Value: 2, Weight: 400},
			{Value: 3, Weight: 250},
			{Value: 4, Weight: 150},
			{Value: 5, Weight: 80},
			{Value: 6, Weight: 50},
			{Value: 8, Weight: 30},
			{Value: 10, Weight: 20},
			{Value: 12, Weight: 10},
			{Value: 15, Weight: 6},
			{Value: 20, Weight: 3},
			{Value: 25, Weight: 2},
			{Value: 50, Weight: 1},
		},
		Paytable: Paytable{
			Banana:      brackets("0.4", "1.2", "3"),
			Grapes:      brackets("0.6", "1.4", "6"),
			Watermelon:  brackets("0.75", "1.6", "8"),
			Plum:        brackets("1.25", "2", "12"),
			Apple:       brackets("1.5", "2.5", "15"),
			BlueCandy:   brackets("2.5", "3", "20"),
			GreenCandy:  brackets("3", "8", "25"),
			PurpleCandy: brackets("4", "15", "40"),
			RedHeart:    brackets("15", "40", "80"),
		},
		MinCluster:           8,
		ScattersForFreeSpins: 4,
		FreeSpinsCount:       10,
		MaxCascades:          50,
	}
}
