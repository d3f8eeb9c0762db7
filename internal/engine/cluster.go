package engine

import (
	"github.com/shopspring/decimal"
)

// ClusterWin - выигрышная группа одного символа
type ClusterWin struct {
	Symbol    Symbol          `json:"symbol"`
	Count     int             `json:"count"`
	Positions []int           `json:"positions"`
	Payout    decimal.Decimal `json:"payout"`
}

// FindWins группирует обычные символы по типу (pay anywhere) и возвращает
// группы не меньше MinCluster. Порядок - по порядку символов в перечислении.
func (e *Engine) FindWins(g Grid) []ClusterWin {
	var groups [RegularSymbolCount][]int
	for pos, c := range g {
		if c.Symbol.Special() || !c.Symbol.Valid() {
			continue
		}
		groups[c.Symbol] = append(groups[c.Symbol], pos)
	}

	var wins []ClusterWin
	for i, positions := range groups {
		if len(positions) < e.rules.MinCluster {
			continue
		}
		sym := Symbol(i)
		payout, ok := e.rules.Paytable.Payout(sym, len(positions))
		if !ok {
			continue
		}
		wins = append(wins, ClusterWin{
			Symbol:    sym,
			Count:     len(positions),
			Positions: positions,
			Payout:    payout,
		})
	}
	return wins
}
