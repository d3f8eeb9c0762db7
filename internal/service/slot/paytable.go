package slot

import (
	"slot_backend/internal/engine"
	"slot_backend/internal/model"
)

// Paytable - публичное описание математики, без весов
func (s *serv) Paytable() model.Paytable {
	rules := s.engine.Rules()

	entries := make([]model.PaytableEntry, 0, engine.RegularSymbolCount)
	for _, sym := range engine.Symbols() {
		if sym.Special() {
			continue
		}
		brackets := make([]engine.Bracket, len(rules.Paytable[sym]))
		copy(brackets, rules.Paytable[sym])
		entries = append(entries, model.PaytableEntry{Symbol: sym, Brackets: brackets})
	}

	orbs := make([]int, len(rules.OrbValues))
	for i, o := range rules.OrbValues {
		orbs[i] = o.Value
	}

	return model.Paytable{
		Columns:              engine.Columns,
		Rows:                 engine.Rows,
		MinCluster:           rules.MinCluster,
		Entries:              entries,
		OrbValues:            orbs,
		ScattersForFreeSpins: rules.ScattersForFreeSpins,
		FreeSpinsCount:       rules.FreeSpinsCount,
		RetriggerSpins:       s.bonusRules.RetriggerSpins,
		MultiplierStep:       s.bonusRules.MultiplierStep,
		MultiplierCap:        s.bonusRules.MultiplierCap,
		MaxWinMultiplier:     s.cfg.MaxWinMultiplier(),
		MinBet:               s.cfg.MinBet(),
		MaxBet:               s.cfg.MaxBet(),
		AnteFactor:           s.cfg.AnteFactor(),
		Currency:             s.cfg.DefaultCurrency(),
	}
}

func (s *serv) Stats() model.GameStats {
	return s.statsRepo.Snapshot()
}
