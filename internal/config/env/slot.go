package env

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"slot_backend/internal/config"
	"slot_backend/internal/engine"
)

// slotFile - раздел slot в config.yaml. Денежные значения строками, чтобы не терять точность.
type slotFile struct {
	Slot struct {
		Currency             string                    `yaml:"currency"`
		MinBet               string                    `yaml:"min_bet"`
		MaxBet               string                    `yaml:"max_bet"`
		AnteFactor           string                    `yaml:"ante_factor"`
		MaxWinMultiplier     string                    `yaml:"max_win_multiplier"`
		TargetRTP            float64                   `yaml:"target_rtp"`
		MinCluster           int                       `yaml:"min_cluster"`
		ScattersForFreeSpins int                       `yaml:"scatters_for_free_spins"`
		FreeSpins            int                       `yaml:"free_spins"`
		RetriggerSpins       int                       `yaml:"retrigger_spins"`
		MaxCascades          int                       `yaml:"max_cascades"`
		MultiplierStep       string                    `yaml:"bonus_multiplier_step"`
		MultiplierCap        string                    `yaml:"bonus_multiplier_cap"`
		Weights              map[string]int            `yaml:"weights"`
		AnteWeights          map[string]int            `yaml:"ante_weights"`
		OrbValues            []engine.OrbWeight        `yaml:"orb_values"`
		Paytable             map[string]map[int]string `yaml:"paytable"`
	} `yaml:"slot"`
}

type slotConfig struct {
	rules            engine.Rules
	bonus            engine.BonusRules
	minBet           decimal.Decimal
	maxBet           decimal.Decimal
	anteFactor       decimal.Decimal
	maxWinMultiplier decimal.Decimal
	currency         string
	targetRTP        float64
}

func NewSlotConfigFromYAML(path string) (config.SlotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSlotConfig(data)
}

// ParseSlotConfig разбирает и проверяет математику игры
func ParseSlotConfig(data []byte) (config.SlotConfig, error) {
	var f slotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse slot config: %w", err)
	}
	s := f.Slot

	cfg := &slotConfig{currency: s.Currency, targetRTP: s.TargetRTP}
	money := []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"min_bet", s.MinBet, &cfg.minBet},
		{"max_bet", s.MaxBet, &cfg.maxBet},
		{"ante_factor", s.AnteFactor, &cfg.anteFactor},
		{"max_win_multiplier", s.MaxWinMultiplier, &cfg.maxWinMultiplier},
		{"bonus_multiplier_step", s.MultiplierStep, &cfg.bonus.MultiplierStep},
		{"bonus_multiplier_cap", s.MultiplierCap, &cfg.bonus.MultiplierCap},
	}
	for _, m := range money {
		v, err := decimal.NewFromString(m.raw)
		if err != nil {
			return nil, fmt.Errorf("slot config %s: %w", m.name, err)
		}
		*m.dst = v
	}
	cfg.bonus.MaxWinMultiplier = cfg.maxWinMultiplier
	cfg.bonus.RetriggerSpins = s.RetriggerSpins

	base, err := weightTable(s.Weights)
	if err != nil {
		return nil, fmt.Errorf("slot config weights: %w", err)
	}
	ante, err := weightTable(s.AnteWeights)
	if err != nil {
		return nil, fmt.Errorf("slot config ante_weights: %w", err)
	}
	pays, err := paytable(s.Paytable)
	if err != nil {
		return nil, fmt.Errorf("slot config paytable: %w", err)
	}

	cfg.rules = engine.Rules{
		BaseWeights:          base,
		AnteWeights:          ante,
		OrbValues:            s.OrbValues,
		Paytable:             pays,
		MinCluster:           s.MinCluster,
		ScattersForFreeSpins: s.ScattersForFreeSpins,
		FreeSpinsCount:       s.FreeSpins,
		MaxCascades:          s.MaxCascades,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *slotConfig) validate() error {
	if cfg.rules.MaxCascades == 0 {
		cfg.rules.MaxCascades = 50
	}
	if err := cfg.rules.Validate(); err != nil {
		return err
	}
	switch {
	case cfg.currency == "":
		return fmt.Errorf("slot config: currency is required")
	case !cfg.minBet.IsPositive() || cfg.maxBet.LessThan(cfg.minBet):
		return fmt.Errorf("slot config: bad bet range [%s, %s]", cfg.minBet, cfg.maxBet)
	case cfg.anteFactor.LessThan(decimal.NewFromInt(1)):
		return fmt.Errorf("slot config: ante factor %s below 1", cfg.anteFactor)
	case !cfg.maxWinMultiplier.IsPositive():
		return fmt.Errorf("slot config: max win multiplier must be positive")
	case cfg.bonus.MultiplierStep.IsNegative() || cfg.bonus.MultiplierCap.LessThan(decimal.NewFromInt(1)):
		return fmt.Errorf("slot config: bad bonus dampening step=%s cap=%s", cfg.bonus.MultiplierStep, cfg.bonus.MultiplierCap)
	case cfg.bonus.RetriggerSpins < 0:
		return fmt.Errorf("slot config: retrigger spins must not be negative")
	}
	return nil
}

func weightTable(in map[string]int) (engine.WeightTable, error) {
	var w engine.WeightTable
	for name, v := range in {
		sym, err := engine.ParseSymbol(name)
		if err != nil {
			return w, err
		}
		w[sym] = v
	}
	return w, nil
}

func paytable(in map[string]map[int]string) (engine.Paytable, error) {
	var p engine.Paytable
	for name, rows := range in {
		sym, err := engine.ParseSymbol(name)
		if err != nil {
			return p, err
		}
		if sym.Special() {
			return p, fmt.Errorf("%s cannot have pay entries", sym)
		}
		brackets := make([]engine.Bracket, 0, len(rows))
		for count, raw := range rows {
			payout, err := decimal.NewFromString(raw)
			if err != nil {
				return p, fmt.Errorf("%s x%d: %w", sym, count, err)
			}
			brackets = append(brackets, engine.Bracket{Count: count, Payout: payout})
		}
		sort.Slice(brackets, func(i, j int) bool { return brackets[i].Count < brackets[j].Count })
		p[sym] = brackets
	}
	return p, nil
}

// DefaultSlotConfig - те же значения, что в config.yaml
func DefaultSlotConfig() config.SlotConfig {
	maxWin := decimal.NewFromInt(5000)
	return &slotConfig{
		rules: engine.DefaultRules(),
		bonus: engine.BonusRules{
			RetriggerSpins:   5,
			MultiplierStep:   decimal.RequireFromString("0.45"),
			MultiplierCap:    decimal.NewFromInt(20),
			MaxWinMultiplier: maxWin,
		},
		minBet:           decimal.RequireFromString("0.20"),
		maxBet:           decimal.NewFromInt(100),
		anteFactor:       decimal.RequireFromString("1.25"),
		maxWinMultiplier: maxWin,
		currency:         "USD",
		targetRTP:        96.5,
	}
}

func (cfg *slotConfig) Rules() engine.Rules { return cfg.rules }
func (cfg *slotConfig) BonusRules() engine.BonusRules { return cfg.bonus }
func (cfg *slotConfig) MinBet() decimal.Decimal { return cfg.minBet }
func (cfg *slotConfig) MaxBet() decimal.Decimal { return cfg.maxBet }
func (cfg *slotConfig) AnteFactor() decimal.Decimal { return cfg.anteFactor }
func (cfg *slotConfig) MaxWinMultiplier() decimal.Decimal { return cfg.maxWinMultiplier }
func (cfg *slotConfig) DefaultCurrency() string { return cfg.currency }
func (cfg *slotConfig) TargetRTP() float64 { return cfg.targetRTP }
