package engine

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrCascadeLimit - каскад не затих за MaxCascades шагов (дефект таблиц весов)
	ErrCascadeLimit = errors.New("cascade safety limit exceeded")
	// ErrInvalidRules - конфигурация математики некорректна
	ErrInvalidRules = errors.New("invalid slot rules")
	// ErrBonusFinished - у бонусной сессии не осталось спинов
	ErrBonusFinished = errors.New("bonus round already finished")
)

const defaultMaxCascades = 50

// Rules - математика игры
type Rules struct {
	BaseWeights WeightTable
	// AnteWeights - таблица для режима анте (повышенный вес скаттера)
	AnteWeights          WeightTable
	OrbValues            []OrbWeight
	Paytable             Paytable
	MinCluster           int
	ScattersForFreeSpins int
	FreeSpinsCount       int
	MaxCascades          int
}

// Engine - чистая симуляция спина, без побочных эффектов
type Engine struct {
	rules Rules
	base  weighted
	ante  weighted
	orbs  weighted
}

func New(rules Rules) (*Engine, error) {
	if rules.MaxCascades == 0 {
		rules.MaxCascades = defaultMaxCascades
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	orbWeights := make([]int, len(rules.OrbValues))
	for i, o := range rules.OrbValues {
		orbWeights[i] = o.Weight
	}

	return &Engine{
		rules: rules,
		base:  newWeighted(rules.BaseWeights[:]),
		ante:  newWeighted(rules.AnteWeights[:]),
		orbs:  newWeighted(orbWeights),
	}, nil
}

// MustNew для тестов и CLI
func MustNew(rules Rules) *Engine {
	e, err := New(rules)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Validate проверяет таблицы: веса неотрицательны и в сумме > 0,
// у каждого обычного символа есть ступени выплат, первая равна MinCluster.
func (r Rules) Validate() error {
	if err := validateWeights("base", r.BaseWeights); err != nil {
		return err
	}
	if err := validateWeights("ante", r.AnteWeights); err != nil {
		return err
	}

	if len(r.OrbValues) == 0 {
		return fmt.Errorf("%w: orb value table is empty", ErrInvalidRules)
	}
	orbTotal := 0
	for _, o := range r.OrbValues {
		if o.Value < 1 || o.Weight <= 0 {
			return fmt.Errorf("%w: bad orb entry %+v", ErrInvalidRules, o)
		}
		orbTotal += o.Weight
	}
	if int64(orbTotal) > math.MaxUint32 {
		return fmt.Errorf("%w: orb weights overflow", ErrInvalidRules)
	}

	if r.MinCluster < 1 || r.MinCluster > GridSize {
		return fmt.Errorf("%w: min cluster %d out of range", ErrInvalidRules, r.MinCluster)
	}
	if r.ScattersForFreeSpins < 1 || r.FreeSpinsCount < 1 {
		return fmt.Errorf("%w: free spin trigger must be positive", ErrInvalidRules)
	}
	if r.MaxCascades < 1 {
		return fmt.Errorf("%w: max cascades must be positive", ErrInvalidRules)
	}

	for i, brs := range r.Paytable {
		sym := Symbol(i)
		if len(brs) == 0 {
			return fmt.Errorf("%w: no pay table entry for %s", ErrInvalidRules, sym)
		}
		if brs[0].Count != r.MinCluster {
			return fmt.Errorf("%w: %s lowest bracket %d != min cluster %d", ErrInvalidRules, sym, brs[0].Count, r.MinCluster)
		}
		for j, b := range brs {
			if !b.Payout.IsPositive() {
				return fmt.Errorf("%w: %s bracket %d pays %s", ErrInvalidRules, sym, b.Count, b.Payout)
			}
			if j > 0 && b.Count <= brs[j-1].Count {
				return fmt.Errorf("%w: %s brackets are not increasing", ErrInvalidRules, sym)
			}
		}
	}
	return nil
}

func validateWeights(name string, w WeightTable) error {
	for i, v := range w {
		if v < 0 {
			return fmt.Errorf("%w: %s weight of %s is negative", ErrInvalidRules, name, Symbol(i))
		}
	}
	total := w.Total()
	if total <= 0 || int64(total) > math.MaxUint32 {
		return fmt.Errorf("%w: %s weights total %d", ErrInvalidRules, name, total)
	}
	return nil
}
