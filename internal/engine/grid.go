package engine

import (
	"slot_backend/pkg/provably"
)

const (
	Columns  = 6
	Rows     = 5
	GridSize = Columns * Rows
)

// Cell - ячейка поля. Multiplier заполнен только у бомбы.
type Cell struct {
	Symbol     Symbol `json:"symbol"`
	Multiplier int    `json:"multiplier,omitempty"`
}

// Grid - поле Columns x Rows, построчно (row-major), строка 0 сверху
type Grid [GridSize]Cell

// OrbHit - бомба-множитель на конкретной позиции
type OrbHit struct {
	Position int `json:"position"`
	Value    int `json:"value"`
}

func Position(row, col int) int {
	return row*Columns + col
}

// Count считает символы заданного типа на поле
func (g *Grid) Count(sym Symbol) int {
	n := 0
	for _, c := range g {
		if c.Symbol == sym {
			n++
		}
	}
	return n
}

// Orbs возвращает все бомбы на поле по возрастанию позиции
func (g *Grid) Orbs() []OrbHit {
	var hits []OrbHit
	for pos, c := range g {
		if c.Symbol == Orb {
			hits = append(hits, OrbHit{Position: pos, Value: c.Multiplier})
		}
	}
	return hits
}

// WeightTable - веса символов, индекс = Symbol
type WeightTable [SymbolCount]int

func (w WeightTable) Total() int {
	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// OrbWeight - значение множителя бомбы и его вес
type OrbWeight struct {
	Value  int `json:"value" yaml:"value"`
	Weight int `json:"weight" yaml:"weight"`
}

// weighted - таблица с заранее посчитанной суммой весов
type weighted struct {
	weights []int
	total   uint32
}

func newWeighted(weights []int) weighted {
	total := 0
	for _, w := range weights {
		total += w
	}
	return weighted{weights: weights, total: uint32(total)}
}

// pick - первый элемент, чей накопленный вес больше value % total
func (w weighted) pick(value uint32) int {
	target := value % w.total
	var cum uint32
	for i, wt := range w.weights {
		cum += uint32(wt)
		if target < cum {
			return i
		}
	}
	// недостижимо при total > 0
	return len(w.weights) - 1
}

// drawCell тянет символ и, если это бомба, отдельным индексом ее множитель
func (e *Engine) drawCell(st *provably.Stream, ante bool) Cell {
	table := e.base
	if ante {
		table = e.ante
	}
	c := Cell{Symbol: Symbol(table.pick(st.Next()))}
	if c.Symbol == Orb {
		c.Multiplier = e.rules.OrbValues[e.orbs.pick(st.Next())].Value
	}
	return c
}

// Generate заполняет поле целиком из потока сидов
func (e *Engine) Generate(st *provably.Stream, ante bool) Grid {
	var g Grid
	for pos := range g {
		g[pos] = e.drawCell(st, ante)
	}
	return g
}
