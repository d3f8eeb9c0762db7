package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"slot_backend/pkg/provably"
)

// TumbleStep - снимок одного шага каскада: поле, на котором искали выигрыши,
// сами выигрыши, удаленные позиции и видимые на поле бомбы
type TumbleStep struct {
	Grid        Grid         `json:"grid"`
	Wins        []ClusterWin `json:"wins"`
	Removed     []int        `json:"removed"`
	Multipliers []OrbHit     `json:"multipliers,omitempty"`
}

// SpinOutcome - полный результат спина. TotalWin - множитель ставки без учета денег и лимитов.
type SpinOutcome struct {
	InitialGrid      Grid            `json:"initial_grid"`
	Steps            []TumbleStep    `json:"steps"`
	FinalGrid        Grid            `json:"final_grid"`
	TotalWin         decimal.Decimal `json:"total_win"`
	ScatterCount     int             `json:"scatter_count"`
	Multipliers      []int           `json:"multipliers,omitempty"`
	FreeSpinsAwarded int             `json:"free_spins_awarded"`
	Draws            uint64          `json:"draws"`
}

func (o SpinOutcome) IsWin() bool {
	return o.TotalWin.IsPositive()
}

// MultiplierSum - сумма всех собранных бомб
func (o SpinOutcome) MultiplierSum() int {
	sum := 0
	for _, v := range o.Multipliers {
		sum += v
	}
	return sum
}

// ExecuteSpin - основной цикл: поле -> кластеры -> удаление -> падение -> досыпка
func (e *Engine) ExecuteSpin(seed provably.Seed, ante bool) (SpinOutcome, error) {
	st := provably.NewStream(seed)
	grid := e.Generate(st, ante)

	out := SpinOutcome{
		InitialGrid:  grid,
		TotalWin:     decimal.Zero,
		ScatterCount: grid.Count(Scatter),
	}
	for _, hit := range grid.Orbs() {
		out.Multipliers = append(out.Multipliers, hit.Value)
	}

	for {
		wins := e.FindWins(grid)
		if len(wins) == 0 {
			break
		}
		if len(out.Steps) == e.rules.MaxCascades {
			return SpinOutcome{}, fmt.Errorf("%w: still winning after %d steps", ErrCascadeLimit, e.rules.MaxCascades)
		}

		removed := unionPositions(wins)
		for _, w := range wins {
			out.TotalWin = out.TotalWin.Add(w.Payout)
		}
		out.Steps = append(out.Steps, TumbleStep{
			Grid:        grid,
			Wins:        wins,
			Removed:     removed,
			Multipliers: grid.Orbs(),
		})

		// Досыпаем освободившиеся ячейки и смотрим только на новые символы
		for _, pos := range collapse(&grid, removed) {
			c := e.drawCell(st, ante)
			grid[pos] = c
			switch c.Symbol {
			case Scatter:
				out.ScatterCount++
			case Orb:
				out.Multipliers = append(out.Multipliers, c.Multiplier)
			}
		}
	}

	out.FinalGrid = grid
	out.Draws = st.Index()
	if out.ScatterCount >= e.rules.ScattersForFreeSpins {
		out.FreeSpinsAwarded = e.rules.FreeSpinsCount
	}
	return out, nil
}

// collapse роняет оставшиеся символы вниз каждой колонки, сохраняя порядок.
// Возвращает освободившиеся позиции: по колонкам слева направо, в колонке сверху вниз.
func collapse(g *Grid, removed []int) []int {
	var gone [GridSize]bool
	for _, p := range removed {
		gone[p] = true
	}

	var vacated []int
	for c := 0; c < Columns; c++ {
		write := Rows - 1
		for r := Rows - 1; r >= 0; r-- {
			p := Position(r, c)
			if gone[p] {
				continue
			}
			g[Position(write, c)] = g[p]
			write--
		}
		for r := 0; r <= write; r++ {
			vacated = append(vacated, Position(r, c))
		}
	}
	return vacated
}

func unionPositions(wins []ClusterWin) []int {
	var out []int
	for _, w := range wins {
		out = append(out, w.Positions...)
	}
	sort.Ints(out)
	return out
}
