package stats_repo

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slot_backend/internal/model"
	repoModel "slot_backend/internal/repository/stats_repo/model"
)

const (
	// windowSize - сколько последних спинов учитываем в RTP окна.
	// Разброс одного спина с бонусом ~5.5 ставки, на 50000 спинах это ~2.5 п.п.
	windowSize = 50000
	// minSpinsToCheck - раньше этого окно слишком шумное
	minSpinsToCheck = 10000
	// criticalRTPDeviation - отклонение RTP окна от целевого (п.п.), после которого взводим тревогу
	criticalRTPDeviation = 10.0
	// normalRTPDeviation - отклонение, при котором тревога снимается
	normalRTPDeviation = 5.0
	maxAlerts          = 50
)

var hundred = decimal.NewFromInt(100)

// StateRepo - статистика выплат в памяти процесса. Ничего не подкручивает:
// математика фиксирована и проверяема, репозиторий только наблюдает.
type StateRepo struct {
	mtx   sync.RWMutex
	log   *zap.Logger
	state model.GameStats

	// window - кольцевой буфер, next - куда писать следующий спин
	window       []repoModel.SpinResult
	next         int
	windowStake  decimal.Decimal
	windowPayout decimal.Decimal
}

func NewGameStatsRepository(targetRTP float64, log *zap.Logger) *StateRepo {
	return &StateRepo{
		log: log,
		state: model.GameStats{
			TotalStake:  decimal.Zero,
			TotalPayout: decimal.Zero,
			TargetRTP:   targetRTP,
			WindowSize:  windowSize,
		},
		window:       make([]repoModel.SpinResult, 0, windowSize),
		windowStake:  decimal.Zero,
		windowPayout: decimal.Zero,
	}
}

// Snapshot - копия текущего состояния
func (r *StateRepo) Snapshot() model.GameStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	s := r.state
	s.Alerts = append([]model.DriftAlert(nil), r.state.Alerts...)
	return s
}

// UpdateState учитывает спин. Бесплатный спин приходит со stake = 0.
func (r *StateRepo) UpdateState(kind model.RoundKind, stake, payout decimal.Decimal) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.state.TotalSpins++
	if kind == model.RoundFree {
		r.state.FreeSpins++
	} else {
		r.state.BaseSpins++
	}
	r.state.TotalStake = r.state.TotalStake.Add(stake)
	r.state.TotalPayout = r.state.TotalPayout.Add(payout)
	r.state.CurrentRTP = rtp(r.state.TotalPayout, r.state.TotalStake)

	spin := repoModel.SpinResult{Stake: stake, Payout: payout}
	if len(r.window) < windowSize {
		r.window = append(r.window, spin)
	} else {
		evicted := r.window[r.next]
		r.windowStake = r.windowStake.Sub(evicted.Stake)
		r.windowPayout = r.windowPayout.Sub(evicted.Payout)
		r.window[r.next] = spin
		r.next = (r.next + 1) % windowSize
	}
	r.windowStake = r.windowStake.Add(stake)
	r.windowPayout = r.windowPayout.Add(payout)
	r.state.WindowRTP = rtp(r.windowPayout, r.windowStake)

	r.checkDrift()
}

// checkDrift взводит и снимает тревогу с гистерезисом
func (r *StateRepo) checkDrift() {
	if r.state.TotalSpins < minSpinsToCheck {
		return
	}

	diff := r.state.WindowRTP - r.state.TargetRTP
	if diff < 0 {
		diff = -diff
	}

	switch {
	case !r.state.DriftAlert && diff > criticalRTPDeviation:
		direction := "low"
		if r.state.WindowRTP > r.state.TargetRTP {
			direction = "high"
		}
		r.state.DriftAlert = true
		r.state.Alerts = append(r.state.Alerts, model.DriftAlert{
			Timestamp: time.Now().UTC(),
			WindowRTP: r.state.WindowRTP,
			Direction: direction,
		})
		if len(r.state.Alerts) > maxAlerts {
			r.state.Alerts = r.state.Alerts[1:]
		}
		r.log.Warn("window rtp drifted from target",
			zap.Float64("window_rtp", r.state.WindowRTP),
			zap.Float64("target_rtp", r.state.TargetRTP),
			zap.String("direction", direction),
		)
	case r.state.DriftAlert && diff < normalRTPDeviation:
		r.state.DriftAlert = false
		r.log.Info("window rtp back to normal", zap.Float64("window_rtp", r.state.WindowRTP))
	}
}

func rtp(payout, stake decimal.Decimal) float64 {
	if !stake.IsPositive() {
		return 0
	}
	return payout.Div(stake).Mul(hundred).InexactFloat64()
}
