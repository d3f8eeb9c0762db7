package slot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Денежные суммы - decimal, в JSON строкой ("1.25")

type SpinRequest struct {
	Bet      decimal.Decimal `json:"bet"`                // Ставка
	Ante     bool            `json:"ante"`               // Режим анте: ставка x AnteFactor, выше шанс скаттеров
	Currency string          `json:"currency,omitempty"` // Пусто - валюта по умолчанию
}

type FreeSpinRequest struct {
	SessionID string `json:"session_id"`
}

type VerifyRequest struct {
	ServerSeed     string `json:"server_seed"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
	Ante           bool   `json:"ante"`
	ServerSeedHash string `json:"server_seed_hash,omitempty"` // Опубликованный коммит для сверки
}

type RotateSeedRequest struct {
	ClientSeed string `json:"client_seed,omitempty"` // Пусто - оставить текущий
}

type Cell struct {
	Symbol     string `json:"symbol"`
	Multiplier int    `json:"multiplier,omitempty"`
}

type ClusterWin struct {
	Symbol    string          `json:"symbol"`
	Count     int             `json:"count"`
	Positions []int           `json:"positions"`
	Payout    decimal.Decimal `json:"payout"` // В кратности ставки
}

type OrbHit struct {
	Position int `json:"position"`
	Value    int `json:"value"`
}

type TumbleStep struct {
	Grid        [][]Cell     `json:"grid"` // Строки сверху вниз
	Wins        []ClusterWin `json:"wins"`
	Removed     []int        `json:"removed"`
	Multipliers []OrbHit     `json:"multipliers,omitempty"`
}

type Outcome struct {
	InitialGrid      [][]Cell        `json:"initial_grid"`
	Steps            []TumbleStep    `json:"steps"`
	FinalGrid        [][]Cell        `json:"final_grid"`
	TotalWin         decimal.Decimal `json:"total_win"` // Множитель ставки до лимитов
	IsWin            bool            `json:"is_win"`
	ScatterCount     int             `json:"scatter_count"`
	Multipliers      []int           `json:"multipliers,omitempty"`
	FreeSpinsAwarded int             `json:"free_spins_awarded"`
}

type Session struct {
	SessionID            string          `json:"session_id"`
	Bet                  decimal.Decimal `json:"bet"`
	Currency             string          `json:"currency"`
	Ante                 bool            `json:"ante"`
	SpinsRemaining       int             `json:"spins_remaining"`
	TotalSpins           int             `json:"total_spins"`
	CumulativeMultiplier int             `json:"cumulative_multiplier"`
	TotalWin             decimal.Decimal `json:"total_win"`
	ServerSeedHash       string          `json:"server_seed_hash"`
	NextNonce            uint64          `json:"next_nonce"`
}

type SpinResponse struct {
	RoundID        string          `json:"round_id"`
	Outcome        Outcome         `json:"outcome"`
	Bet            decimal.Decimal `json:"bet"`
	Stake          decimal.Decimal `json:"stake"` // Фактически списано
	Win            decimal.Decimal `json:"win"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `json:"balance"`
	ServerSeedHash string          `json:"server_seed_hash"`
	ClientSeed     string          `json:"client_seed"`
	Nonce          uint64          `json:"nonce"`
	Ante           bool            `json:"ante"`
	Session        *Session        `json:"session,omitempty"` // Есть, если спин выдал фриспины
}

type FreeSpinResponse struct {
	RoundID              string          `json:"round_id"`
	SessionID            string          `json:"session_id"`
	Outcome              Outcome         `json:"outcome"`
	Nonce                uint64          `json:"nonce"`
	Factor               decimal.Decimal `json:"factor"`
	Win                  decimal.Decimal `json:"win"`
	TotalWin             decimal.Decimal `json:"total_win"`
	Currency             string          `json:"currency"`
	SpinsRemaining       int             `json:"spins_remaining"`
	TotalSpins           int             `json:"total_spins"`
	CumulativeMultiplier int             `json:"cumulative_multiplier"`
	Retriggered          bool            `json:"retriggered"`
	MaxWinReached        bool            `json:"max_win_reached"`
	Finished             bool            `json:"finished"`
	Balance              decimal.Decimal `json:"balance"`
	ServerSeedHash       string          `json:"server_seed_hash"`
	ClientSeed           string          `json:"client_seed"`
}

type StateResponse struct {
	PlayerID       int64           `json:"player_id"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	ServerSeedHash string          `json:"server_seed_hash"`
	ClientSeed     string          `json:"client_seed"`
	Nonce          uint64          `json:"nonce"`
	Session        *Session        `json:"session,omitempty"`
}

type VerifyResponse struct {
	ServerSeedHash string  `json:"server_seed_hash"`
	HashChecked    bool    `json:"hash_checked"`
	HashMatches    bool    `json:"hash_matches"`
	Outcome        Outcome `json:"outcome"`
}

type RevealedSeed struct {
	ServerSeed     string    `json:"server_seed"`
	ServerSeedHash string    `json:"server_seed_hash"`
	ClientSeed     string    `json:"client_seed"`
	FinalNonce     uint64    `json:"final_nonce"`
	RevealedAt     time.Time `json:"revealed_at"`
}

type CommittedSeed struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}

type RotateSeedResponse struct {
	Revealed RevealedSeed  `json:"revealed"`
	Next     CommittedSeed `json:"next"`
}

type Bracket struct {
	Count  int             `json:"count"`
	Payout decimal.Decimal `json:"payout"`
}

type PaytableEntry struct {
	Symbol   string    `json:"symbol"`
	Brackets []Bracket `json:"brackets"`
}

type PaytableResponse struct {
	Columns              int             `json:"columns"`
	Rows                 int             `json:"rows"`
	MinCluster           int             `json:"min_cluster"`
	Symbols              []PaytableEntry `json:"symbols"`
	OrbValues            []int           `json:"orb_values"`
	ScattersForFreeSpins int             `json:"scatters_for_free_spins"`
	FreeSpinsCount       int             `json:"free_spins_count"`
	RetriggerSpins       int             `json:"retrigger_spins"`
	MultiplierStep       decimal.Decimal `json:"multiplier_step"`
	MultiplierCap        decimal.Decimal `json:"multiplier_cap"`
	MaxWinMultiplier     decimal.Decimal `json:"max_win_multiplier"`
	MinBet               decimal.Decimal `json:"min_bet"`
	MaxBet               decimal.Decimal `json:"max_bet"`
	AnteFactor           decimal.Decimal `json:"ante_factor"`
	Currency             string          `json:"currency"`
}

type Round struct {
	RoundID        string          `json:"round_id"`
	Kind           string          `json:"kind"`
	SessionID      string          `json:"session_id,omitempty"`
	Bet            decimal.Decimal `json:"bet"`
	Stake          decimal.Decimal `json:"stake"`
	Win            decimal.Decimal `json:"win"`
	Currency       string          `json:"currency"`
	ServerSeedHash string          `json:"server_seed_hash"`
	ClientSeed     string          `json:"client_seed"`
	Nonce          uint64          `json:"nonce"`
	Ante           bool            `json:"ante"`
	Outcome        Outcome         `json:"outcome"`
	CreatedAt      time.Time       `json:"created_at"`
}

type HistoryResponse struct {
	Rounds []Round `json:"rounds"`
}

type DriftAlert struct {
	Timestamp time.Time `json:"timestamp"`
	WindowRTP float64   `json:"window_rtp"`
	Direction string    `json:"direction"`
}

type StatsResponse struct {
	TotalSpins  int             `json:"total_spins"`
	BaseSpins   int             `json:"base_spins"`
	FreeSpins   int             `json:"free_spins"`
	TotalStake  decimal.Decimal `json:"total_stake"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	CurrentRTP  float64         `json:"current_rtp"`
	TargetRTP   float64         `json:"target_rtp"`
	WindowSize  int             `json:"window_size"`
	WindowRTP   float64         `json:"window_rtp"`
	DriftAlert  bool            `json:"drift_alert"`
	Alerts      []DriftAlert    `json:"alerts"`
}
