package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameStats - фактический RTP сервера с момента старта
type GameStats struct {
	TotalSpins  int
	BaseSpins   int
	FreeSpins   int
	TotalStake  decimal.Decimal
	TotalPayout decimal.Decimal

	CurrentRTP float64 // TotalPayout / TotalStake * 100
	TargetRTP  float64

	WindowSize int
	WindowRTP  float64 // RTP по последним WindowSize спинам

	// DriftAlert взводится, когда RTP окна ушел от целевого дальше критического порога
	DriftAlert bool
	Alerts     []DriftAlert
}

type DriftAlert struct {
	Timestamp time.Time
	WindowRTP float64
	Direction string // high | low
}
