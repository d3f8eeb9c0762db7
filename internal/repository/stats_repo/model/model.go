package model

import "github.com/shopspring/decimal"

// SpinResult - спин в скользящем окне
type SpinResult struct {
	Stake  decimal.Decimal
	Payout decimal.Decimal
}
