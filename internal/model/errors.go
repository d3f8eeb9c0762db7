package model

import "errors"

// Ошибки валидации: запрос отклоняется до генерации сида и до любых изменений баланса
var (
	ErrInvalidBet        = errors.New("bet is out of range")
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrInvalidPlayer     = errors.New("invalid player id")
	ErrInvalidSessionID  = errors.New("malformed session id")
	ErrInvalidClientSeed = errors.New("invalid client seed")
	ErrInvalidSeed       = errors.New("invalid seed")
	ErrInvalidSettlement = errors.New("invalid settlement request")
)

// Конфликты состояния: ничего не меняется
var (
	ErrSessionActive       = errors.New("free spin session is active")
	ErrSessionNotFound     = errors.New("free spin session not found")
	ErrSessionExhausted    = errors.New("free spin session has no spins left")
	ErrSeedNotFound        = errors.New("active seed pair not found")
	ErrDuplicateSettlement = errors.New("settlement already applied")
)

// Ошибки средств: откатываются вместе с транзакцией
var (
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// ErrInvariant - нарушение внутреннего инварианта, дефект, а не ошибка клиента
var ErrInvariant = errors.New("invariant violation")

// IsValidation - ошибка входных данных
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidBet) ||
		errors.Is(err, ErrInvalidCurrency) ||
		errors.Is(err, ErrInvalidPlayer) ||
		errors.Is(err, ErrInvalidSessionID) ||
		errors.Is(err, ErrInvalidClientSeed) ||
		errors.Is(err, ErrInvalidSeed) ||
		errors.Is(err, ErrInvalidSettlement)
}

// IsConflict - запрос противоречит текущему состоянию игрока
func IsConflict(err error) bool {
	return errors.Is(err, ErrSessionActive) ||
		errors.Is(err, ErrSessionExhausted) ||
		errors.Is(err, ErrDuplicateSettlement)
}
