package engine

import (
	"slot_backend/pkg/provably"
)

// Verification - пересчитанный результат по раскрытому сиду
type Verification struct {
	ServerSeedHash string      `json:"server_seed_hash"`
	Outcome        SpinOutcome `json:"outcome"`
}

// Verify повторяет ExecuteSpin по раскрытому серверному сиду.
// Чистая функция: одинаковые входы дают одинаковый результат.
func (e *Engine) Verify(serverSeed, clientSeed string, nonce uint64, ante bool) (Verification, error) {
	out, err := e.ExecuteSpin(provably.Seed{
		ServerSeed: serverSeed,
		ClientSeed: clientSeed,
		Nonce:      nonce,
	}, ante)
	if err != nil {
		return Verification{}, err
	}
	return Verification{
		ServerSeedHash: provably.HashServerSeed(serverSeed),
		Outcome:        out,
	}, nil
}
