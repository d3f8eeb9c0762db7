package engine

import (
	"reflect"
	"testing"

	"slot_backend/pkg/provably"
)

func TestVerifyReplaysSpin(t *testing.T) {
	e := MustNew(DefaultRules())
	seed := seedAt(17)

	want, err := e.ExecuteSpin(seed, true)
	if err != nil {
		t.Fatal(err)
	}
	got, err := e.Verify(seed.ServerSeed, seed.ClientSeed, seed.Nonce, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.ServerSeedHash != provably.HashServerSeed(seed.ServerSeed) {
		t.Fatalf("unexpected commitment %s", got.ServerSeedHash)
	}
	if !reflect.DeepEqual(got.Outcome, want) {
		t.Fatalf("verify outcome differs from the original spin")
	}

	other, err := e.Verify(seed.ServerSeed, seed.ClientSeed, seed.Nonce, false)
	if err != nil {
		t.Fatal(err)
	}
	if other.Outcome.InitialGrid == want.InitialGrid {
		t.Fatalf("ante flag must change the draw table")
	}
}
