package provably

import (
	"bytes"
	"testing"
)

func TestHashServerSeed(t *testing.T) {
	got := HashServerSeed("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	if !VerifyCommitment("abc", want) {
		t.Fatalf("expected commitment to match")
	}
	if VerifyCommitment("abd", want) {
		t.Fatalf("expected commitment mismatch for another seed")
	}
}

func TestDeriveBytesDeterministic(t *testing.T) {
	a := DeriveBytes("server", "client", 7, 3)
	b := DeriveBytes("server", "client", 7, 3)
	if !bytes.Equal(a, b) {
		t.Fatalf("same inputs produced different bytes")
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 bytes, got %d", len(a))
	}

	variants := [][]byte{
		DeriveBytes("server", "client", 7, 4),
		DeriveBytes("server", "client", 8, 3),
		DeriveBytes("server", "client2", 7, 3),
		DeriveBytes("server2", "client", 7, 3),
	}
	for i, v := range variants {
		if bytes.Equal(a, v) {
			t.Fatalf("variant %d collided with base derivation", i)
		}
	}
}

func TestStreamConsumesIndices(t *testing.T) {
	seed := Seed{ServerSeed: "s", ClientSeed: "c", Nonce: 1}
	st := NewStream(seed)
	for i := uint64(0); i < 5; i++ {
		want := DeriveUint32("s", "c", 1, i)
		if got := st.Next(); got != want {
			t.Fatalf("index %d: got %d want %d", i, got, want)
		}
	}
	if st.Index() != 5 {
		t.Fatalf("expected index 5, got %d", st.Index())
	}
}

func TestNewSeeds(t *testing.T) {
	s1, err := NewServerSeed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s2, err := NewServerSeed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s1) != 64 || s1 == s2 {
		t.Fatalf("bad server seeds %q %q", s1, s2)
	}
	c, err := NewClientSeed()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(c))
	}
}
