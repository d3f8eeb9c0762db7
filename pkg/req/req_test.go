package req

import (
	"errors"
	"strings"
	"testing"
)

type payload struct {
	Bet  string `json:"bet"`
	Ante bool   `json:"ante"`
}

func TestDecode(t *testing.T) {
	p, err := Decode[payload](strings.NewReader(`{"bet":"1.50","ante":true}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Bet != "1.50" || !p.Ante {
		t.Fatalf("unexpected payload %+v", p)
	}

	if _, err = Decode[payload](strings.NewReader(``)); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
	if _, err = Decode[payload](strings.NewReader(`{"bet":"1","extra":1}`)); err == nil {
		t.Fatal("unknown fields must be rejected")
	}
	if _, err = Decode[payload](strings.NewReader(`{"bet":`)); err == nil {
		t.Fatal("broken json must be rejected")
	}
}
