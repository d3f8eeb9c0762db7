package slot

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	dto "slot_backend/internal/api/dto/slot"
	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/engine"
	"slot_backend/internal/middleware"
	"slot_backend/internal/repository/memory"
	"slot_backend/internal/repository/stats_repo"
	"slot_backend/internal/service/ledger"
	slotService "slot_backend/internal/service/slot"
)

type rulesOverride struct {
	config.SlotConfig
	rules engine.Rules
}

func (c rulesOverride) Rules() engine.Rules { return c.rules }

func newServer(t *testing.T, rules engine.Rules, balance string) http.Handler {
	t.Helper()
	cfg := rulesOverride{SlotConfig: env.DefaultSlotConfig(), rules: rules}
	store := memory.NewStore(memory.WithDefaultBalance(decimal.RequireFromString(balance)))
	log := zap.NewNop()

	serv, err := slotService.NewSlotService(slotService.Deps{
		Cfg:          cfg,
		TxManager:    store,
		Ledger:       ledger.NewLedgerService(store, memory.NewWalletRepository(store), memory.NewLedgerRepository(store), cfg.MaxWinMultiplier(), log),
		SeedRepo:     memory.NewSeedRepository(store),
		FreeSpinRepo: memory.NewFreeSpinRepository(store),
		RoundRepo:    memory.NewRoundRepository(store),
		StatsRepo:    stats_repo.NewGameStatsRepository(cfg.TargetRTP(), log),
		Log:          log,
	})
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	NewHandler(HandlerDeps{Serv: serv, Log: log}).Routes(r)
	return r
}

func noScatters() engine.Rules {
	r := engine.DefaultRules()
	r.BaseWeights[engine.Scatter] = 0
	r.AnteWeights[engine.Scatter] = 0
	return r
}

func scattersOnly() engine.Rules {
	var w engine.WeightTable
	w[engine.Scatter] = 1
	r := engine.DefaultRules()
	r.BaseWeights = w
	r.AnteWeights = w
	return r
}

func do(t *testing.T, h http.Handler, method, path, player, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		r.Header.Set(middleware.PlayerIDHeader, player)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := jsoniter.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestSpinEndpoint(t *testing.T) {
	h := newServer(t, noScatters(), "100")

	w := do(t, h, http.MethodPost, "/slot/spin", "1", `{"bet":"1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	if strings.Contains(w.Body.String(), `"server_seed"`) {
		t.Fatal("spin response must not reveal the server seed")
	}
	res := decode[dto.SpinResponse](t, w)
	if len(res.Outcome.InitialGrid) != engine.Rows || len(res.Outcome.InitialGrid[0]) != engine.Columns {
		t.Fatalf("unexpected grid shape %dx%d", len(res.Outcome.InitialGrid), len(res.Outcome.InitialGrid[0]))
	}
	if want := decimal.NewFromInt(99).Add(res.Win); !res.Balance.Equal(want) {
		t.Fatalf("balance %s, expected %s", res.Balance, want)
	}

	w = do(t, h, http.MethodGet, "/slot/history?limit=5", "1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("history status %d", w.Code)
	}
	if hist := decode[dto.HistoryResponse](t, w); len(hist.Rounds) != 1 || hist.Rounds[0].RoundID != res.RoundID {
		t.Fatalf("unexpected history %+v", hist)
	}
}

func TestSpinErrors(t *testing.T) {
	h := newServer(t, noScatters(), "0.5")

	tests := []struct {
		name   string
		player string
		body   string
		status int
	}{
		{name: "no player", body: `{"bet":"1"}`, status: http.StatusUnauthorized},
		{name: "broken json", player: "1", body: `{"bet":`, status: http.StatusBadRequest},
		{name: "unknown field", player: "1", body: `{"bet":"1","lines":20}`, status: http.StatusBadRequest},
		{name: "bet above max", player: "1", body: `{"bet":"1000"}`, status: http.StatusBadRequest},
		{name: "insufficient funds", player: "1", body: `{"bet":"1"}`, status: http.StatusPaymentRequired},
	}
	for _, tc := range tests {
		w := do(t, h, http.MethodPost, "/slot/spin", tc.player, tc.body)
		if w.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.status, w.Code, w.Body)
		}
	}
}

func TestFreeSpinFlow(t *testing.T) {
	h := newServer(t, scattersOnly(), "10")

	w := do(t, h, http.MethodPost, "/slot/spin", "1", `{"bet":"1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	res := decode[dto.SpinResponse](t, w)
	if res.Session == nil || res.Session.SpinsRemaining != 10 {
		t.Fatalf("expected a session, got %+v", res.Session)
	}

	if w = do(t, h, http.MethodPost, "/slot/spin", "1", `{"bet":"1"}`); w.Code != http.StatusConflict {
		t.Fatalf("spin during bonus: expected 409, got %d", w.Code)
	}
	if w = do(t, h, http.MethodPost, "/slot/seed/rotate", "1", ""); w.Code != http.StatusConflict {
		t.Fatalf("rotation during bonus: expected 409, got %d", w.Code)
	}
	if w = do(t, h, http.MethodPost, "/slot/free-spin", "1", `{"session_id":"nope"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed session: expected 400, got %d", w.Code)
	}
	foreign := `{"session_id":"` + res.Session.SessionID + `"}`
	if w = do(t, h, http.MethodPost, "/slot/free-spin", "2", foreign); w.Code != http.StatusNotFound {
		t.Fatalf("foreign session: expected 404, got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/slot/free-spin", "1", foreign)
	if w.Code != http.StatusOK {
		t.Fatalf("free spin status %d: %s", w.Code, w.Body)
	}
	fs := decode[dto.FreeSpinResponse](t, w)
	// одни скаттеры: каждый спин ретриггерит
	if !fs.Retriggered || fs.SpinsRemaining != 14 || fs.Nonce != res.Nonce+1 {
		t.Fatalf("unexpected free spin %+v", fs)
	}

	w = do(t, h, http.MethodGet, "/slot/state", "1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("state status %d", w.Code)
	}
	st := decode[dto.StateResponse](t, w)
	if st.Session == nil || st.Session.SpinsRemaining != 14 || st.Nonce != fs.Nonce+1 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestRotateAndVerify(t *testing.T) {
	h := newServer(t, noScatters(), "100")

	w := do(t, h, http.MethodPost, "/slot/spin", "1", `{"bet":"2","ante":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	spin := decode[dto.SpinResponse](t, w)
	if !spin.Stake.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("ante stake %s", spin.Stake)
	}

	w = do(t, h, http.MethodPost, "/slot/seed/rotate", "1", `{"client_seed":"my-new-seed"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("rotate status %d: %s", w.Code, w.Body)
	}
	rot := decode[dto.RotateSeedResponse](t, w)
	if rot.Revealed.ServerSeedHash != spin.ServerSeedHash || rot.Revealed.FinalNonce != 1 {
		t.Fatalf("unexpected reveal %+v", rot.Revealed)
	}
	if rot.Next.ClientSeed != "my-new-seed" || rot.Next.Nonce != 0 {
		t.Fatalf("unexpected next seed %+v", rot.Next)
	}

	body, _ := jsoniter.MarshalToString(dto.VerifyRequest{
		ServerSeed:     rot.Revealed.ServerSeed,
		ClientSeed:     spin.ClientSeed,
		Nonce:          spin.Nonce,
		Ante:           true,
		ServerSeedHash: spin.ServerSeedHash,
	})
	w = do(t, h, http.MethodPost, "/slot/verify", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status %d: %s", w.Code, w.Body)
	}
	v := decode[dto.VerifyResponse](t, w)
	if !v.HashChecked || !v.HashMatches {
		t.Fatalf("hash mismatch %+v", v)
	}
	a, _ := jsoniter.Marshal(v.Outcome)
	b, _ := jsoniter.Marshal(spin.Outcome)
	if !bytes.Equal(a, b) {
		t.Fatal("verified outcome differs from the spin")
	}
}

func TestPublicEndpoints(t *testing.T) {
	h := newServer(t, engine.DefaultRules(), "100")

	w := do(t, h, http.MethodGet, "/slot/paytable", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("paytable status %d", w.Code)
	}
	pt := decode[dto.PaytableResponse](t, w)
	if len(pt.Symbols) != engine.RegularSymbolCount || pt.Symbols[0].Symbol != "banana" {
		t.Fatalf("unexpected paytable %+v", pt.Symbols)
	}

	if w = do(t, h, http.MethodGet, "/slot/stats", "", ""); w.Code != http.StatusOK {
		t.Fatalf("stats status %d", w.Code)
	}
	if w = do(t, h, http.MethodGet, "/slot/history?limit=x", "1", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", w.Code)
	}
}
