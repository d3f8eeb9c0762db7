package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlayerID(t *testing.T) {
	var got int64
	h := PlayerID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PlayerIDFromContext(r.Context())
	}))

	tests := []struct {
		header string
		status int
		id     int64
	}{
		{header: "42", status: http.StatusOK, id: 42},
		{header: " 7 ", status: http.StatusOK, id: 7},
		{header: "", status: http.StatusUnauthorized},
		{header: "abc", status: http.StatusUnauthorized},
		{header: "-3", status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		got = 0
		r := httptest.NewRequest(http.MethodGet, "/slot/state", nil)
		if tc.header != "" {
			r.Header.Set(PlayerIDHeader, tc.header)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != tc.status || got != tc.id {
			t.Fatalf("header %q: status %d id %d", tc.header, w.Code, got)
		}
	}
}
