package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"slot_backend/pkg/resp"
)

// PlayerIDHeader - идентификатор игрока. Аутентификацию делает шлюз перед сервисом.
const PlayerIDHeader = "X-Player-ID"

type playerKey struct{}

// PlayerID кладет id игрока из заголовка в контекст запроса
func PlayerID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(PlayerIDHeader))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			resp.WriteError(w, http.StatusUnauthorized, "missing or invalid "+PlayerIDHeader)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPlayerID(r.Context(), id)))
	})
}

func WithPlayerID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, playerKey{}, id)
}

func PlayerIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(playerKey{}).(int64)
	return id, ok
}
