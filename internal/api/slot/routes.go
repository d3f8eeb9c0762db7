package slot

import (
	"github.com/go-chi/chi/v5"

	"slot_backend/internal/middleware"
)

// Routes вешает эндпоинты слота на /slot. Verify, paytable и stats не требуют игрока.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/slot", func(rr chi.Router) {
		rr.Post("/verify", h.Verify)
		rr.Get("/paytable", h.Paytable)
		rr.Get("/stats", h.Stats)

		rr.Group(func(pr chi.Router) {
			pr.Use(middleware.PlayerID)
			pr.Post("/spin", h.Spin)
			pr.Post("/free-spin", h.FreeSpin)
			pr.Get("/state", h.State)
			pr.Post("/seed/rotate", h.RotateSeed)
			pr.Get("/history", h.History)
		})
	})
}
