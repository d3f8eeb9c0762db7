package slot

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	dto "slot_backend/internal/api/dto/slot"
	"slot_backend/internal/converter"
	"slot_backend/internal/middleware"
	"slot_backend/internal/model"
	"slot_backend/internal/service"
	"slot_backend/pkg/req"
	"slot_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.SlotService
	Log  *zap.Logger
}

type Handler struct {
	serv service.SlotService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Spin - платный спин
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "player id required")
		return
	}
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.serv.Spin(r.Context(), converter.ToSpinRequest(playerID, payload))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}

// FreeSpin - следующий спин активной бонусной сессии
func (h *Handler) FreeSpin(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "player id required")
		return
	}
	payload, err := req.Decode[dto.FreeSpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.serv.FreeSpin(r.Context(), playerID, payload.SessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToFreeSpinResponse(*result))
}

// State - баланс, коммит сида и активная сессия. ?currency= необязателен.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "player id required")
		return
	}

	state, err := h.serv.State(r.Context(), playerID, r.URL.Query().Get("currency"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(*state))
}

// Verify - публичная проверка спина по раскрытому сиду
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.VerifyRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.serv.Verify(r.Context(), converter.ToVerifyRequest(payload))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToVerifyResponse(*result))
}

func (h *Handler) Paytable(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPaytableResponse(h.serv.Paytable()))
}

// RotateSeed раскрывает текущий серверный сид и выдает коммит нового
func (h *Handler) RotateSeed(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "player id required")
		return
	}
	var payload dto.RotateSeedRequest
	if r.ContentLength != 0 {
		var err error
		if payload, err = req.Decode[dto.RotateSeedRequest](r.Body); err != nil && !errors.Is(err, req.ErrEmptyBody) {
			resp.WriteError(w, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}
	}

	rot, err := h.serv.RotateSeed(r.Context(), playerID, payload.ClientSeed)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToRotateSeedResponse(*rot))
}

// History - последние раунды, ?limit= (по умолчанию 20, максимум 100)
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.PlayerIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "player id required")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			resp.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	rounds, err := h.serv.History(r.Context(), playerID, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(rounds))
}

func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.serv.Stats()))
}

// writeServiceError переводит ошибки сервиса в HTTP статусы. Текст внутренних ошибок наружу не уходит.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case model.IsValidation(err):
		resp.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrSeedNotFound):
		resp.WriteError(w, http.StatusNotFound, err.Error())
	case model.IsConflict(err):
		resp.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrInsufficientFunds), errors.Is(err, model.ErrWalletNotFound):
		resp.WriteError(w, http.StatusPaymentRequired, err.Error())
	default:
		h.log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		resp.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
