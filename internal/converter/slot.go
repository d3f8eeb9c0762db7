package converter

import (
	"github.com/google/uuid"

	dto "slot_backend/internal/api/dto/slot"
	"slot_backend/internal/engine"
	"slot_backend/internal/model"
)

func ToSpinRequest(playerID int64, req dto.SpinRequest) model.SpinRequest {
	return model.SpinRequest{
		PlayerID: playerID,
		Bet:      req.Bet,
		Ante:     req.Ante,
		Currency: req.Currency,
	}
}

func ToVerifyRequest(req dto.VerifyRequest) model.VerifyRequest {
	return model.VerifyRequest{
		ServerSeed:   req.ServerSeed,
		ClientSeed:   req.ClientSeed,
		Nonce:        req.Nonce,
		Ante:         req.Ante,
		ExpectedHash: req.ServerSeedHash,
	}
}

func toGrid(g engine.Grid) [][]dto.Cell {
	rows := make([][]dto.Cell, engine.Rows)
	for row := range rows {
		rows[row] = make([]dto.Cell, engine.Columns)
		for col := range rows[row] {
			c := g[engine.Position(row, col)]
			rows[row][col] = dto.Cell{Symbol: c.Symbol.String(), Multiplier: c.Multiplier}
		}
	}
	return rows
}

func toOrbHits(hits []engine.OrbHit) []dto.OrbHit {
	if len(hits) == 0 {
		return nil
	}
	out := make([]dto.OrbHit, len(hits))
	for i, h := range hits {
		out[i] = dto.OrbHit{Position: h.Position, Value: h.Value}
	}
	return out
}

func toClusterWins(wins []engine.ClusterWin) []dto.ClusterWin {
	out := make([]dto.ClusterWin, len(wins))
	for i, w := range wins {
		out[i] = dto.ClusterWin{
			Symbol:    w.Symbol.String(),
			Count:     w.Count,
			Positions: w.Positions,
			Payout:    w.Payout,
		}
	}
	return out
}

func ToOutcome(o engine.SpinOutcome) dto.Outcome {
	steps := make([]dto.TumbleStep, len(o.Steps))
	for i, st := range o.Steps {
		steps[i] = dto.TumbleStep{
			Grid:        toGrid(st.Grid),
			Wins:        toClusterWins(st.Wins),
			Removed:     st.Removed,
			Multipliers: toOrbHits(st.Multipliers),
		}
	}
	return dto.Outcome{
		InitialGrid:      toGrid(o.InitialGrid),
		Steps:            steps,
		FinalGrid:        toGrid(o.FinalGrid),
		TotalWin:         o.TotalWin,
		IsWin:            o.IsWin(),
		ScatterCount:     o.ScatterCount,
		Multipliers:      o.Multipliers,
		FreeSpinsAwarded: o.FreeSpinsAwarded,
	}
}

// ToSession - серверный сид сессии наружу не отдается
func ToSession(s *model.FreeSpinSession) *dto.Session {
	if s == nil {
		return nil
	}
	return &dto.Session{
		SessionID:            s.ID.String(),
		Bet:                  s.Bet,
		Currency:             s.Currency,
		Ante:                 s.Ante,
		SpinsRemaining:       s.SpinsRemaining,
		TotalSpins:           s.TotalSpins,
		CumulativeMultiplier: s.CumulativeMultiplier,
		TotalWin:             s.TotalWin,
		ServerSeedHash:       s.ServerSeedHash,
		NextNonce:            s.NonceCursor,
	}
}

func ToSpinResponse(res model.SpinResult) dto.SpinResponse {
	return dto.SpinResponse{
		RoundID:        res.RoundID.String(),
		Outcome:        ToOutcome(res.Outcome),
		Bet:            res.Bet,
		Stake:          res.Stake,
		Win:            res.Win,
		Currency:       res.Currency,
		Balance:        res.Balance,
		ServerSeedHash: res.ServerSeedHash,
		ClientSeed:     res.ClientSeed,
		Nonce:          res.Nonce,
		Ante:           res.Ante,
		Session:        ToSession(res.Session),
	}
}

func ToFreeSpinResponse(res model.FreeSpinResult) dto.FreeSpinResponse {
	return dto.FreeSpinResponse{
		RoundID:              res.RoundID.String(),
		SessionID:            res.SessionID.String(),
		Outcome:              ToOutcome(res.Outcome),
		Nonce:                res.Nonce,
		Factor:               res.Factor,
		Win:                  res.Win,
		TotalWin:             res.TotalWin,
		Currency:             res.Currency,
		SpinsRemaining:       res.SpinsRemaining,
		TotalSpins:           res.TotalSpins,
		CumulativeMultiplier: res.CumulativeMultiplier,
		Retriggered:          res.Retriggered,
		MaxWinReached:        res.MaxWinReached,
		Finished:             res.Finished,
		Balance:              res.Balance,
		ServerSeedHash:       res.ServerSeedHash,
		ClientSeed:           res.ClientSeed,
	}
}

func ToStateResponse(st model.PlayerState) dto.StateResponse {
	return dto.StateResponse{
		PlayerID:       st.PlayerID,
		Balance:        st.Wallet.Balance,
		Currency:       st.Wallet.Currency,
		ServerSeedHash: st.ServerSeedHash,
		ClientSeed:     st.ClientSeed,
		Nonce:          st.Nonce,
		Session:        ToSession(st.Session),
	}
}

func ToVerifyResponse(res model.VerifyResult) dto.VerifyResponse {
	return dto.VerifyResponse{
		ServerSeedHash: res.ServerSeedHash,
		HashChecked:    res.HashChecked,
		HashMatches:    res.HashMatches,
		Outcome:        ToOutcome(res.Outcome),
	}
}

// ToRotateSeedResponse - единственное место, где серверный сид уходит клиенту
func ToRotateSeedResponse(rot model.SeedRotation) dto.RotateSeedResponse {
	out := dto.RotateSeedResponse{
		Revealed: dto.RevealedSeed{
			ServerSeed:     rot.Revealed.ServerSeed,
			ServerSeedHash: rot.Revealed.ServerSeedHash,
			ClientSeed:     rot.Revealed.ClientSeed,
			FinalNonce:     rot.Revealed.Nonce,
		},
		Next: dto.CommittedSeed{
			ServerSeedHash: rot.Next.ServerSeedHash,
			ClientSeed:     rot.Next.ClientSeed,
			Nonce:          rot.Next.Nonce,
		},
	}
	if rot.Revealed.RevealedAt != nil {
		out.Revealed.RevealedAt = *rot.Revealed.RevealedAt
	}
	return out
}

func ToPaytableResponse(pt model.Paytable) dto.PaytableResponse {
	symbols := make([]dto.PaytableEntry, len(pt.Entries))
	for i, e := range pt.Entries {
		brackets := make([]dto.Bracket, len(e.Brackets))
		for j, b := range e.Brackets {
			brackets[j] = dto.Bracket{Count: b.Count, Payout: b.Payout}
		}
		symbols[i] = dto.PaytableEntry{Symbol: e.Symbol.String(), Brackets: brackets}
	}
	return dto.PaytableResponse{
		Columns:              pt.Columns,
		Rows:                 pt.Rows,
		MinCluster:           pt.MinCluster,
		Symbols:              symbols,
		OrbValues:            pt.OrbValues,
		ScattersForFreeSpins: pt.ScattersForFreeSpins,
		FreeSpinsCount:       pt.FreeSpinsCount,
		RetriggerSpins:       pt.RetriggerSpins,
		MultiplierStep:       pt.MultiplierStep,
		MultiplierCap:        pt.MultiplierCap,
		MaxWinMultiplier:     pt.MaxWinMultiplier,
		MinBet:               pt.MinBet,
		MaxBet:               pt.MaxBet,
		AnteFactor:           pt.AnteFactor,
		Currency:             pt.Currency,
	}
}

func ToHistoryResponse(rounds []model.Round) dto.HistoryResponse {
	out := make([]dto.Round, len(rounds))
	for i, rd := range rounds {
		out[i] = dto.Round{
			RoundID:        rd.ID.String(),
			Kind:           string(rd.Kind),
			Bet:            rd.Bet,
			Stake:          rd.Stake,
			Win:            rd.Win,
			Currency:       rd.Currency,
			ServerSeedHash: rd.ServerSeedHash,
			ClientSeed:     rd.ClientSeed,
			Nonce:          rd.Nonce,
			Ante:           rd.Ante,
			Outcome:        ToOutcome(rd.Outcome),
			CreatedAt:      rd.CreatedAt,
		}
		if rd.SessionID != uuid.Nil {
			out[i].SessionID = rd.SessionID.String()
		}
	}
	return dto.HistoryResponse{Rounds: out}
}

func ToStatsResponse(s model.GameStats) dto.StatsResponse {
	alerts := make([]dto.DriftAlert, len(s.Alerts))
	for i, a := range s.Alerts {
		alerts[i] = dto.DriftAlert{Timestamp: a.Timestamp, WindowRTP: a.WindowRTP, Direction: a.Direction}
	}
	return dto.StatsResponse{
		TotalSpins:  s.TotalSpins,
		BaseSpins:   s.BaseSpins,
		FreeSpins:   s.FreeSpins,
		TotalStake:  s.TotalStake,
		TotalPayout: s.TotalPayout,
		CurrentRTP:  s.CurrentRTP,
		TargetRTP:   s.TargetRTP,
		WindowSize:  s.WindowSize,
		WindowRTP:   s.WindowRTP,
		DriftAlert:  s.DriftAlert,
		Alerts:      alerts,
	}
}
