package handlers

import (
	"encoding/json"
	"net/http"

	"youbuidl/internal/points"
)

type pointsAwardRequest struct {
	DID   string `json:"did"`
	Event string `json:"event"`
}

// PointsAward credits the fixed point value for a community event to a
// profile and returns the new balance.
func (a *App) PointsAward(w http.ResponseWriter, r *http.Request) {
	var req pointsAwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, ok := points.Rules[req.Event]
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown event")
		return
	}

	balance, err := a.Points.Award(r.Context(), req.DID, amount)
	if err != nil {
		a.Logger.Error().Err(err).Str("did", req.DID).Str("event", req.Event).Msg("points award failed")
		a.error(w, http.StatusBadGateway, "upstream", "failed to award points")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"did": req.DID, "points": balance})
}
