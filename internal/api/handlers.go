package api

import (
	"encoding/json"
	"net/http"
)

type statsResponse struct {
	TotalRevenue    int `json:"total_revenue"`
	RewardPool      int `json:"reward_pool"`
	EligiblePlayers int `json:"eligible_players"`
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	l := a.engine.Ledger()
	writeJSON(w, statsResponse{
		TotalRevenue:    l.TotalRevenue(),
		RewardPool:      l.RewardPool(),
		EligiblePlayers: len(l.Players()),
	})
}

func (a *API) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{
		"players": a.engine.Ledger().Players(),
	})
}

type sessionResponse struct {
	UserID string `json:"user_id"`
	Paid   bool   `json:"paid"`
	State  string `json:"state"`
}

func (a *API) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions := a.engine.Sessions()
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{UserID: s.UserID, Paid: s.Paid, State: s.State.String()})
	}
	writeJSON(w, map[string][]sessionResponse{
		"sessions": out,
	})
}

// handleDisburse triggers a disbursement pass out of band. Responds 409 when
// the pool has not reached the threshold.
func (a *API) handleDisburse(w http.ResponseWriter, r *http.Request) {
	d, ok, err := a.engine.Disburse(r.Context())
	if err != nil {
		http.Error(w, "failed to persist disbursement", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "reward pool below threshold", http.StatusConflict)
		return
	}
	writeJSON(w, map[string]interface{}{
		"awards": d.Awards,
		"total":  d.Total,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
