package handlers

import (
	"net/http"

	"github.com/debatehub/debate-arena/middleware"
	"github.com/debatehub/debate-arena/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// GetHandler handles GET /tournament/leaderboard?sort=&tournament_id=.
// Without a tournament_id it serves the global board.
func (h *LeaderboardHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sortBy := services.ParseSortKey(query.Get("sort"))
	tournamentID := query.Get("tournament_id")

	currentUser := ""
	if profile, ok := middleware.ProfileFromContext(r.Context()); ok {
		currentUser = profile.Name
	}

	var (
		board *services.Leaderboard
		err   error
	)
	if tournamentID != "" {
		board, err = h.leaderboardService.Tournament(r.Context(), tournamentID, sortBy, currentUser)
	} else {
		board, err = h.leaderboardService.Global(r.Context(), sortBy, currentUser)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{
		"leaderboard": board.Entries,
		"podium":      board.Podium,
		"sort_by":     board.SortBy,
	})
}
