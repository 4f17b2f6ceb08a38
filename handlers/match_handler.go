package handlers

import (
	"net/http"

	"github.com/debatehub/debate-arena/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// RecordResultHandler handles POST /tournament/{tournamentID}/match/{matchID}/result.
func (h *MatchHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	matchID := chi.URLParam(r, "matchID")

	var input services.RecordResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	result, err := h.matchService.RecordResult(r.Context(), tournamentID, matchID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{
		"match":                result.Match,
		"advanced":             result.Advanced,
		"tournament_completed": result.Completed,
		"champion":             result.Champion,
	})
}
