package handlers

import (
	"net/http"

	"github.com/debatehub/debate-arena/middleware"
	"github.com/debatehub/debate-arena/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	dashboardService  services.DashboardService
}

func NewTournamentHandler(ts services.TournamentService, ds services.DashboardService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
		dashboardService:  ds,
	}
}

// CreateHandler handles POST /tournament/create.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if profile, ok := middleware.ProfileFromContext(r.Context()); ok {
		input.CreatorName = profile.Name
		input.CreatorSkillLevel = profile.SkillLevel
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusCreated, jsonResponse{"tournament": tournament})
}

// DataHandler handles GET /tournament/data, the dashboard aggregate.
func (h *TournamentHandler) DataHandler(w http.ResponseWriter, r *http.Request) {
	currentUser := ""
	if profile, ok := middleware.ProfileFromContext(r.Context()); ok {
		currentUser = profile.Name
	}

	data, err := h.dashboardService.Data(r.Context(), currentUser)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"data": data})
}

type joinTournamentRequest struct {
	TournamentID    string `json:"tournament_id"`
	ParticipantName string `json:"participant_name"`
	SkillLevel      string `json:"skill_level"`
}

// JoinHandler handles POST /tournament/join.
func (h *TournamentHandler) JoinHandler(w http.ResponseWriter, r *http.Request) {
	var req joinTournamentRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	result, err := h.tournamentService.Join(r.Context(), req.TournamentID, req.ParticipantName, req.SkillLevel)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{
		"participant": result.Participant,
		"tournament":  result.Tournament,
	})
}

// StartHandler handles POST /tournament/{tournamentID}/start.
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	tournament, err := h.tournamentService.Start(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"tournament": tournament})
}

// BracketHandler handles GET /tournament/{tournamentID}/bracket.
func (h *TournamentHandler) BracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	tournament, err := h.tournamentService.Get(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{
		"tournament": tournament,
		"rounds":     tournament.Rounds,
	})
}
