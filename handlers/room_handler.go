package handlers

import (
	"net/http"

	"github.com/debatehub/debate-arena/services"
	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomService *services.RoomService
}

func NewRoomHandler(rs *services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: rs}
}

type createRoomRequest struct {
	RoomName        string `json:"room_name"`
	Format          string `json:"format"`
	MaxParticipants int    `json:"max_participants"`
	SkillLevel      string `json:"skill_level"`
	CreatorName     string `json:"creator_name"`
}

// CreateHandler handles POST /api/rooms/create.
func (h *RoomHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	room, err := h.roomService.Create(req.RoomName, req.Format, req.MaxParticipants, req.SkillLevel, req.CreatorName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusCreated, jsonResponse{"room": room})
}

type joinRoomRequest struct {
	RoomCode        string `json:"room_code"`
	ParticipantName string `json:"participant_name"`
}

// JoinHandler handles POST /api/rooms/join.
func (h *RoomHandler) JoinHandler(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	room, err := h.roomService.Join(req.RoomCode, req.ParticipantName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{
		"room":    room,
		"message": "Successfully joined room",
	})
}

// ListHandler handles GET /api/rooms/list.
func (h *RoomHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	successResponse(w, http.StatusOK, jsonResponse{"rooms": h.roomService.ListActive()})
}

// StatusHandler handles GET /api/rooms/{roomCode}/status.
func (h *RoomHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	room, err := h.roomService.Get(chi.URLParam(r, "roomCode"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"room": room})
}

type chatMessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// PostChatHandler handles POST /api/rooms/{roomCode}/chat.
func (h *RoomHandler) PostChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatMessageRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	msg, err := h.roomService.PostChatMessage(chi.URLParam(r, "roomCode"), req.Sender, req.Message)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"chat_message": msg})
}

// GetChatHandler handles GET /api/rooms/{roomCode}/chat.
func (h *RoomHandler) GetChatHandler(w http.ResponseWriter, r *http.Request) {
	messages, err := h.roomService.ChatMessages(chi.URLParam(r, "roomCode"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"messages": messages})
}

type updateNotesRequest struct {
	Notes  string `json:"notes"`
	Editor string `json:"editor"`
}

// UpdateNotesHandler handles POST /api/rooms/{roomCode}/notes.
func (h *RoomHandler) UpdateNotesHandler(w http.ResponseWriter, r *http.Request) {
	var req updateNotesRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.roomService.UpdateNotes(chi.URLParam(r, "roomCode"), req.Notes, req.Editor); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"message": "Notes updated successfully"})
}

// GetNotesHandler handles GET /api/rooms/{roomCode}/notes.
func (h *RoomHandler) GetNotesHandler(w http.ResponseWriter, r *http.Request) {
	notes, err := h.roomService.Notes(chi.URLParam(r, "roomCode"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"notes": notes})
}

type startDebateRequest struct {
	Motion string `json:"motion"`
}

// StartDebateHandler handles POST /api/rooms/{roomCode}/debate/start.
func (h *RoomHandler) StartDebateHandler(w http.ResponseWriter, r *http.Request) {
	var req startDebateRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	room, err := h.roomService.StartDebate(chi.URLParam(r, "roomCode"), req.Motion)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"room": room})
}

type timerRequest struct {
	Action   string `json:"action"`
	Speaker  string `json:"speaker"`
	Duration int    `json:"duration"`
}

// TimerHandler handles POST /api/rooms/{roomCode}/timer.
func (h *RoomHandler) TimerHandler(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err)
		return
	}

	state, err := h.roomService.ControlTimer(chi.URLParam(r, "roomCode"), services.TimerAction(req.Action), req.Speaker, req.Duration)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	successResponse(w, http.StatusOK, jsonResponse{"timer_state": state})
}
