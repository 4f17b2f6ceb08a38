package services

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/debatehub/debate-arena/brackets"
	"github.com/debatehub/debate-arena/models"
	"github.com/google/uuid"
)

const (
	roomTTL              = 4 * time.Hour
	defaultTimerDuration = 300
	systemSender         = "System"
)

type TimerAction string

const (
	TimerStart TimerAction = "start"
	TimerPause TimerAction = "pause"
	TimerStop  TimerAction = "stop"
	TimerReset TimerAction = "reset"
)

// RoomService keeps practice rooms in process memory. Rooms are throwaway
// sessions: no persistence, expiry four hours after creation.
type RoomService struct {
	mu     sync.RWMutex
	rooms  map[string]*models.PracticeRoom
	hub    *brackets.Hub
	logger *slog.Logger

	now func() time.Time
}

func NewRoomService(hub *brackets.Hub, logger *slog.Logger) *RoomService {
	return &RoomService{
		rooms:  make(map[string]*models.PracticeRoom),
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RoomService) Create(name, format string, maxParticipants int, skillLevel, creator string) (*models.PracticeRoom, error) {
	name = strings.TrimSpace(name)
	creator = strings.TrimSpace(creator)
	if name == "" || creator == "" {
		return nil, fmt.Errorf("%w: room name and creator are required", ErrValidationFailed)
	}
	if maxParticipants < 2 {
		maxParticipants = 2
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	code := generateCode(roomCodeLength)
	for _, exists := s.rooms[code]; exists; _, exists = s.rooms[code] {
		code = generateCode(roomCodeLength)
	}

	now := s.now()
	room := &models.PracticeRoom{
		Code:            code,
		Name:            name,
		DebateFormat:    format,
		MaxParticipants: maxParticipants,
		SkillLevel:      skillLevel,
		Creator:         creator,
		Participants: []models.RoomMember{
			{Name: creator, Role: models.RoomRoleHost, JoinedAt: now},
		},
		Status:       models.RoomStatusWaiting,
		ChatMessages: []models.ChatMessage{},
		CreatedAt:    now,
	}
	s.rooms[code] = room

	s.logger.Info("practice room created",
		slog.String("room_code", code), slog.String("creator", creator))
	return snapshotRoom(room), nil
}

func (s *RoomService) Join(code, participantName string) (*models.PracticeRoom, error) {
	participantName = strings.TrimSpace(participantName)
	if participantName == "" {
		return nil, fmt.Errorf("%w: participant name is required", ErrValidationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return nil, err
	}
	if len(room.Participants) >= room.MaxParticipants {
		return nil, ErrRoomFull
	}
	for _, member := range room.Participants {
		if strings.EqualFold(member.Name, participantName) {
			return nil, ErrRoomNameTaken
		}
	}

	room.Participants = append(room.Participants, models.RoomMember{
		Name:     participantName,
		Role:     models.RoomRoleParticipant,
		JoinedAt: s.now(),
	})
	s.refreshStatus(room)
	snapshot := snapshotRoom(room)

	s.broadcast(code, snapshot)
	return snapshot, nil
}

// ListActive returns non-expired rooms, newest first.
func (s *RoomService) ListActive() []*models.PracticeRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	active := make([]*models.PracticeRoom, 0, len(s.rooms))
	for _, room := range s.rooms {
		if now.Sub(room.CreatedAt) > roomTTL {
			continue
		}
		snapshot := snapshotRoom(room)
		s.refreshStatus(snapshot)
		active = append(active, snapshot)
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	return active
}

func (s *RoomService) Get(code string) (*models.PracticeRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return nil, err
	}
	snapshot := snapshotRoom(room)
	s.refreshStatus(snapshot)
	return snapshot, nil
}

func (s *RoomService) PostChatMessage(code, sender, message string) (*models.ChatMessage, error) {
	sender = strings.TrimSpace(sender)
	message = strings.TrimSpace(message)
	if sender == "" || message == "" {
		return nil, fmt.Errorf("%w: sender and message are required", ErrValidationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return nil, err
	}
	msg := s.appendMessage(room, sender, message, "chat")

	s.broadcast(code, msg)
	return &msg, nil
}

func (s *RoomService) ChatMessages(code string) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return nil, err
	}
	messages := make([]models.ChatMessage, len(room.ChatMessages))
	copy(messages, room.ChatMessages)
	return messages, nil
}

func (s *RoomService) UpdateNotes(code, notes, editor string) error {
	if strings.TrimSpace(editor) == "" {
		editor = "Anonymous"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return err
	}
	room.SharedNotes = notes
	msg := s.appendMessage(room, systemSender, fmt.Sprintf("%s updated the shared notes", editor), "system")

	s.broadcast(code, msg)
	return nil
}

func (s *RoomService) Notes(code string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return "", err
	}
	return room.SharedNotes, nil
}

func (s *RoomService) StartDebate(code, motion string) (*models.PracticeRoom, error) {
	motion = strings.TrimSpace(motion)
	if motion == "" {
		return nil, fmt.Errorf("%w: motion is required", ErrValidationFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return nil, err
	}
	room.DebateStarted = true
	room.CurrentMotion = &motion
	room.Status = models.RoomStatusInProgress
	s.appendMessage(room, systemSender, fmt.Sprintf("Debate started! Motion: %q", motion), "system")
	snapshot := snapshotRoom(room)

	s.broadcast(code, snapshot)
	return snapshot, nil
}

// ControlTimer drives the shared speech clock. Start resets the countdown
// for the named speaker; duration falls back to five minutes.
func (s *RoomService) ControlTimer(code string, action TimerAction, speaker string, duration int) (*models.TimerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.liveRoom(code)
	if err != nil {
		return nil, err
	}

	timer := &room.Timer
	switch action {
	case TimerStart:
		if duration <= 0 {
			duration = defaultTimerDuration
		}
		now := s.now()
		timer.CurrentSpeaker = &speaker
		timer.TimeRemaining = duration
		timer.IsRunning = true
		timer.StartedAt = &now
	case TimerPause:
		timer.IsRunning = false
	case TimerStop:
		timer.IsRunning = false
		timer.TimeRemaining = 0
	case TimerReset:
		timer.CurrentSpeaker = nil
		timer.TimeRemaining = 0
		timer.IsRunning = false
		timer.StartedAt = nil
	default:
		return nil, fmt.Errorf("%w: unknown timer action %q", ErrValidationFailed, action)
	}

	state := *timer
	s.broadcast(code, state)
	return &state, nil
}

// SweepExpired drops rooms past their TTL and returns how many were removed.
// Invoked periodically by the scheduler.
func (s *RoomService) SweepExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for code, room := range s.rooms {
		if now.Sub(room.CreatedAt) > roomTTL {
			delete(s.rooms, code)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("expired practice rooms removed", slog.Int("count", removed))
	}
	return removed
}

// liveRoom must be called with the mutex held.
func (s *RoomService) liveRoom(code string) (*models.PracticeRoom, error) {
	room, ok := s.rooms[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || s.now().Sub(room.CreatedAt) > roomTTL {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomService) refreshStatus(room *models.PracticeRoom) {
	switch {
	case room.DebateStarted:
		room.Status = models.RoomStatusInProgress
	case len(room.Participants) >= room.MaxParticipants:
		room.Status = models.RoomStatusFull
	default:
		room.Status = models.RoomStatusWaiting
	}
}

func (s *RoomService) appendMessage(room *models.PracticeRoom, sender, text, msgType string) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Message:   text,
		Type:      msgType,
		Timestamp: s.now(),
	}
	room.ChatMessages = append(room.ChatMessages, msg)
	return msg
}

func (s *RoomService) broadcast(code string, payload interface{}) {
	s.hub.Broadcast(brackets.Event{
		Type:    brackets.EventRoomUpdated,
		Topic:   brackets.RoomTopic(strings.ToUpper(strings.TrimSpace(code))),
		Payload: payload,
	})
}

// snapshotRoom copies the room so callers never hold a pointer into the
// store after the mutex is released.
func snapshotRoom(room *models.PracticeRoom) *models.PracticeRoom {
	copied := *room
	copied.Participants = append([]models.RoomMember(nil), room.Participants...)
	copied.ChatMessages = append([]models.ChatMessage(nil), room.ChatMessages...)
	return &copied
}
