package services

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/debatehub/debate-arena/brackets"
	"github.com/debatehub/debate-arena/models"
)

func newTestRoomService(t *testing.T) *RoomService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRoomService(brackets.NewHub(), logger)
}

func TestCreateAndJoinRoom(t *testing.T) {
	svc := newTestRoomService(t)

	room, err := svc.Create("Evening Practice", "british_parliamentary", 4, "advanced", "Alice")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if len(room.Code) != 6 {
		t.Fatalf("expected 6-char room code, got %q", room.Code)
	}
	if len(room.Participants) != 1 || room.Participants[0].Role != models.RoomRoleHost {
		t.Fatalf("creator must be the host: %+v", room.Participants)
	}
	if room.Status != models.RoomStatusWaiting {
		t.Fatalf("new room should be waiting, got %s", room.Status)
	}

	joined, err := svc.Join(room.Code, "Bob")
	if err != nil {
		t.Fatalf("join room: %v", err)
	}
	if len(joined.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(joined.Participants))
	}
	if joined.Participants[1].Role != models.RoomRoleParticipant {
		t.Fatalf("joiner must be a plain participant, got %s", joined.Participants[1].Role)
	}
}

func TestJoinRejectsDuplicateNameAndFullRoom(t *testing.T) {
	svc := newTestRoomService(t)

	room, err := svc.Create("Duo Room", "policy", 2, "beginner", "Alice")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	if _, err := svc.Join(room.Code, "alice"); !errors.Is(err, ErrRoomNameTaken) {
		t.Fatalf("expected ErrRoomNameTaken for case-insensitive duplicate, got %v", err)
	}
	if _, err := svc.Join(room.Code, "Bob"); err != nil {
		t.Fatalf("second seat should be free: %v", err)
	}
	if _, err := svc.Join(room.Code, "Cara"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	status, err := svc.Get(room.Code)
	if err != nil {
		t.Fatalf("get room: %v", err)
	}
	if status.Status != models.RoomStatusFull {
		t.Fatalf("expected full status, got %s", status.Status)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	svc := newTestRoomService(t)
	if _, err := svc.Join("ZZZZZZ", "Alice"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestChatAndNotes(t *testing.T) {
	svc := newTestRoomService(t)
	room, _ := svc.Create("Chat Room", "policy", 4, "beginner", "Alice")

	if _, err := svc.PostChatMessage(room.Code, "Alice", "hello"); err != nil {
		t.Fatalf("post chat: %v", err)
	}
	if _, err := svc.PostChatMessage(room.Code, "", "hello"); err == nil {
		t.Fatal("empty sender must be rejected")
	}

	if err := svc.UpdateNotes(room.Code, "Case outline", "Alice"); err != nil {
		t.Fatalf("update notes: %v", err)
	}
	notes, err := svc.Notes(room.Code)
	if err != nil || notes != "Case outline" {
		t.Fatalf("expected stored notes, got %q (%v)", notes, err)
	}

	messages, err := svc.ChatMessages(room.Code)
	if err != nil {
		t.Fatalf("get chat: %v", err)
	}
	// A note edit appends a system message after the chat message.
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[1].Type != "system" {
		t.Fatalf("note update must append a system message, got %q", messages[1].Type)
	}
}

func TestStartDebateRequiresMotion(t *testing.T) {
	svc := newTestRoomService(t)
	room, _ := svc.Create("Debate Room", "policy", 4, "beginner", "Alice")

	if _, err := svc.StartDebate(room.Code, "  "); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected validation error for blank motion, got %v", err)
	}

	started, err := svc.StartDebate(room.Code, "This house would ban homework")
	if err != nil {
		t.Fatalf("start debate: %v", err)
	}
	if started.Status != models.RoomStatusInProgress || !started.DebateStarted {
		t.Fatalf("expected in_progress room, got %+v", started)
	}
	if started.CurrentMotion == nil || *started.CurrentMotion == "" {
		t.Fatal("motion must be recorded")
	}
}

func TestTimerTransitions(t *testing.T) {
	svc := newTestRoomService(t)
	room, _ := svc.Create("Timer Room", "policy", 4, "beginner", "Alice")

	state, err := svc.ControlTimer(room.Code, TimerStart, "Alice", 0)
	if err != nil {
		t.Fatalf("start timer: %v", err)
	}
	if !state.IsRunning || state.TimeRemaining != defaultTimerDuration {
		t.Fatalf("start with zero duration should default to %ds: %+v", defaultTimerDuration, state)
	}
	if state.CurrentSpeaker == nil || *state.CurrentSpeaker != "Alice" {
		t.Fatalf("expected speaker Alice, got %+v", state.CurrentSpeaker)
	}

	state, _ = svc.ControlTimer(room.Code, TimerPause, "", 0)
	if state.IsRunning {
		t.Fatal("pause must stop the clock")
	}
	if state.TimeRemaining == 0 {
		t.Fatal("pause must keep remaining time")
	}

	state, _ = svc.ControlTimer(room.Code, TimerStop, "", 0)
	if state.IsRunning || state.TimeRemaining != 0 {
		t.Fatalf("stop must zero the clock: %+v", state)
	}

	state, _ = svc.ControlTimer(room.Code, TimerReset, "", 0)
	if state.CurrentSpeaker != nil || state.IsRunning || state.TimeRemaining != 0 {
		t.Fatalf("reset must clear the timer: %+v", state)
	}

	if _, err := svc.ControlTimer(room.Code, TimerAction("rewind"), "", 0); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("unknown action must fail validation, got %v", err)
	}
}

func TestRoomExpiry(t *testing.T) {
	svc := newTestRoomService(t)

	now := time.Now()
	svc.now = func() time.Time { return now }
	room, _ := svc.Create("Old Room", "policy", 4, "beginner", "Alice")

	svc.now = func() time.Time { return now.Add(roomTTL + time.Minute) }

	if len(svc.ListActive()) != 0 {
		t.Fatal("expired room must not be listed")
	}
	if _, err := svc.Get(room.Code); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expired room must read as not found, got %v", err)
	}
	if removed := svc.SweepExpired(); removed != 1 {
		t.Fatalf("sweep should remove 1 room, removed %d", removed)
	}
}
