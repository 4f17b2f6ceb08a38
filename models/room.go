package models

import "time"

// RoomStatus is derived from occupancy and debate state.
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusFull       RoomStatus = "full"
	RoomStatusInProgress RoomStatus = "in_progress"
)

const (
	RoomRoleHost        = "host"
	RoomRoleParticipant = "participant"
)

// RoomMember is one person inside a practice room.
type RoomMember struct {
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ChatMessage is a chat or system message inside a practice room.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Type      string    `json:"type"` // "chat" or "system"
	Timestamp time.Time `json:"timestamp"`
}

// TimerState tracks the speech clock shared by a room.
type TimerState struct {
	CurrentSpeaker *string    `json:"current_speaker"`
	TimeRemaining  int        `json:"time_remaining"`
	IsRunning      bool       `json:"is_running"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
}

// PracticeRoom is a multi-user practice session. Rooms are ephemeral: they
// live in process memory and expire four hours after creation.
type PracticeRoom struct {
	Code            string        `json:"code"`
	Name            string        `json:"name"`
	DebateFormat    string        `json:"format"`
	MaxParticipants int           `json:"max_participants"`
	SkillLevel      string        `json:"skill_level"`
	Creator         string        `json:"creator"`
	Participants    []RoomMember  `json:"participants"`
	Status          RoomStatus    `json:"status"`
	DebateStarted   bool          `json:"debate_started"`
	CurrentMotion   *string       `json:"current_motion"`
	ChatMessages    []ChatMessage `json:"chat_messages"`
	SharedNotes     string        `json:"shared_notes"`
	Timer           TimerState    `json:"timer_state"`
	CreatedAt       time.Time     `json:"created_at"`
}
