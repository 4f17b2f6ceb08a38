package services

import "errors"

var (
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrValidationFailed     = errors.New("validation failed")
	ErrCapacityExceeded     = errors.New("tournament is full")
	ErrRegistrationClosed   = errors.New("registration is closed")
	ErrDuplicateParticipant = errors.New("participant already registered")
	ErrInsufficientEntrants = errors.New("not enough participants to start")
	ErrAlreadyStarted       = errors.New("tournament has already started")
	ErrTournamentNotActive  = errors.New("tournament is not active")
	ErrMatchNotReady        = errors.New("match is not ready for a result")
	ErrMatchAlreadyScored   = errors.New("match already has a result")
	ErrWinnerNotInMatch     = errors.New("winner is not a participant of the match")

	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrRoomNameTaken = errors.New("name already taken in this room")
)
