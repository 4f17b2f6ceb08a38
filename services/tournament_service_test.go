package services

import (
	"errors"
	"testing"

	"github.com/debatehub/debate-arena/models"
)

func TestAdmissionRejectsOverCapacity(t *testing.T) {
	open := &models.Tournament{
		Status:          models.StatusRegistration,
		MaxParticipants: 2,
	}

	if err := admissionError(open, 1); err != nil {
		t.Fatalf("join taking the last seat must be admitted, got %v", err)
	}

	// Filling a tournament does not start it, so the next join must see the
	// full roster and fail on capacity, not on a closed registration.
	if err := admissionError(open, 2); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded for a full open tournament, got %v", err)
	}
}

func TestAdmissionRejectsClosedRegistration(t *testing.T) {
	for _, status := range []models.TournamentStatus{models.StatusActive, models.StatusCompleted} {
		started := &models.Tournament{Status: status, MaxParticipants: 8}
		if err := admissionError(started, 1); !errors.Is(err, ErrRegistrationClosed) {
			t.Fatalf("status %s: expected ErrRegistrationClosed, got %v", status, err)
		}
	}
}
