package services

import (
	"strings"
	"testing"
	"time"

	"github.com/debatehub/debate-arena/models"
)

func TestGenerateCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := generateCode(tournamentCodeLength)
		if len(code) != tournamentCodeLength {
			t.Fatalf("expected %d chars, got %q", tournamentCodeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
		seen[code] = true
	}
	// 100 draws from 36^8 colliding down to a handful would mean a broken generator.
	if len(seen) < 90 {
		t.Fatalf("suspiciously many collisions: %d distinct codes out of 100", len(seen))
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		if got := timeAgo(tc.at, now); got != tc.want {
			t.Fatalf("timeAgo(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestCanJoin(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &models.Tournament{
		Status:               models.StatusRegistration,
		MaxParticipants:      8,
		RegistrationDeadline: &future,
	}
	if !canJoin(open, 3, now) {
		t.Fatal("expected joinable tournament")
	}
	if canJoin(open, open.MaxParticipants, now) {
		t.Fatal("full tournament must not be joinable")
	}

	expired := &models.Tournament{
		Status:               models.StatusRegistration,
		MaxParticipants:      8,
		RegistrationDeadline: &past,
	}
	if canJoin(expired, 0, now) {
		t.Fatal("past-deadline tournament must not be joinable")
	}

	active := &models.Tournament{Status: models.StatusActive, MaxParticipants: 8}
	if canJoin(active, 0, now) {
		t.Fatal("active tournament must not be joinable")
	}
}
