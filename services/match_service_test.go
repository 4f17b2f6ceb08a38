package services

import (
	"errors"
	"testing"
	"time"

	"github.com/debatehub/debate-arena/brackets"
	"github.com/debatehub/debate-arena/models"
)

func rrMatch(id string, p1, p2 string, winner string, s1, s2 int) models.Match {
	at := time.Now()
	return models.Match{
		ID:          id,
		Round:       1,
		Slot1:       &p1,
		Slot2:       &p2,
		Status:      models.MatchStatusCompleted,
		Winner:      &winner,
		Scores:      &models.MatchScores{Participant1: s1, Participant2: s2},
		CompletedAt: &at,
	}
}

func TestRoundRobinChampionIsPointsLeader(t *testing.T) {
	// Alice and Bob both win once; Bob has more total points.
	participants := testParticipants("Alice", "Bob", "Cara")
	rounds := []models.Round{{
		Number: 1,
		Name:   "Round Robin",
		Matches: []models.Match{
			rrMatch("rr_m1", "Alice", "Cara", "Alice", 70, 50),
			rrMatch("rr_m2", "Bob", "Cara", "Bob", 85, 55),
			rrMatch("rr_m3", "Alice", "Bob", "Bob", 60, 62),
		},
	}}

	if champion := roundRobinChampion(participants, rounds); champion != "Bob" {
		t.Fatalf("expected Bob as points leader, got %q", champion)
	}
}

func TestRoundRobinChampionTieBreaksByJoinTime(t *testing.T) {
	// testParticipants joins in argument order a minute apart, so on equal
	// points and wins the champion must match the leaderboard's rank 1:
	// Zoe, who joined before Amy, despite Amy sorting first by name.
	participants := testParticipants("Zoe", "Amy")
	rounds := []models.Round{{
		Number: 1,
		Matches: []models.Match{
			rrMatch("rr_m1", "Zoe", "Amy", "Zoe", 70, 70),
			rrMatch("rr_m2", "Amy", "Zoe", "Amy", 70, 70),
		},
	}}

	champion := roundRobinChampion(participants, rounds)
	if champion != "Zoe" {
		t.Fatalf("expected Zoe on the earlier-join tie-break, got %q", champion)
	}

	board := BuildEntries(participants, []*models.Match{
		&rounds[0].Matches[0], &rounds[0].Matches[1],
	})
	RankEntries(board, SortByPoints)
	if board[0].Name != champion {
		t.Fatalf("champion %q disagrees with leaderboard rank 1 %q", champion, board[0].Name)
	}
}

func TestRoundRobinChampionTieBreaksByName(t *testing.T) {
	// Identical join times leave the case-insensitive name as the last step.
	joined := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	participants := []*models.Participant{
		{Name: "Zoe", JoinedAt: joined},
		{Name: "Amy", JoinedAt: joined},
	}
	rounds := []models.Round{{
		Number: 1,
		Matches: []models.Match{
			rrMatch("rr_m1", "Zoe", "Amy", "Zoe", 70, 70),
			rrMatch("rr_m2", "Amy", "Zoe", "Amy", 70, 70),
		},
	}}

	if champion := roundRobinChampion(participants, rounds); champion != "Amy" {
		t.Fatalf("expected Amy on the name tie-break, got %q", champion)
	}
}

func TestCurrentRoundTracksLowestUnfinished(t *testing.T) {
	pending := models.Match{ID: "r2_m1", Round: 2, Status: models.MatchStatusPending}
	rounds := []models.Round{
		{Number: 1, Matches: []models.Match{rrMatch("r1_m1", "A", "B", "A", 70, 60)}},
		{Number: 2, Matches: []models.Match{pending}},
	}

	if got := currentRound(rounds); got != 2 {
		t.Fatalf("expected current round 2, got %d", got)
	}

	rounds[1].Matches[0] = rrMatch("r2_m1", "A", "C", "A", 70, 60)
	if got := currentRound(rounds); got != 2 {
		t.Fatalf("fully completed bracket reports the last round, got %d", got)
	}
}

func TestMapResultError(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{brackets.ErrMatchCompleted, ErrMatchAlreadyScored},
		{brackets.ErrSlotsUnresolved, ErrMatchNotReady},
		{brackets.ErrByeMatchNotRecordable, ErrMatchNotReady},
		{brackets.ErrWinnerNotInMatch, ErrWinnerNotInMatch},
	}
	for _, tc := range cases {
		if got := mapResultError(tc.in); !errors.Is(got, tc.want) {
			t.Fatalf("mapResultError(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
