package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/debatehub/debate-arena/models"
)

func testParams(t *testing.T, n int, bt models.BracketType) GenerateParams {
	t.Helper()
	tournament := &models.Tournament{ID: "TESTCODE", BracketType: bt, Status: models.StatusActive}
	participants := make([]*models.Participant, n)
	for i := range participants {
		participants[i] = &models.Participant{
			ID:           i + 1,
			TournamentID: tournament.ID,
			Name:         fmt.Sprintf("Debater %c", 'A'+i),
		}
	}
	return GenerateParams{Tournament: tournament, Participants: participants}
}

func TestFirstRoundMatchCount(t *testing.T) {
	gen := NewSingleEliminationGenerator()

	for n := 2; n <= 16; n++ {
		rounds, err := gen.GenerateRounds(context.Background(), testParams(t, n, models.BracketSingleElimination))
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}

		want := (n + 1) / 2
		if got := len(rounds[0].Matches); got != want {
			t.Fatalf("n=%d: first round has %d matches, want %d", n, got, want)
		}

		powerOfTwo := n&(n-1) == 0
		byes := 0
		for _, round := range rounds {
			for _, m := range round.Matches {
				if m.IsBye() {
					byes++
				}
			}
		}
		if powerOfTwo && byes != 0 {
			t.Fatalf("n=%d is a power of two but bracket has %d BYE slots", n, byes)
		}
		if !powerOfTwo && byes == 0 {
			t.Fatalf("n=%d is not a power of two but bracket has no BYE slots", n)
		}
	}
}

func TestByeMatchesAutoComplete(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	rounds, err := gen.GenerateRounds(context.Background(), testParams(t, 3, models.BracketSingleElimination))
	if err != nil {
		t.Fatal(err)
	}

	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds for 3 participants, got %d", len(rounds))
	}

	bye := rounds[0].Matches[1]
	if !bye.IsBye() {
		t.Fatalf("second match of round 1 should be a bye, got %+v", bye)
	}
	if bye.Status != models.MatchStatusCompleted {
		t.Fatalf("bye match should auto-complete, status = %s", bye.Status)
	}
	if bye.Winner == nil || *bye.Winner != "Debater C" {
		t.Fatalf("bye winner should be Debater C, got %v", bye.Winner)
	}
	if bye.Winner != nil && *bye.Winner == models.ByeSlot {
		t.Fatal("bye sentinel must never be recorded as winner")
	}
}

func TestLaterRoundsStartUnresolved(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	rounds, err := gen.GenerateRounds(context.Background(), testParams(t, 8, models.BracketSingleElimination))
	if err != nil {
		t.Fatal(err)
	}

	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds for 8 participants, got %d", len(rounds))
	}
	if rounds[1].Name != "Semi-Final" || rounds[2].Name != "Final" {
		t.Fatalf("unexpected round names: %q, %q", rounds[1].Name, rounds[2].Name)
	}
	for r := 1; r < len(rounds); r++ {
		if rounds[r].Status != models.MatchStatusWaiting {
			t.Fatalf("round %d should start waiting, got %s", r+1, rounds[r].Status)
		}
		for _, m := range rounds[r].Matches {
			if m.Slot1 != nil || m.Slot2 != nil {
				t.Fatalf("round %d match %s has pre-filled slots", r+1, m.ID)
			}
		}
	}
}

func TestGenerateRejectsTinyFields(t *testing.T) {
	gen := NewSingleEliminationGenerator()

	if _, err := gen.GenerateRounds(context.Background(), testParams(t, 0, models.BracketSingleElimination)); err == nil {
		t.Fatal("expected error for zero participants")
	}
	if _, err := gen.GenerateRounds(context.Background(), testParams(t, 1, models.BracketSingleElimination)); err == nil {
		t.Fatal("expected error for one participant")
	}
}
