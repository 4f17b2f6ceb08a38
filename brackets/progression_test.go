package brackets

import (
	"context"
	"errors"
	"testing"

	"github.com/debatehub/debate-arena/models"
)

func mustGenerate(t *testing.T, n int) []models.Round {
	t.Helper()
	gen := NewSingleEliminationGenerator()
	rounds, err := gen.GenerateRounds(context.Background(), testParams(t, n, models.BracketSingleElimination))
	if err != nil {
		t.Fatal(err)
	}
	return rounds
}

func recordWin(t *testing.T, m *models.Match, winner string) {
	t.Helper()
	if err := ApplyResult(m, winner, 80, 70, "This house believes testing is essential"); err != nil {
		t.Fatalf("recording %s as winner of %s: %v", winner, m.ID, err)
	}
}

// Three-participant walkthrough: round 1 is (A vs B) and (C vs BYE) with C
// advancing automatically, round 2 pairs the round 1 winner against C.
func TestThreeParticipantProgression(t *testing.T) {
	rounds := mustGenerate(t, 3)

	r1 := rounds[0].Matches
	if *r1[0].Slot1 != "Debater A" || *r1[0].Slot2 != "Debater B" {
		t.Fatalf("round 1 match 1 should be A vs B, got %v vs %v", *r1[0].Slot1, *r1[0].Slot2)
	}
	if *r1[1].Slot1 != "Debater C" || !r1[1].IsBye() {
		t.Fatal("round 1 match 2 should be C vs BYE")
	}

	recordWin(t, &rounds[0].Matches[0], "Debater A")
	changed, champion := AdvanceRounds(rounds)
	if champion != nil {
		t.Fatalf("champion decided too early: %s", *champion)
	}
	if len(changed) != 1 {
		t.Fatalf("expected 1 match filled by advancement, got %d", len(changed))
	}

	final := rounds[1].Matches[0]
	if final.Slot1 == nil || final.Slot2 == nil {
		t.Fatal("final slots not filled after round 1 completed")
	}
	if *final.Slot1 != "Debater A" || *final.Slot2 != "Debater C" {
		t.Fatalf("final should be A vs C, got %s vs %s", *final.Slot1, *final.Slot2)
	}
	if final.Status != models.MatchStatusPending {
		t.Fatalf("final should be pending, got %s", final.Status)
	}

	recordWin(t, &rounds[1].Matches[0], "Debater A")
	_, champion = AdvanceRounds(rounds)
	if champion == nil || *champion != "Debater A" {
		t.Fatalf("expected champion Debater A, got %v", champion)
	}
}

func TestInvalidResultLeavesMatchUntouched(t *testing.T) {
	rounds := mustGenerate(t, 4)
	match := &rounds[0].Matches[0]

	err := ApplyResult(match, "Debater Z", 80, 70, "")
	if !errors.Is(err, ErrWinnerNotInMatch) {
		t.Fatalf("expected ErrWinnerNotInMatch, got %v", err)
	}
	if match.Status != models.MatchStatusPending || match.Winner != nil || match.Scores != nil {
		t.Fatalf("rejected result must not change the match: %+v", match)
	}

	if err := ApplyResult(match, models.ByeSlot, 80, 70, ""); !errors.Is(err, ErrWinnerNotInMatch) {
		t.Fatalf("BYE must never be accepted as winner, got %v", err)
	}
}

func TestCompletedMatchIsWriteOnce(t *testing.T) {
	rounds := mustGenerate(t, 2)
	match := &rounds[0].Matches[0]
	recordWin(t, match, "Debater A")

	err := ApplyResult(match, "Debater B", 90, 60, "")
	if !errors.Is(err, ErrMatchCompleted) {
		t.Fatalf("expected ErrMatchCompleted, got %v", err)
	}
	if *match.Winner != "Debater A" || match.Scores.Participant1 != 80 {
		t.Fatal("second result must not overwrite the first")
	}
}

func TestWaitingMatchRejectsResult(t *testing.T) {
	rounds := mustGenerate(t, 4)
	err := ApplyResult(&rounds[1].Matches[0], "Debater A", 80, 70, "")
	if !errors.Is(err, ErrSlotsUnresolved) {
		t.Fatalf("expected ErrSlotsUnresolved for unresolved final, got %v", err)
	}
}

func TestAdvanceIsIdempotent(t *testing.T) {
	rounds := mustGenerate(t, 4)
	recordWin(t, &rounds[0].Matches[0], "Debater A")
	recordWin(t, &rounds[0].Matches[1], "Debater C")

	changed, _ := AdvanceRounds(rounds)
	if len(changed) != 1 {
		t.Fatalf("first advancement should fill the final, changed %d", len(changed))
	}
	changed, champion := AdvanceRounds(rounds)
	if len(changed) != 0 || champion != nil {
		t.Fatalf("second advancement must be a no-op, changed %d matches", len(changed))
	}
}

// A completed bracket leaves exactly one undefeated participant.
func TestChampionIsOnlyUndefeated(t *testing.T) {
	rounds := mustGenerate(t, 6)

	for {
		pending := false
		for r := range rounds {
			for m := range rounds[r].Matches {
				match := &rounds[r].Matches[m]
				if match.Status == models.MatchStatusPending || match.Status == models.MatchStatusActive {
					recordWin(t, match, *match.Slot1)
					pending = true
				}
			}
		}
		if _, champion := AdvanceRounds(rounds); champion != nil {
			losers := make(map[string]bool)
			for r := range rounds {
				for _, m := range rounds[r].Matches {
					if m.Winner == nil || m.IsBye() {
						continue
					}
					if *m.Slot1 != *m.Winner {
						losers[*m.Slot1] = true
					}
					if *m.Slot2 != *m.Winner {
						losers[*m.Slot2] = true
					}
				}
			}
			if losers[*champion] {
				t.Fatalf("champion %s has a recorded loss", *champion)
			}
			for i := 0; i < 6; i++ {
				name := string(rune('A' + i))
				full := "Debater " + name
				if full != *champion && !losers[full] {
					t.Fatalf("%s never lost but is not champion", full)
				}
			}
			return
		}
		if !pending {
			t.Fatal("bracket stuck: no pending matches and no champion")
		}
	}
}

func TestRoundRobinPairCoverage(t *testing.T) {
	gen := NewRoundRobinGenerator()
	rounds, err := gen.GenerateRounds(context.Background(), testParams(t, 5, models.BracketRoundRobin))
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != 1 {
		t.Fatalf("round robin should produce one round, got %d", len(rounds))
	}

	matches := rounds[0].Matches
	if len(matches) != 10 {
		t.Fatalf("5 participants should yield 10 matches, got %d", len(matches))
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		if !m.SlotsResolved() {
			t.Fatalf("round robin match %s has unresolved slots", m.ID)
		}
		a, b := *m.Slot1, *m.Slot2
		if b < a {
			a, b = b, a
		}
		key := a + "|" + b
		if seen[key] {
			t.Fatalf("pair %s plays twice", key)
		}
		seen[key] = true
	}

	if AllCompleted(rounds) {
		t.Fatal("fresh round robin must not report completion")
	}
	for m := range matches {
		recordWin(t, &rounds[0].Matches[m], *rounds[0].Matches[m].Slot1)
	}
	if !AllCompleted(rounds) {
		t.Fatal("all matches recorded but completion not reported")
	}
}

func TestBuildRoundsRestoresNamesAndOrder(t *testing.T) {
	rounds := mustGenerate(t, 8)
	var flat []models.Match
	for r := len(rounds) - 1; r >= 0; r-- {
		for m := len(rounds[r].Matches) - 1; m >= 0; m-- {
			flat = append(flat, rounds[r].Matches[m])
		}
	}

	rebuilt := BuildRounds(flat, models.BracketSingleElimination, 8)
	if len(rebuilt) != len(rounds) {
		t.Fatalf("rebuilt %d rounds, want %d", len(rebuilt), len(rounds))
	}
	for r := range rounds {
		if rebuilt[r].Name != rounds[r].Name {
			t.Fatalf("round %d name mismatch: %q vs %q", r+1, rebuilt[r].Name, rounds[r].Name)
		}
		for m := range rounds[r].Matches {
			if rebuilt[r].Matches[m].ID != rounds[r].Matches[m].ID {
				t.Fatalf("round %d order mismatch at %d", r+1, m)
			}
		}
	}
}
