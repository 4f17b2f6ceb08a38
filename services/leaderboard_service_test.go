package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/debatehub/debate-arena/models"
)

func testParticipants(names ...string) []*models.Participant {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	participants := make([]*models.Participant, len(names))
	for i, name := range names {
		participants[i] = &models.Participant{
			ID:           i + 1,
			TournamentID: "TESTCODE",
			Name:         name,
			SkillLevel:   "intermediate",
			JoinedAt:     base.Add(time.Duration(i) * time.Minute),
		}
	}
	return participants
}

func completedMatch(id string, p1, p2, winner string, s1, s2 int, at time.Time) *models.Match {
	return &models.Match{
		ID:           id,
		TournamentID: "TESTCODE",
		Slot1:        &p1,
		Slot2:        &p2,
		Status:       models.MatchStatusCompleted,
		Winner:       &winner,
		Scores:       &models.MatchScores{Participant1: s1, Participant2: s2},
		CompletedAt:  &at,
	}
}

func TestBuildEntriesAggregatesStats(t *testing.T) {
	participants := testParticipants("Alice", "Bob", "Cara")
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	matches := []*models.Match{
		completedMatch("r1_m1", "Alice", "Bob", "Alice", 80, 70, now),
		completedMatch("r1_m2", "Cara", "Alice", "Alice", 60, 75, now.Add(time.Hour)),
	}

	entries := BuildEntries(participants, matches)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	byName := map[string]models.LeaderboardEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	alice := byName["Alice"]
	if alice.TotalPoints != 155 || alice.MatchesPlayed != 2 || alice.MatchesWon != 2 {
		t.Fatalf("unexpected Alice stats: %+v", alice)
	}
	if alice.WinRate != 100.0 {
		t.Fatalf("expected Alice win rate 100, got %v", alice.WinRate)
	}

	bob := byName["Bob"]
	if bob.MatchesPlayed != 1 || bob.MatchesWon != 0 || bob.TotalPoints != 70 {
		t.Fatalf("unexpected Bob stats: %+v", bob)
	}
	if bob.WinRate != 0.0 {
		t.Fatalf("expected Bob win rate 0, got %v", bob.WinRate)
	}
}

func TestBuildEntriesIgnoresByeMatches(t *testing.T) {
	participants := testParticipants("Alice")
	winner := "Alice"
	bye := models.ByeSlot
	at := time.Now()
	m := &models.Match{
		ID:          "r1_m1",
		Slot1:       &winner,
		Slot2:       &bye,
		Status:      models.MatchStatusCompleted,
		Winner:      &winner,
		CompletedAt: &at,
	}

	entries := BuildEntries(participants, []*models.Match{m})
	if entries[0].MatchesPlayed != 0 || entries[0].MatchesWon != 0 {
		t.Fatalf("bye match must not count toward stats: %+v", entries[0])
	}
}

func TestWinRateRoundsToOneDecimal(t *testing.T) {
	participants := testParticipants("Alice", "Bob")
	now := time.Now()
	matches := []*models.Match{
		completedMatch("m1", "Alice", "Bob", "Alice", 70, 60, now),
		completedMatch("m2", "Alice", "Bob", "Bob", 60, 70, now),
		completedMatch("m3", "Alice", "Bob", "Bob", 55, 72, now),
	}

	entries := BuildEntries(participants, matches)
	for _, e := range entries {
		if e.Name == "Alice" && e.WinRate != 33.3 {
			t.Fatalf("expected win rate 33.3, got %v", e.WinRate)
		}
	}
}

func TestRankEntriesSortKeys(t *testing.T) {
	participants := testParticipants("Alice", "Bob", "Cara")
	now := time.Now()
	// Bob: 1 win, 150 points. Alice: 2 wins, 140 points. Cara: 0 wins.
	matches := []*models.Match{
		completedMatch("m1", "Alice", "Cara", "Alice", 70, 50, now),
		completedMatch("m2", "Alice", "Bob", "Alice", 70, 80, now),
		completedMatch("m3", "Bob", "Cara", "Bob", 70, 40, now),
	}

	entries := BuildEntries(participants, matches)

	RankEntries(entries, SortByPoints)
	if entries[0].Name != "Bob" {
		t.Fatalf("points sort: expected Bob first with 150 points, got %s", entries[0].Name)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("ranks must be sequential, got %d %d", entries[0].Rank, entries[1].Rank)
	}

	RankEntries(entries, SortByWins)
	if entries[0].Name != "Alice" {
		t.Fatalf("wins sort: expected Alice first with 2 wins, got %s", entries[0].Name)
	}
}

func TestRankEntriesTieBreakChain(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.LeaderboardEntry{
		{Name: "Zoe", TotalPoints: 100, MatchesWon: 2, JoinedAt: base.Add(time.Minute)},
		{Name: "Amy", TotalPoints: 100, MatchesWon: 2, JoinedAt: base.Add(time.Minute)},
		{Name: "Ben", TotalPoints: 100, MatchesWon: 3, JoinedAt: base.Add(2 * time.Minute)},
		{Name: "Eve", TotalPoints: 100, MatchesWon: 2, JoinedAt: base},
	}

	RankEntries(entries, SortByPoints)

	want := []string{"Ben", "Eve", "Amy", "Zoe"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, entries[i].Name)
		}
	}
}

func TestRankEntriesIsIdempotent(t *testing.T) {
	participants := testParticipants("Alice", "Bob", "Cara", "Dan")
	now := time.Now()
	matches := []*models.Match{
		completedMatch("m1", "Alice", "Bob", "Alice", 70, 60, now),
		completedMatch("m2", "Cara", "Dan", "Dan", 50, 65, now),
		completedMatch("m3", "Alice", "Dan", "Alice", 72, 70, now),
	}

	first := BuildEntries(participants, matches)
	RankEntries(first, SortByWinRate)

	for run := 0; run < 3; run++ {
		again := BuildEntries(participants, matches)
		RankEntries(again, SortByWinRate)
		for i := range first {
			if first[i].Name != again[i].Name || first[i].Rank != again[i].Rank {
				t.Fatalf("run %d: ranking not reproducible at position %d: %s vs %s",
					run, i, first[i].Name, again[i].Name)
			}
		}
	}
}

func TestTrendClassification(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		want   models.TrendDirection
	}{
		{"improving", []int{60, 62, 61, 70, 72, 74}, models.TrendUp},
		{"declining", []int{80, 82, 81, 70, 68, 66}, models.TrendDown},
		{"flat", []int{70, 71, 70, 72, 70, 71}, models.TrendStable},
		{"too few matches", []int{90, 95}, models.TrendStable},
	}

	for _, tc := range cases {
		participants := testParticipants("Alice", "Bob")
		base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		matches := make([]*models.Match, len(tc.scores))
		for i, score := range tc.scores {
			matches[i] = completedMatch(
				fmt.Sprintf("m%d", i+1), "Alice", "Bob", "Alice",
				score, 50, base.Add(time.Duration(i)*time.Hour))
		}

		entries := BuildEntries(participants, matches)
		for _, e := range entries {
			if e.Name != "Alice" {
				continue
			}
			if e.Trend != tc.want {
				t.Fatalf("%s: expected trend %s, got %s (value %d)", tc.name, tc.want, e.Trend, e.TrendValue)
			}
		}
	}
}

func TestPodiumTakesTopThree(t *testing.T) {
	participants := testParticipants("A", "B", "C", "D", "E")
	entries := BuildEntries(participants, nil)
	RankEntries(entries, SortByPoints)

	top := podium(entries)
	if len(top) != 3 {
		t.Fatalf("expected podium of 3, got %d", len(top))
	}
	for i, e := range top {
		if e.Rank != i+1 {
			t.Fatalf("podium position %d has rank %d", i, e.Rank)
		}
	}

	pair := podium(entries[:2])
	if len(pair) != 2 {
		t.Fatalf("podium of a 2-entry board should have 2 entries, got %d", len(pair))
	}
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]SortKey{
		"points":   SortByPoints,
		"wins":     SortByWins,
		"win_rate": SortByWinRate,
		"winrate":  SortByWinRate,
		"WINRATE":  SortByWinRate,
		"":         SortByPoints,
		"bogus":    SortByPoints,
	}
	for raw, want := range cases {
		if got := ParseSortKey(raw); got != want {
			t.Fatalf("ParseSortKey(%q) = %s, want %s", raw, got, want)
		}
	}
}
