package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/debatehub/debate-arena/models"
	"github.com/debatehub/debate-arena/repositories"
)

// Trend compares the average score of a player's three most recent matches
// against their first three, with a five point tolerance band.
const (
	trendWindow    = 3
	trendTolerance = 5.0
)

type SortKey string

const (
	SortByPoints  SortKey = "points"
	SortByWins    SortKey = "wins"
	SortByWinRate SortKey = "win_rate"
)

// ParseSortKey normalizes a sort query parameter. Some clients send
// "winrate" without the underscore, so both spellings are accepted.
// Anything unrecognized falls back to points.
func ParseSortKey(raw string) SortKey {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wins":
		return SortByWins
	case "win_rate", "winrate":
		return SortByWinRate
	default:
		return SortByPoints
	}
}

type Leaderboard struct {
	TournamentID string                    `json:"tournament_id,omitempty"`
	SortBy       SortKey                   `json:"sort_by"`
	Entries      []models.LeaderboardEntry `json:"leaderboard"`
	Podium       []models.LeaderboardEntry `json:"podium"`
}

type LeaderboardService interface {
	Tournament(ctx context.Context, tournamentID string, sortBy SortKey, currentUser string) (*Leaderboard, error)
	Global(ctx context.Context, sortBy SortKey, currentUser string) (*Leaderboard, error)
}

type leaderboardService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewLeaderboardService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) LeaderboardService {
	return &leaderboardService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

// Tournament recomputes the board for one tournament from its full match
// history. Nothing is cached: reranking is reproducible from the match
// records alone.
func (s *leaderboardService) Tournament(ctx context.Context, tournamentID string, sortBy SortKey, currentUser string) (*Leaderboard, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", tournamentID, err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants for %s: %w", tournamentID, err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", tournamentID, err)
	}

	entries := BuildEntries(participants, completedOnly(matches))
	RankEntries(entries, sortBy)
	markCurrentUser(entries, currentUser)

	return &Leaderboard{
		TournamentID: tournamentID,
		SortBy:       sortBy,
		Entries:      entries,
		Podium:       podium(entries),
	}, nil
}

// Global aggregates every participant's record across all tournaments,
// keyed by display name. Tournament participation and championship counts
// only appear on this board.
func (s *leaderboardService) Global(ctx context.Context, sortBy SortKey, currentUser string) (*Leaderboard, error) {
	participants, err := s.participantRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	matches, err := s.matchRepo.ListCompletedAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed matches: %w", err)
	}
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	entries := BuildEntries(participants, matches)

	championships := make(map[string]int)
	for i := range tournaments {
		if c := tournaments[i].Champion; c != nil {
			championships[strings.ToLower(*c)]++
		}
	}
	tournamentCounts := make(map[string]int)
	for _, p := range participants {
		tournamentCounts[strings.ToLower(p.Name)]++
	}
	for i := range entries {
		key := strings.ToLower(entries[i].Name)
		entries[i].TournamentsParticipated = tournamentCounts[key]
		entries[i].TournamentsWon = championships[key]
	}

	RankEntries(entries, sortBy)
	markCurrentUser(entries, currentUser)

	return &Leaderboard{
		SortBy:  sortBy,
		Entries: entries,
		Podium:  podium(entries),
	}, nil
}

// BuildEntries folds completed matches into one leaderboard entry per
// distinct participant name (case-insensitive). Participants who never
// played still appear with zeroed stats. Matches must be completed.
func BuildEntries(participants []*models.Participant, matches []*models.Match) []models.LeaderboardEntry {
	type accum struct {
		entry  models.LeaderboardEntry
		scores []scoredMatch
	}
	byName := make(map[string]*accum)
	order := make([]string, 0, len(participants))

	for _, p := range participants {
		key := strings.ToLower(p.Name)
		if a, ok := byName[key]; ok {
			// Same player in several tournaments keeps the earliest join time.
			if p.JoinedAt.Before(a.entry.JoinedAt) {
				a.entry.JoinedAt = p.JoinedAt
			}
			continue
		}
		byName[key] = &accum{entry: models.LeaderboardEntry{
			Name:       p.Name,
			SkillLevel: p.SkillLevel,
			JoinedAt:   p.JoinedAt,
			Trend:      models.TrendStable,
		}}
		order = append(order, key)
	}

	credit := func(name string, score int, won bool, at time.Time) {
		if name == "" || name == models.ByeSlot {
			return
		}
		a, ok := byName[strings.ToLower(name)]
		if !ok {
			return
		}
		a.entry.MatchesPlayed++
		a.entry.TotalPoints += score
		if won {
			a.entry.MatchesWon++
		}
		a.scores = append(a.scores, scoredMatch{at: at, score: score})
	}

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.Winner == nil || m.IsBye() {
			continue
		}
		at := time.Time{}
		if m.CompletedAt != nil {
			at = *m.CompletedAt
		}
		s1, s2 := 0, 0
		if m.Scores != nil {
			s1, s2 = m.Scores.Participant1, m.Scores.Participant2
		}
		if m.Slot1 != nil {
			credit(*m.Slot1, s1, strings.EqualFold(*m.Winner, *m.Slot1), at)
		}
		if m.Slot2 != nil {
			credit(*m.Slot2, s2, strings.EqualFold(*m.Winner, *m.Slot2), at)
		}
	}

	entries := make([]models.LeaderboardEntry, 0, len(order))
	for _, key := range order {
		a := byName[key]
		if a.entry.MatchesPlayed > 0 {
			a.entry.WinRate = roundOneDecimal(float64(a.entry.MatchesWon) / float64(a.entry.MatchesPlayed) * 100)
		}
		a.entry.Trend, a.entry.TrendValue = computeTrend(a.scores)
		entries = append(entries, a.entry)
	}
	return entries
}

type scoredMatch struct {
	at    time.Time
	score int
}

// computeTrend classifies score movement over a player's chronological match
// history: average of the last window against the average of the first,
// stable inside the tolerance band or with fewer than a full window.
func computeTrend(scores []scoredMatch) (models.TrendDirection, int) {
	if len(scores) < trendWindow {
		return models.TrendStable, 0
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].at.Before(scores[j].at) })

	avg := func(window []scoredMatch) float64 {
		sum := 0
		for _, s := range window {
			sum += s.score
		}
		return float64(sum) / float64(len(window))
	}
	diff := avg(scores[len(scores)-trendWindow:]) - avg(scores[:trendWindow])
	value := int(math.Round(math.Abs(diff)))

	switch {
	case diff > trendTolerance:
		return models.TrendUp, value
	case diff < -trendTolerance:
		return models.TrendDown, value
	default:
		return models.TrendStable, value
	}
}

// RankEntries orders entries in place under the given sort key and assigns
// ranks. Ties break by matches won, then earlier join time, then name, so
// the ordering is total and reproducible.
func RankEntries(entries []models.LeaderboardEntry, sortBy SortKey) {
	key := func(e *models.LeaderboardEntry) float64 {
		switch sortBy {
		case SortByWins:
			return float64(e.MatchesWon)
		case SortByWinRate:
			return e.WinRate
		default:
			return float64(e.TotalPoints)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if ka, kb := key(a), key(b); ka != kb {
			return ka > kb
		}
		if a.MatchesWon != b.MatchesWon {
			return a.MatchesWon > b.MatchesWon
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func podium(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	if len(entries) > 3 {
		entries = entries[:3]
	}
	top := make([]models.LeaderboardEntry, len(entries))
	copy(top, entries)
	return top
}

func markCurrentUser(entries []models.LeaderboardEntry, currentUser string) {
	if currentUser == "" {
		return
	}
	for i := range entries {
		entries[i].IsCurrentUser = strings.EqualFold(entries[i].Name, currentUser)
	}
}

func completedOnly(matches []*models.Match) []*models.Match {
	out := make([]*models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Status == models.MatchStatusCompleted {
			out = append(out, m)
		}
	}
	return out
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
