package models

// TournamentStats summarizes the whole arena for the dashboard header.
type TournamentStats struct {
	ActiveTournaments int `json:"active_tournaments"`
	TotalParticipants int `json:"total_participants"`
	CompletedMatches  int `json:"completed_matches"`
	TotalPrizes       int `json:"total_prizes"`
}

// TournamentSummary is the lightweight card shown in the dashboard list.
type TournamentSummary struct {
	Tournament
	ParticipantsCount int  `json:"participants_count"`
	CanJoin           bool `json:"can_join"`
}

// TournamentRef is an id/name pair for bracket and leaderboard selectors.
type TournamentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
