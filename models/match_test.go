package models

import (
	"encoding/json"
	"testing"
)

func TestMatchScoresSerializeAsSingleField(t *testing.T) {
	p1, p2, w := "Alice", "Bob", "Alice"
	m := Match{
		ID:     "r1_m1",
		Slot1:  &p1,
		Slot2:  &p2,
		Status: MatchStatusCompleted,
		Winner: &w,
		Scores: &MatchScores{Participant1: 80, Participant2: 70},
	}

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	scores, ok := payload["scores"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected a scores object, got %v", payload["scores"])
	}
	if scores["participant1"] != 80.0 || scores["participant2"] != 70.0 {
		t.Fatalf("unexpected scores payload: %v", scores)
	}

	// No scores recorded: the field is omitted entirely.
	raw, err = json.Marshal(Match{ID: "r1_m2", Status: MatchStatusPending})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	payload = map[string]interface{}{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, present := payload["scores"]; present {
		t.Fatal("pending match must not carry a scores field")
	}
}
