package contest

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func TestGameStateDefaultsToZeroValue(t *testing.T) {
	svc := testService(t)
	team := mustCreateTeam(t, svc.db, "T")

	state, err := svc.GetGameState(team.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if state.TeamID != team.ID || state.Avatar != "" || state.Level != "" {
		t.Fatalf("unexpected default state: %+v", state)
	}
}

func TestGameStatePartialUpdateLastWriterWins(t *testing.T) {
	svc := testService(t)
	team := mustCreateTeam(t, svc.db, "T")

	state, err := svc.UpdateGameState(team.ID, strPtr("wizard"), strPtr("e1"), strPtr("3"))
	if err != nil {
		t.Fatalf("first update failed: %v", err)
	}
	if state.Avatar != "wizard" || state.EventID != "e1" || state.Level != "3" {
		t.Fatalf("unexpected state after full update: %+v", state)
	}

	// Absent fields stay untouched.
	state, err = svc.UpdateGameState(team.ID, nil, nil, strPtr("4"))
	if err != nil {
		t.Fatalf("partial update failed: %v", err)
	}
	if state.Avatar != "wizard" || state.EventID != "e1" || state.Level != "4" {
		t.Fatalf("unexpected state after partial update: %+v", state)
	}

	stored, err := svc.GetGameState(team.ID)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if stored.Avatar != "wizard" || stored.Level != "4" {
		t.Fatalf("stored state mismatch: %+v", stored)
	}
}
