package contest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/database/models"
)

func p1() *catalog.Problem {
	return &catalog.Problem{ID: "p1", Name: "Warmup", Category: "misc", Score: 100, Flag: "flag{1}"}
}

func p2() *catalog.Problem {
	return &catalog.Problem{ID: "p2", Name: "Followup", Category: "misc", Score: 200, Flag: "flag{2}", Prereqs: []string{"p1"}}
}

func submit(t *testing.T, svc *Service, teamID, problemID, key, userID string) *Result {
	t.Helper()
	result, err := svc.SubmitKey(context.Background(), teamID, problemID, key, userID, "127.0.0.1", time.Now())
	if err != nil {
		t.Fatalf("SubmitKey(%s, %s, %q) failed: %v", teamID, problemID, key, err)
	}
	return result
}

// Wrong key, then correct key, then a resubmission of the correct key.
func TestSubmitWrongThenCorrectThenDuplicate(t *testing.T) {
	svc := testService(t, p1())
	team := mustCreateTeam(t, svc.db, "T")
	user := mustCreateUser(t, svc.db, "alice", team.ID)

	result := submit(t, svc, team.ID, "p1", "x", user.ID)
	if result.Outcome != models.OutcomeIncorrect {
		t.Fatalf("wrong key outcome = %s, want incorrect", result.Outcome)
	}
	if score, _ := svc.TeamScore(team.ID); score != 0 {
		t.Fatalf("score after wrong key = %d, want 0", score)
	}

	result = submit(t, svc, team.ID, "p1", "flag{1}", user.ID)
	if result.Outcome != models.OutcomeCorrect {
		t.Fatalf("correct key outcome = %s, want correct", result.Outcome)
	}
	if result.Points != 100 {
		t.Fatalf("points awarded = %d, want 100", result.Points)
	}
	if score, _ := svc.TeamScore(team.ID); score != 100 {
		t.Fatalf("score after solve = %d, want 100", score)
	}

	result = submit(t, svc, team.ID, "p1", "flag{1}", user.ID)
	if result.Outcome != models.OutcomeDuplicate {
		t.Fatalf("resubmission outcome = %s, want duplicate", result.Outcome)
	}
	if result.Points != 0 {
		t.Fatalf("duplicate awarded %d points, want 0", result.Points)
	}
	if score, _ := svc.TeamScore(team.ID); score != 100 {
		t.Fatalf("score after duplicate = %d, want 100", score)
	}
}

// A problem with unmet prerequisites is invisible and unsubmittable even
// with the correct key.
func TestLockedProblemRejectsCorrectKey(t *testing.T) {
	svc := testService(t, p1(), p2())
	team := mustCreateTeam(t, svc.db, "T")
	user := mustCreateUser(t, svc.db, "alice", team.ID)

	visible, err := svc.VisibleProblems(team.ID)
	if err != nil {
		t.Fatalf("VisibleProblems failed: %v", err)
	}
	for _, p := range visible {
		if p.ID == "p2" {
			t.Fatal("p2 visible before p1 solved")
		}
	}

	result := submit(t, svc, team.ID, "p2", "flag{2}", user.ID)
	if result.Outcome != models.OutcomeLocked {
		t.Fatalf("locked submit outcome = %s, want locked", result.Outcome)
	}
	if score, _ := svc.TeamScore(team.ID); score != 0 {
		t.Fatalf("score after locked submit = %d, want 0", score)
	}

	// The attempt is still recorded for audit.
	events, err := database.GetEventsForTeamProblem(svc.db, team.ID, "p2")
	if err != nil {
		t.Fatalf("GetEventsForTeamProblem failed: %v", err)
	}
	if len(events) != 1 || events[0].Outcome != models.OutcomeLocked {
		t.Fatalf("expected one locked event, got %+v", events)
	}

	// Solving p1 unlocks p2.
	submit(t, svc, team.ID, "p1", "flag{1}", user.ID)
	visible, _ = svc.VisibleProblems(team.ID)
	found := false
	for _, p := range visible {
		if p.ID == "p2" {
			found = true
		}
	}
	if !found {
		t.Fatal("p2 not visible after p1 solved")
	}

	result = submit(t, svc, team.ID, "p2", "flag{2}", user.ID)
	if result.Outcome != models.OutcomeCorrect {
		t.Fatalf("unlocked submit outcome = %s, want correct", result.Outcome)
	}
}

// Two teammates race the same correct key: exactly one correct event, one
// duplicate event, 100 points total.
func TestConcurrentSubmissionsCreditOnce(t *testing.T) {
	svc := testService(t, p1())
	team := mustCreateTeam(t, svc.db, "T")
	alice := mustCreateUser(t, svc.db, "alice", team.ID)
	bob := mustCreateUser(t, svc.db, "bob", team.ID)

	const racers = 8
	var wg sync.WaitGroup
	outcomes := make(chan models.Outcome, racers)
	for i := 0; i < racers; i++ {
		uid := alice.ID
		if i%2 == 1 {
			uid = bob.ID
		}
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			result, err := svc.SubmitKey(context.Background(), team.ID, "p1", "flag{1}", uid, "127.0.0.1", time.Now())
			if err != nil {
				t.Errorf("concurrent SubmitKey failed: %v", err)
				return
			}
			outcomes <- result.Outcome
		}(uid)
	}
	wg.Wait()
	close(outcomes)

	corrects, duplicates := 0, 0
	for outcome := range outcomes {
		switch outcome {
		case models.OutcomeCorrect:
			corrects++
		case models.OutcomeDuplicate:
			duplicates++
		default:
			t.Fatalf("unexpected outcome %s", outcome)
		}
	}
	if corrects != 1 {
		t.Fatalf("correct outcomes = %d, want exactly 1", corrects)
	}
	if duplicates != racers-1 {
		t.Fatalf("duplicate outcomes = %d, want %d", duplicates, racers-1)
	}

	if score, _ := svc.TeamScore(team.ID); score != 100 {
		t.Fatalf("score after race = %d, want 100", score)
	}

	events, _ := database.GetEventsForTeamProblem(svc.db, team.ID, "p1")
	correctEvents := 0
	for _, e := range events {
		if e.Outcome == models.OutcomeCorrect {
			correctEvents++
		}
	}
	if correctEvents != 1 {
		t.Fatalf("ledger has %d correct events, want exactly 1", correctEvents)
	}
}

// Submissions outside the window are rejected without touching the ledger.
func TestSubmitOutsideWindow(t *testing.T) {
	svc := testService(t, p1())
	team := mustCreateTeam(t, svc.db, "T")
	user := mustCreateUser(t, svc.db, "alice", team.ID)

	afterEnd := svc.window.End.Add(time.Minute)
	result, err := svc.SubmitKey(context.Background(), team.ID, "p1", "flag{1}", user.ID, "127.0.0.1", afterEnd)
	if err != nil {
		t.Fatalf("SubmitKey failed: %v", err)
	}
	if result.Outcome != models.OutcomeLocked {
		t.Fatalf("post-end outcome = %s, want locked", result.Outcome)
	}
	if result.Message != "The competition has ended." {
		t.Fatalf("post-end message = %q", result.Message)
	}

	beforeStart := svc.window.Start.Add(-time.Minute)
	result, err = svc.SubmitKey(context.Background(), team.ID, "p1", "flag{1}", user.ID, "127.0.0.1", beforeStart)
	if err != nil {
		t.Fatalf("SubmitKey failed: %v", err)
	}
	if result.Outcome != models.OutcomeLocked {
		t.Fatalf("pre-start outcome = %s, want locked", result.Outcome)
	}

	events, err := database.GetAllEventsByTime(svc.db)
	if err != nil {
		t.Fatalf("GetAllEventsByTime failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("window rejection wrote %d ledger events, want 0", len(events))
	}
	if score, _ := svc.TeamScore(team.ID); score != 0 {
		t.Fatalf("score = %d, want 0", score)
	}
}

func TestSubmitUnknownProblem(t *testing.T) {
	svc := testService(t, p1())
	team := mustCreateTeam(t, svc.db, "T")
	user := mustCreateUser(t, svc.db, "alice", team.ID)

	_, err := svc.SubmitKey(context.Background(), team.ID, "nope", "x", user.ID, "127.0.0.1", time.Now())
	if !errors.Is(err, catalog.ErrProblemNotFound) {
		t.Fatalf("unknown problem err = %v, want ErrProblemNotFound", err)
	}
}

func TestProblemLookupDistinguishesLockedFromUnknown(t *testing.T) {
	svc := testService(t, p1(), p2())
	team := mustCreateTeam(t, svc.db, "T")
	user := mustCreateUser(t, svc.db, "alice", team.ID)

	if _, err := svc.Problem(team.ID, "ghost"); !errors.Is(err, catalog.ErrProblemNotFound) {
		t.Fatalf("unknown problem err = %v, want ErrProblemNotFound", err)
	}
	if _, err := svc.Problem(team.ID, "p2"); !errors.Is(err, ErrProblemLocked) {
		t.Fatalf("locked problem err = %v, want ErrProblemLocked", err)
	}

	submit(t, svc, team.ID, "p1", "flag{1}", user.ID)
	p, err := svc.Problem(team.ID, "p2")
	if err != nil {
		t.Fatalf("Problem(p2) after unlock failed: %v", err)
	}
	if p.ID != "p2" {
		t.Fatalf("got problem %s, want p2", p.ID)
	}
}

func TestHiddenProblemIsLocked(t *testing.T) {
	hidden := &catalog.Problem{ID: "secret", Category: "misc", Score: 50, Flag: "flag{s}", Hidden: true}
	svc := testService(t, p1(), hidden)
	team := mustCreateTeam(t, svc.db, "T")
	user := mustCreateUser(t, svc.db, "alice", team.ID)

	visible, _ := svc.VisibleProblems(team.ID)
	for _, p := range visible {
		if p.ID == "secret" {
			t.Fatal("hidden problem listed as visible")
		}
	}

	result := submit(t, svc, team.ID, "secret", "flag{s}", user.ID)
	if result.Outcome != models.OutcomeLocked {
		t.Fatalf("hidden submit outcome = %s, want locked", result.Outcome)
	}
}
