package contest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/database/models"
	"github.com/rriley/picoCTF/internal/pubsub"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// How long a submission waits on the per-(team, problem) lock before
	// giving up, and how many times it tries.
	lockTimeout  = 2 * time.Second
	lockAttempts = 2
	lockBackoff  = 50 * time.Millisecond
)

// Result is the fixed, discriminated outcome of a submission. Every caller
// consumes the same shape regardless of outcome.
type Result struct {
	Outcome models.Outcome `json:"outcome"`
	Message string         `json:"message"`
	Points  int            `json:"points"`
}

// SubmitKey arbitrates one submission attempt.
//
// The pipeline is: clock gate, catalog lookup, unlock check, per-(team,
// problem) lock, credited check, key verification, then one transaction
// appending the ledger event and (for a first correct) the credit row. The
// lock makes the credited-check-plus-credit linearizable per pair; the
// credits unique index would reject a double insert even if it were not.
//
// Window rejections return before the ledger is consulted; submissions
// against locked problems are appended as "locked" events for audit.
func (s *Service) SubmitKey(ctx context.Context, teamID, problemID, key, userID, sourceIP string, now time.Time) (*Result, error) {
	if err := s.window.Check(now); err != nil {
		switch {
		case errors.Is(err, ErrNotStarted):
			return &Result{Outcome: models.OutcomeLocked, Message: "The competition has not begun yet!"}, nil
		default:
			return &Result{Outcome: models.OutcomeLocked, Message: "The competition has ended."}, nil
		}
	}

	cat := s.state.Current()
	problem, err := cat.Get(problemID)
	if err != nil {
		return nil, err
	}

	solved, err := s.creditSet(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit set: %w", err)
	}
	if problem.Hidden || !prereqsMet(problem, solved) {
		event := s.newEvent(teamID, problemID, userID, key, sourceIP, models.OutcomeLocked)
		if err := database.AppendEvent(s.db.WithContext(ctx), event); err != nil {
			return nil, fmt.Errorf("failed to record locked attempt: %w", err)
		}
		return &Result{Outcome: models.OutcomeLocked, Message: "You have not unlocked this problem yet."}, nil
	}

	release, err := s.acquire(ctx, teamID, problemID)
	if err != nil {
		return nil, err
	}
	defer release()

	credited, err := database.HasCredit(s.db.WithContext(ctx), teamID, problemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check credit: %w", err)
	}

	correct, err := cat.Verify(problemID, key)
	if err != nil {
		return nil, err
	}

	switch {
	case !correct:
		event := s.newEvent(teamID, problemID, userID, key, sourceIP, models.OutcomeIncorrect)
		if err := database.AppendEvent(s.db.WithContext(ctx), event); err != nil {
			return nil, fmt.Errorf("failed to record incorrect attempt: %w", err)
		}
		return &Result{Outcome: models.OutcomeIncorrect, Message: "That is incorrect!"}, nil

	case credited:
		event := s.newEvent(teamID, problemID, userID, key, sourceIP, models.OutcomeDuplicate)
		if err := database.AppendEvent(s.db.WithContext(ctx), event); err != nil {
			return nil, fmt.Errorf("failed to record duplicate attempt: %w", err)
		}
		return &Result{Outcome: models.OutcomeDuplicate, Message: "You have already solved this problem."}, nil

	default:
		event := s.newEvent(teamID, problemID, userID, key, sourceIP, models.OutcomeCorrect)
		credit := &models.Credit{
			TeamID:    teamID,
			ProblemID: problemID,
			UserID:    userID,
			Points:    problem.Score,
			EventID:   event.ID,
		}
		// Event and credit commit together or not at all, so a cancelled
		// request can never leave a correct event without its credit.
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := database.AppendEvent(tx, event); err != nil {
				return err
			}
			return tx.Create(credit).Error
		})
		if err != nil {
			// Inside the keyed lock a duplicate credit cannot happen; if the
			// unique index still fires, something is bypassing the arbiter.
			zap.S().Errorf("failed to commit credit for (%s, %s): %v", teamID, problemID, err)
			return nil, fmt.Errorf("failed to commit credit: %w", err)
		}

		newScore, err := database.GetTeamScore(s.db, teamID)
		if err != nil {
			// The credit is durable; a failed read only delays the live
			// scoreboard push.
			zap.S().Warnf("failed to read team %s score after credit: %v", teamID, err)
		} else {
			s.broker.PublishScoreUpdate(pubsub.ScoreUpdate{
				TeamID:    teamID,
				ProblemID: problemID,
				Points:    problem.Score,
				NewScore:  newScore,
			})
		}

		zap.S().Infof("team %s solved problem %s (+%d points)", teamID, problemID, problem.Score)
		return &Result{
			Outcome: models.OutcomeCorrect,
			Message: fmt.Sprintf("Correct! You earned %d points.", problem.Score),
			Points:  problem.Score,
		}, nil
	}
}

func (s *Service) acquire(ctx context.Context, teamID, problemID string) (func(), error) {
	key := teamID + "\x00" + problemID
	var lastErr error
	for attempt := 0; attempt < lockAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(lockBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		release, err := s.locks.Acquire(ctx, key, lockTimeout)
		if err == nil {
			return release, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockTimeout) {
			break
		}
	}
	return nil, lastErr
}

func (s *Service) newEvent(teamID, problemID, userID, key, sourceIP string, outcome models.Outcome) *models.SubmissionEvent {
	return &models.SubmissionEvent{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		ProblemID: problemID,
		UserID:    userID,
		Key:       key,
		Outcome:   outcome,
		SourceIP:  sourceIP,
	}
}
