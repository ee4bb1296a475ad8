package contest

import (
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/pubsub"
	"gorm.io/gorm"
)

// Service is the submission and scoring core. All entry points are safe for
// concurrent use; the only coordinated state is the per-(team, problem)
// credit, serialized by the keyed lock and backed by the credits table's
// unique index.
type Service struct {
	db     *gorm.DB
	state  *catalog.AppState
	window Window
	locks  *keyedLock
	broker *pubsub.Broker
}

func NewService(db *gorm.DB, state *catalog.AppState, window Window) *Service {
	return &Service{
		db:     db,
		state:  state,
		window: window,
		locks:  newKeyedLock(),
		broker: pubsub.GetBroker(),
	}
}

// Window exposes the configured competition window.
func (s *Service) Window() Window {
	return s.window
}

// creditSet returns the set of problem IDs the team has been credited for.
func (s *Service) creditSet(teamID string) (map[string]bool, error) {
	credits, err := database.GetCreditsForTeam(s.db, teamID)
	if err != nil {
		return nil, err
	}
	solved := make(map[string]bool, len(credits))
	for _, c := range credits {
		solved[c.ProblemID] = true
	}
	return solved, nil
}
