package contest

import (
	"github.com/rriley/picoCTF/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetGameState returns the team's cosmetic game state, zero-valued if the
// team has never updated it.
func (s *Service) GetGameState(teamID string) (*models.GameState, error) {
	var state models.GameState
	err := s.db.Where("team_id = ?", teamID).First(&state).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &models.GameState{TeamID: teamID}, nil
		}
		return nil, err
	}
	return &state, nil
}

// UpdateGameState merges the supplied fields into the team's game state,
// last writer wins. Nil fields are left unchanged. This path shares no locks
// with the arbiter: a stalled submission can never block an avatar change
// and vice versa.
func (s *Service) UpdateGameState(teamID string, avatar, eventID, level *string) (*models.GameState, error) {
	current, err := s.GetGameState(teamID)
	if err != nil {
		return nil, err
	}

	if avatar != nil {
		current.Avatar = *avatar
	}
	if eventID != nil {
		current.EventID = *eventID
	}
	if level != nil {
		current.Level = *level
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"avatar", "event_id", "level", "updated_at"}),
	}).Create(current).Error
	if err != nil {
		return nil, err
	}
	return current, nil
}
