package database

import (
	"errors"
	"sort"
	"time"

	"github.com/rriley/picoCTF/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested user, team or group does not
// exist. Callers must not conflate it with a zero score.
var ErrNotFound = errors.New("record not found")

// User CRUD
func CreateUser(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func GetAllUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func UpdateUser(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

// Team CRUD
func CreateTeam(db *gorm.DB, team *models.Team) error {
	return db.Create(team).Error
}

func GetTeamByID(db *gorm.DB, id string) (*models.Team, error) {
	var team models.Team
	if err := db.Preload("Members").Preload("Groups").Where("id = ?", id).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &team, nil
}

func GetAllTeams(db *gorm.DB) ([]models.Team, error) {
	var teams []models.Team
	if err := db.Preload("Members").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// Group CRUD
func CreateGroup(db *gorm.DB, group *models.Group) error {
	return db.Create(group).Error
}

func GetGroupByID(db *gorm.DB, id string) (*models.Group, error) {
	var group models.Group
	if err := db.Preload("Teams").Where("id = ?", id).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func GetGroupByName(db *gorm.DB, name string) (*models.Group, error) {
	var group models.Group
	if err := db.Preload("Teams").Where("name = ?", name).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func GetAllGroups(db *gorm.DB) ([]models.Group, error) {
	var groups []models.Group
	if err := db.Preload("Teams").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func DeleteGroup(db *gorm.DB, groupID string) error {
	return db.Select(clause.Associations).Delete(&models.Group{ID: groupID}).Error
}

func AddTeamToGroup(db *gorm.DB, groupID, teamID string) error {
	return db.Model(&models.Group{ID: groupID}).Association("Teams").Append(&models.Team{ID: teamID})
}

func RemoveTeamFromGroup(db *gorm.DB, groupID, teamID string) error {
	return db.Model(&models.Group{ID: groupID}).Association("Teams").Delete(&models.Team{ID: teamID})
}

// Submission ledger. Events are append-only: there is deliberately no update
// or delete here.
func AppendEvent(db *gorm.DB, event *models.SubmissionEvent) error {
	return db.Create(event).Error
}

func GetEventsForTeamProblem(db *gorm.DB, teamID, problemID string) ([]models.SubmissionEvent, error) {
	var events []models.SubmissionEvent
	if err := db.Where("team_id = ? AND problem_id = ?", teamID, problemID).
		Order("created_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func GetAllEventsByTime(db *gorm.DB) ([]models.SubmissionEvent, error) {
	var events []models.SubmissionEvent
	if err := db.Order("created_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Credits (derived solve set)

// HasCredit reports whether the (team, problem) pair has already been
// credited. Only meaningful inside the arbiter's keyed lock.
func HasCredit(db *gorm.DB, teamID, problemID string) (bool, error) {
	var count int64
	err := db.Model(&models.Credit{}).
		Where("team_id = ? AND problem_id = ?", teamID, problemID).
		Count(&count).Error
	return count > 0, err
}

func GetCreditsForTeam(db *gorm.DB, teamID string) ([]models.Credit, error) {
	var credits []models.Credit
	if err := db.Where("team_id = ?", teamID).Order("created_at asc").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

func GetCreditsForUser(db *gorm.DB, userID string) ([]models.Credit, error) {
	var credits []models.Credit
	if err := db.Where("user_id = ?", userID).Order("created_at asc").Find(&credits).Error; err != nil {
		return nil, err
	}
	return credits, nil
}

// Score & Scoreboard

type ScoreboardEntry struct {
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	Score         int    `json:"score"`
	Solves        int    `json:"solves"`
	lastScoreTime time.Time
}

func GetTeamScore(db *gorm.DB, teamID string) (int, error) {
	var total int
	err := db.Model(&models.Credit{}).
		Select("COALESCE(SUM(points), 0)").
		Where("team_id = ?", teamID).
		Scan(&total).Error
	return total, err
}

func GetUserScore(db *gorm.DB, userID string) (int, error) {
	var total int
	err := db.Model(&models.Credit{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// GetScoreboard returns all teams ranked by total score. Ties rank the team
// whose latest credit is earliest first, so overtaking requires actually
// scoring, not waiting.
func GetScoreboard(db *gorm.DB) ([]ScoreboardEntry, error) {
	type scoreRow struct {
		TeamID    string
		TeamName  string
		Points    int
		CreatedAt time.Time
	}
	var rows []scoreRow
	err := db.Table("credits").
		Select("teams.id as team_id, teams.name as team_name, credits.points, credits.created_at").
		Joins("join teams on teams.id = credits.team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entriesByTeam := make(map[string]*ScoreboardEntry)
	for _, row := range rows {
		entry, ok := entriesByTeam[row.TeamID]
		if !ok {
			entry = &ScoreboardEntry{TeamID: row.TeamID, TeamName: row.TeamName}
			entriesByTeam[row.TeamID] = entry
		}
		entry.Score += row.Points
		entry.Solves++
		if row.CreatedAt.After(entry.lastScoreTime) {
			entry.lastScoreTime = row.CreatedAt
		}
	}

	// Teams with zero solves still appear with score 0.
	teams, err := GetAllTeams(db)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		if _, ok := entriesByTeam[team.ID]; !ok {
			entriesByTeam[team.ID] = &ScoreboardEntry{TeamID: team.ID, TeamName: team.Name}
		}
	}

	results := make([]ScoreboardEntry, 0, len(entriesByTeam))
	for _, entry := range entriesByTeam {
		results = append(results, *entry)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].lastScoreTime.IsZero() {
			return false
		}
		if results[j].lastScoreTime.IsZero() {
			return true
		}
		return results[i].lastScoreTime.Before(results[j].lastScoreTime)
	})

	return results, nil
}
