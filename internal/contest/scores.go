package contest

import (
	"fmt"
	"sort"
	"time"

	"github.com/rriley/picoCTF/internal/database"
)

// ScorePoint is one entry of a team's score-over-time series.
type ScorePoint struct {
	Time      time.Time `json:"time"`
	Score     int       `json:"score"`
	ProblemID string    `json:"problem_id"`
}

// GroupScoreboard is the per-group slice of the scoreboard, only exposed to
// authenticated callers.
type GroupScoreboard struct {
	GroupID    string                     `json:"gid"`
	Name       string                     `json:"name"`
	Scoreboard []database.ScoreboardEntry `json:"scoreboard"`
}

// ScoreboardView is the payload of the scoreboard endpoint.
type ScoreboardView struct {
	Public []database.ScoreboardEntry `json:"public"`
	Groups []GroupScoreboard          `json:"groups"`
}

// CategoryStat summarizes a team's progress within one problem category.
type CategoryStat struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
	Solved   int    `json:"solved"`
}

// TeamScore returns the team's current score. An unknown team is an error;
// a team with no solves scores 0. The two are distinct on purpose.
func (s *Service) TeamScore(teamID string) (int, error) {
	if _, err := database.GetTeamByID(s.db, teamID); err != nil {
		return 0, err
	}
	return database.GetTeamScore(s.db, teamID)
}

// UserScore returns the sum of points for solves the user personally landed.
func (s *Service) UserScore(userID string) (int, error) {
	if _, err := database.GetUserByID(s.db, userID); err != nil {
		return 0, err
	}
	return database.GetUserScore(s.db, userID)
}

// ScoreOverTime folds the team's credits in time order into a cumulative
// series, optionally restricted to one category. The series is strictly
// increasing in time and non-decreasing in score by construction.
func (s *Service) ScoreOverTime(teamID, category string) ([]ScorePoint, error) {
	credits, err := database.GetCreditsForTeam(s.db, teamID)
	if err != nil {
		return nil, err
	}

	cat := s.state.Current()
	series := make([]ScorePoint, 0, len(credits))
	total := 0
	for _, credit := range credits {
		if category != "" {
			p, err := cat.Get(credit.ProblemID)
			if err != nil || p.Category != category {
				continue
			}
		}
		total += credit.Points
		series = append(series, ScorePoint{
			Time:      credit.CreatedAt,
			Score:     total,
			ProblemID: credit.ProblemID,
		})
	}
	return series, nil
}

// Scoreboard returns the public ranked list and, for authenticated callers,
// the per-group boards. The authentication decision belongs to the caller;
// this only consumes its result.
func (s *Service) Scoreboard(isAuthenticated bool) (*ScoreboardView, error) {
	public, err := database.GetScoreboard(s.db)
	if err != nil {
		return nil, err
	}

	view := &ScoreboardView{Public: public, Groups: []GroupScoreboard{}}
	if !isAuthenticated {
		return view, nil
	}

	groups, err := database.GetAllGroups(s.db)
	if err != nil {
		return nil, err
	}
	rankByTeam := make(map[string]database.ScoreboardEntry, len(public))
	for _, entry := range public {
		rankByTeam[entry.TeamID] = entry
	}
	for _, group := range groups {
		board := make([]database.ScoreboardEntry, 0, len(group.Teams))
		for _, team := range group.Teams {
			if entry, ok := rankByTeam[team.ID]; ok {
				board = append(board, entry)
			}
		}
		view.Groups = append(view.Groups, GroupScoreboard{
			GroupID:    group.ID,
			Name:       group.Name,
			Scoreboard: board,
		})
	}
	return view, nil
}

// GroupScore sums the scores of every team in the group.
func (s *Service) GroupScore(name string) (int, error) {
	group, err := database.GetGroupByName(s.db, name)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, team := range group.Teams {
		score, err := database.GetTeamScore(s.db, team.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to score team %s: %w", team.ID, err)
		}
		total += score
	}
	return total, nil
}

// TopTeamProgression returns the score-over-time series of the current top
// teams, keyed by team name. Ties with the cutoff score are included.
func (s *Service) TopTeamProgression(limit int) (map[string][]ScorePoint, error) {
	board, err := database.GetScoreboard(s.db)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]ScorePoint)
	cutoff := -1
	for i, entry := range board {
		if entry.Score == 0 {
			break
		}
		if i >= limit && entry.Score != cutoff {
			break
		}
		if i == limit-1 {
			cutoff = entry.Score
		}
		series, err := s.ScoreOverTime(entry.TeamID, "")
		if err != nil {
			return nil, err
		}
		result[entry.TeamName] = series
	}
	return result, nil
}

// CategoryStats reports, per category, how many catalog problems exist and
// how many the team has solved.
func (s *Service) CategoryStats(teamID string) ([]CategoryStat, error) {
	solved, err := s.creditSet(teamID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]*CategoryStat)
	for _, p := range s.state.Current().All() {
		stat, ok := byCategory[p.Category]
		if !ok {
			stat = &CategoryStat{Category: p.Category}
			byCategory[p.Category] = stat
		}
		stat.Total++
		if solved[p.ID] {
			stat.Solved++
		}
	}

	stats := make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}
