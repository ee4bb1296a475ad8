package models

import (
	"time"

	"gorm.io/gorm"
)

// Outcome classifies a submission attempt. It is stored verbatim in the
// ledger and returned to the submitter.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeLocked    Outcome = "locked"
)

type User struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
	TeamID       string `gorm:"index" json:"team_id"`
	IsAdmin      bool   `json:"is_admin"`
	IsTeacher    bool   `json:"is_teacher"`
}

type Team struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name    string  `gorm:"uniqueIndex" json:"name"`
	Members []User  `gorm:"foreignKey:TeamID" json:"members"`
	Groups  []Group `gorm:"many2many:team_groups" json:"groups"`
}

// Group is a classroom-style grouping of teams with its own scoreboard view.
type Group struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name    string `gorm:"uniqueIndex" json:"name"`
	OwnerID string `gorm:"index" json:"owner_id"` // teacher who created the group
	Teams   []Team `gorm:"many2many:team_groups" json:"teams"`
}

// SubmissionEvent is one row of the append-only submission ledger. Rows are
// never updated or deleted; every derived view (credits, scores, series) must
// be reproducible by folding these in CreatedAt order.
type SubmissionEvent struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	TeamID    string  `gorm:"index:idx_event_team_problem" json:"team_id"`
	ProblemID string  `gorm:"index:idx_event_team_problem" json:"problem_id"`
	UserID    string  `gorm:"index" json:"user_id"`
	Key       string  `json:"-"` // the submitted candidate, never the secret
	Outcome   Outcome `gorm:"index" json:"outcome"`
	SourceIP  string  `json:"source_ip"`
}

// Credit marks a (team, problem) pair as solved. The composite unique index
// is the storage-level guarantee that a pair is credited at most once; the
// arbiter's keyed lock serializes writers before they ever reach it.
type Credit struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	TeamID    string `gorm:"uniqueIndex:idx_team_problem" json:"team_id"`
	ProblemID string `gorm:"uniqueIndex:idx_team_problem" json:"problem_id"`
	UserID    string `json:"user_id"` // teammate who landed the solve
	Points    int    `json:"points"`
	EventID   string `json:"event_id"`
}

// GameState is cosmetic progression, last writer wins. It has no bearing on
// scoring and is kept out of the arbiter's critical section entirely.
type GameState struct {
	TeamID    string `gorm:"primaryKey" json:"team_id"`
	UpdatedAt time.Time

	Avatar  string `json:"avatar"`
	EventID string `json:"event_id"`
	Level   string `json:"level"`
}
