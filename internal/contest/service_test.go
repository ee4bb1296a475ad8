package contest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns a fresh in-memory database. The DSN is named after the
// test so parallel tests never share state across the connection pool.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// A single connection keeps sqlite's shared-cache locking out of the
	// picture; the code under test must not rely on it for correctness.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Group{},
		&models.SubmissionEvent{},
		&models.Credit{},
		&models.GameState{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// testService builds a Service over an in-memory database and the given
// problems, with an open competition window.
func testService(t *testing.T, problems ...*catalog.Problem) *Service {
	t.Helper()
	byID := make(map[string]*catalog.Problem, len(problems))
	for _, p := range problems {
		byID[p.ID] = p
	}
	state := &catalog.AppState{Catalog: catalog.New(byID)}
	window := Window{
		Start: time.Now().Add(-time.Hour),
		End:   time.Now().Add(time.Hour),
	}
	return NewService(openTestDB(t), state, window)
}

func mustCreateTeam(t *testing.T, db *gorm.DB, name string) *models.Team {
	t.Helper()
	team := &models.Team{ID: uuid.NewString(), Name: name}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create team %s: %v", name, err)
	}
	return team
}

func mustCreateUser(t *testing.T, db *gorm.DB, username, teamID string) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Username: username, TeamID: teamID}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}
