package catalog

import (
	"crypto/subtle"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrProblemNotFound is returned for unknown problem IDs.
var ErrProblemNotFound = errors.New("problem not found")

// Problem is an immutable challenge definition loaded from problem.yaml.
// Exactly one of Flag / FlagHash should be set; FlagHash wins if both are.
type Problem struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Category    string   `yaml:"category" json:"category"`
	Score       int      `yaml:"score" json:"score"`
	Flag        string   `yaml:"flag" json:"-"`
	FlagHash    string   `yaml:"flag_hash" json:"-"` // bcrypt hash of the flag
	Prereqs     []string `yaml:"prereqs" json:"prereqs"`
	Hidden      bool     `yaml:"hidden" json:"-"`
	Description string   `yaml:"-" json:"description"`
	BasePath    string   `yaml:"-" json:"-"`
}

// Catalog holds all loaded problems. It is immutable after Load; reloads
// build a fresh Catalog and swap it into AppState.
type Catalog struct {
	problems map[string]*Problem
}

func New(problems map[string]*Problem) *Catalog {
	return &Catalog{problems: problems}
}

func (c *Catalog) Get(id string) (*Problem, error) {
	p, ok := c.problems[id]
	if !ok {
		return nil, ErrProblemNotFound
	}
	return p, nil
}

func (c *Catalog) All() []*Problem {
	out := make([]*Problem, 0, len(c.problems))
	for _, p := range c.problems {
		out = append(out, p)
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.problems)
}

// Verify checks a candidate key against the problem's secret. Plaintext
// secrets are compared in constant time so response latency carries no
// signal about partial matches; hashed secrets go through bcrypt.
func (c *Catalog) Verify(id, candidate string) (bool, error) {
	p, ok := c.problems[id]
	if !ok {
		return false, ErrProblemNotFound
	}
	if p.FlagHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(p.FlagHash), []byte(candidate))
		return err == nil, nil
	}
	return subtle.ConstantTimeCompare([]byte(p.Flag), []byte(candidate)) == 1, nil
}

// AppState holds the shared, reloadable catalog.
type AppState struct {
	sync.RWMutex
	Catalog *Catalog
}

// Current returns the catalog under the read lock. The returned Catalog is
// immutable, so callers may keep using it after the lock is released even
// across an admin reload.
func (s *AppState) Current() *Catalog {
	s.RLock()
	defer s.RUnlock()
	return s.Catalog
}

// Swap replaces the catalog, typically after an admin reload.
func (s *AppState) Swap(c *Catalog) {
	s.Lock()
	defer s.Unlock()
	s.Catalog = c
}
