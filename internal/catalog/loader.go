package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load scans rootPath for problem directories, each containing a
// problem.yaml and an optional index.md description, and returns a validated
// catalog. A malformed problem directory is skipped with a warning; a broken
// prerequisite graph fails the whole load.
func Load(rootPath string) (*Catalog, error) {
	if rootPath == "" {
		zap.S().Warn("problems_root is not configured. No problems will be loaded.")
		return New(map[string]*Problem{}), nil
	}

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read problems_root directory '%s': %w", rootPath, err)
	}

	problems := make(map[string]*Problem)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		problem, err := loadProblem(filepath.Join(rootPath, entry.Name()))
		if err != nil {
			zap.S().Warnf("failed to load problem from %s: %v", entry.Name(), err)
			continue
		}
		if _, exists := problems[problem.ID]; exists {
			zap.S().Warnf("duplicate problem ID %s found in %s, skipping", problem.ID, entry.Name())
			continue
		}
		problems[problem.ID] = problem
	}

	if err := validatePrereqs(problems); err != nil {
		return nil, err
	}
	return New(problems), nil
}

func loadProblem(dir string) (*Problem, error) {
	data, err := os.ReadFile(filepath.Join(dir, "problem.yaml"))
	if err != nil {
		return nil, err
	}
	var problem Problem
	if err := yaml.Unmarshal(data, &problem); err != nil {
		return nil, err
	}
	problem.BasePath = dir

	if problem.ID == "" {
		return nil, fmt.Errorf("problem in %s has no id", dir)
	}
	if problem.Score < 0 {
		return nil, fmt.Errorf("problem %s has negative score", problem.ID)
	}
	if problem.Flag == "" && problem.FlagHash == "" {
		return nil, fmt.Errorf("problem %s has neither flag nor flag_hash", problem.ID)
	}

	desc, _ := os.ReadFile(filepath.Join(dir, "index.md"))
	problem.Description = string(desc)
	return &problem, nil
}
