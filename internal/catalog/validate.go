package catalog

import "fmt"

// validatePrereqs rejects unknown prerequisite IDs and cycles. The
// prerequisite graph must be a DAG; a cycle would make the problems on it
// permanently unsolvable, so it is a configuration error caught at load
// time, never handled at resolve time.
func validatePrereqs(problems map[string]*Problem) error {
	for _, p := range problems {
		for _, dep := range p.Prereqs {
			if _, ok := problems[dep]; !ok {
				return fmt.Errorf("problem %s requires unknown problem %s", p.ID, dep)
			}
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(problems))

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return fmt.Errorf("prerequisite cycle detected at problem %s", id)
		case black:
			return nil
		}
		color[id] = gray
		for _, dep := range problems[id].Prereqs {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for id := range problems {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
