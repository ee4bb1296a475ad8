package contest

import (
	"github.com/rriley/picoCTF/internal/catalog"
)

// VisibleProblems returns the problems the team may currently see and
// attempt: not hidden, and every prerequisite already credited. One credits
// query plus one pass over the catalog.
func (s *Service) VisibleProblems(teamID string) ([]*catalog.Problem, error) {
	solved, err := s.creditSet(teamID)
	if err != nil {
		return nil, err
	}

	var visible []*catalog.Problem
	for _, p := range s.state.Current().All() {
		if p.Hidden {
			continue
		}
		if prereqsMet(p, solved) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// Problem returns one problem if the team may currently see it. It returns
// catalog.ErrProblemNotFound for unknown IDs and ErrProblemLocked for
// problems that exist but are hidden or have unmet prerequisites; callers
// decide whether to surface the difference.
func (s *Service) Problem(teamID, id string) (*catalog.Problem, error) {
	p, err := s.state.Current().Get(id)
	if err != nil {
		return nil, err
	}
	solved, err := s.creditSet(teamID)
	if err != nil {
		return nil, err
	}
	if p.Hidden || !prereqsMet(p, solved) {
		return nil, ErrProblemLocked
	}
	return p, nil
}

// SolvedProblems returns the problems in the team's credit set.
func (s *Service) SolvedProblems(teamID string) ([]*catalog.Problem, error) {
	solved, err := s.creditSet(teamID)
	if err != nil {
		return nil, err
	}

	cat := s.state.Current()
	var out []*catalog.Problem
	for id := range solved {
		// Credits can outlive a problem that was later removed from the
		// catalog; such credits still count for score but have no problem
		// definition to return.
		if p, err := cat.Get(id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func prereqsMet(p *catalog.Problem, solved map[string]bool) bool {
	for _, dep := range p.Prereqs {
		if !solved[dep] {
			return false
		}
	}
	return true
}
