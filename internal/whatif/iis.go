package whatif

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/nrhodes/coursesched/internal/config"
	"github.com/nrhodes/coursesched/internal/milp"
	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// tagID is either a query index or the special minimality bound, used by
// the deletion filter below to track which tagged constraint a trial
// omits.
type tagID struct {
	isMinimality bool
	queryIndex   int
}

// computeConflict runs a deletion-filter IIS extraction over the tagged
// constraint set (every query plus the minimality bound):
// repeatedly try dropping one tagged constraint; if the model stays
// infeasible without it, the constraint wasn't needed and is dropped for
// good; otherwise it's part of the conflict and stays. What remains when
// every tag has been tried is (an) irreducible infeasible subsystem.
func computeConflict(ctx context.Context, cfg *config.SolverConfig, p *model.ProblemInstance, idx *pruner.Index, queries []milp.Query, bound float64) ([]IISItem, error) {
	active := make([]tagID, 0, len(queries)+1)
	for i := range queries {
		active = append(active, tagID{queryIndex: i})
	}
	active = append(active, tagID{isMinimality: true})

	// Each trial gets a short, fixed solve budget; the outer ctx deadline
	// (cfg.IISTimeout) bounds the whole extraction.
	const perTrialLimit = 5 * time.Second

	for i := 0; i < len(active); i++ {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "iis extraction timed out")
		}

		trial := without(active, i)
		infeasible, err := isInfeasible(ctx, cfg, p, idx, queries, bound, trial, perTrialLimit)
		if err != nil {
			return nil, err
		}
		if infeasible {
			// Tag i wasn't needed to cause infeasibility; drop it for good.
			active = trial
			i--
		}
	}

	items := make([]IISItem, 0, len(active))
	for _, tag := range active {
		if tag.isMinimality {
			items = append(items, IISItem{Tag: "minimality"})
		} else {
			items = append(items, IISItem{Tag: tagFor(tag.queryIndex)})
		}
	}
	return items, nil
}

func without(tags []tagID, i int) []tagID {
	out := make([]tagID, 0, len(tags)-1)
	out = append(out, tags[:i]...)
	out = append(out, tags[i+1:]...)
	return out
}

// isInfeasible rebuilds the model from scratch with only the tagged
// constraints in active applied, plus the minimality bound if it's present
// in active, and reports whether the trial is infeasible.
func isInfeasible(ctx context.Context, cfg *config.SolverConfig, p *model.ProblemInstance, idx *pruner.Index, queries []milp.Query, bound float64, active []tagID, limit time.Duration) (bool, error) {
	m := milp.NewNextmvModel()
	vars := milp.Build(m, p, idx)

	for _, tag := range active {
		if tag.isMinimality {
			milp.Minimality(m, vars.ObjectiveTerms, bound)
		} else {
			milp.Apply(m, p, idx, vars, queries[tag.queryIndex])
		}
	}

	solver, err := milp.NewNextmvSolver(m)
	if err != nil {
		return false, errors.Wrap(err, "construct trial solver")
	}
	sol, err := solver.Solve(ctx, milp.SolveOptions{
		TimeLimit: limit,
		Threads:   cfg.Threads,
	})
	if err != nil {
		return false, errors.Wrap(err, "solve iis trial")
	}

	switch sol.Status() {
	case milp.StatusOptimal, milp.StatusTimeLimitFeasible:
		return false, nil
	default:
		return true, nil
	}
}
