// Package whatif implements the what-if analyzer: rebuild the full model,
// append user query constraints and a minimality bound, re-solve, and on
// infeasibility explain why via IIS extraction.
package whatif

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/nrhodes/coursesched/internal/config"
	"github.com/nrhodes/coursesched/internal/errs"
	"github.com/nrhodes/coursesched/internal/evaluator"
	"github.com/nrhodes/coursesched/internal/milp"
	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/output"
	"github.com/nrhodes/coursesched/internal/pruner"
)

// QueryRecord is one external what-if query. Week, PeriodStart, and
// PeriodEnd are external 0-based; nil means "omitted" (only meaningful for
// veto_time_slot's week).
type QueryRecord struct {
	Type        string `json:"type"`
	Course      string `json:"course"`
	Week        *int   `json:"week,omitempty"`
	Day         string `json:"day,omitempty"`
	PeriodStart *int   `json:"period_start,omitempty"`
	PeriodEnd   *int   `json:"period_end,omitempty"`
	Room        string `json:"room,omitempty"`
}

// Result is the external what-if output.
type Result struct {
	Status             string         `json:"status"`
	Output             *output.Output `json:"output,omitempty"`
	ObjectiveDifference float64       `json:"objective_difference,omitempty"`
	IIS                []IISItem      `json:"iis,omitempty"`
	Interpretation      string        `json:"interpretation,omitempty"`
}

// IISItem tags one constraint found in (or assumed to be in) the
// irreducible infeasible subsystem.
type IISItem struct {
	Tag string `json:"tag"` // "minimality" or "query_<idx>"
}

const minimalityEpsilonFactor = 1e-6

// Run rebuilds the model, constrains it with the given queries plus the
// minimality bound, re-solves, and on infeasibility explains why via IIS
// extraction.
func Run(ctx context.Context, log zerolog.Logger, p *model.ProblemInstance, idx *pruner.Index, cfg *config.SolverConfig, queries []QueryRecord, originalObjective float64) (*Result, error) {
	resolved := make([]milp.Query, len(queries))
	for i, q := range queries {
		rq, err := resolve(p, q)
		if err != nil {
			return nil, errs.Wrap(errs.KindInvalidInput, err, "resolve what-if query")
		}
		resolved[i] = rq
	}

	bound := originalObjective + minimalityEpsilonFactor*absF(originalObjective)

	m := milp.NewNextmvModel()
	vars := milp.Build(m, p, idx)
	for _, rq := range resolved {
		milp.Apply(m, p, idx, vars, rq)
	}
	milp.Minimality(m, vars.ObjectiveTerms, bound)

	solver, err := milp.NewNextmvSolver(m)
	if err != nil {
		return nil, errs.Wrap(errs.KindSolverError, err, "construct solver")
	}
	sol, err := solver.Solve(ctx, milp.SolveOptions{
		TimeLimit: cfg.TimeLimit,
		Threads:   cfg.Threads,
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindSolverError, err, "solve what-if model")
	}

	switch sol.Status() {
	case milp.StatusOptimal, milp.StatusTimeLimitFeasible:
		tuples := milp.ExtractAssignment(vars, sol)
		breakdown := evaluator.Score(p, tuples)
		formatted := output.Format(p, tuples, "feasible_query", sol.ObjectiveValue(), breakdown, sol.ObjectiveValue())
		return &Result{
			Status:              "feasible_query",
			Output:               &formatted,
			ObjectiveDifference: sol.ObjectiveValue() - originalObjective,
		}, nil

	default:
		log.Info().Msg("udsp infeasible, running iis extraction")
		if cfg.SkipIIS {
			return conservativeReport(resolved), nil
		}
		iisCtx, cancel := context.WithTimeout(ctx, cfg.IISTimeout)
		defer cancel()
		items, err := computeConflict(iisCtx, cfg, p, idx, resolved, bound)
		if err != nil {
			log.Warn().Err(err).Msg("iis extraction failed, falling back to conservative report")
			return conservativeReport(resolved), nil
		}
		return &Result{
			Status:         "infeasible_query",
			IIS:            items,
			Interpretation: interpret(items),
		}, nil
	}
}

func resolve(p *model.ProblemInstance, q QueryRecord) (milp.Query, error) {
	var rq milp.Query
	course, ok := p.CourseIndex[q.Course]
	if !ok {
		return rq, errors.Errorf("unknown course %q", q.Course)
	}
	rq.Course = course

	switch q.Type {
	case "enforce_time_slot":
		day, week, period, err := requireDayWeekPeriod(p, q)
		if err != nil {
			return rq, err
		}
		rq.Kind, rq.Day, rq.Week, rq.PeriodStart = milp.EnforceTimeSlot, day, week, period

	case "veto_time_slot":
		day, err := requireDay(p, q)
		if err != nil {
			return rq, err
		}
		if q.PeriodStart == nil {
			return rq, errors.New("veto_time_slot requires period_start")
		}
		rq.Kind, rq.Day, rq.PeriodStart = milp.VetoTimeSlot, day, *q.PeriodStart+1
		if q.Week != nil {
			rq.Week = *q.Week
		} else {
			rq.Week = -1
		}

	case "veto_day":
		day, err := requireDay(p, q)
		if err != nil {
			return rq, err
		}
		rq.Kind, rq.Day = milp.VetoDay, day

	case "enforce_room":
		room, ok := p.ClassroomIndex[q.Room]
		if !ok {
			return rq, errors.Errorf("unknown room %q", q.Room)
		}
		rq.Kind, rq.Room = milp.EnforceRoom, room

	case "enforce_before_time":
		if q.PeriodEnd == nil {
			return rq, errors.New("enforce_before_time requires period_end")
		}
		rq.Kind, rq.PeriodStart = milp.EnforceBeforeTime, *q.PeriodEnd+1

	case "enforce_after_time":
		if q.PeriodStart == nil {
			return rq, errors.New("enforce_after_time requires period_start")
		}
		rq.Kind, rq.PeriodStart = milp.EnforceAfterTime, *q.PeriodStart+1

	default:
		return rq, errors.Errorf("unknown what-if query type %q", q.Type)
	}
	return rq, nil
}

func requireDay(p *model.ProblemInstance, q QueryRecord) (int, error) {
	day, ok := p.DayIndex[q.Day]
	if !ok {
		return 0, errors.Errorf("unknown day %q", q.Day)
	}
	return day, nil
}

func requireDayWeekPeriod(p *model.ProblemInstance, q QueryRecord) (day, week, period int, err error) {
	day, err = requireDay(p, q)
	if err != nil {
		return 0, 0, 0, err
	}
	if q.Week == nil {
		return 0, 0, 0, errors.New("enforce_time_slot requires week")
	}
	if q.PeriodStart == nil {
		return 0, 0, 0, errors.New("enforce_time_slot requires period_start")
	}
	return day, *q.Week, *q.PeriodStart + 1, nil
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func conservativeReport(queries []milp.Query) *Result {
	items := make([]IISItem, 0, len(queries)+1)
	items = append(items, IISItem{Tag: "minimality"})
	for i := range queries {
		items = append(items, IISItem{Tag: tagFor(i)})
	}
	return &Result{
		Status:         "infeasible_query",
		IIS:            items,
		Interpretation: "iis extraction skipped or failed; all query constraints and the minimality bound are marked as likely in conflict",
	}
}

func interpret(items []IISItem) string {
	hasMinimality := false
	queryCount := 0
	for _, it := range items {
		if it.Tag == "minimality" {
			hasMinimality = true
		} else {
			queryCount++
		}
	}
	switch {
	case queryCount == 0 && hasMinimality:
		return "the requested constraints are individually satisfiable but only at a worse objective than the original schedule"
	case queryCount > 0 && !hasMinimality:
		return "the requested constraints contradict the hard scheduling rules independent of objective quality"
	case queryCount > 0 && hasMinimality:
		return "the requested constraints conflict with each other or with the hard scheduling rules, and are also incompatible with matching the original objective"
	default:
		return "no constraints were identified as conflicting"
	}
}

func tagFor(i int) string {
	return "query_" + strconv.Itoa(i)
}
