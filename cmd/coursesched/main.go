// Command coursesched runs the course-scheduling optimization core: build a
// schedule from a JSON problem description, or pose a what-if query against
// a previously solved one. Grounded on the teacher's cli.go command tree
// (cmdSchedule/cmdGen/cmdScore), rebuilt as a cobra tree of solve/whatif/
// score subcommands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nrhodes/coursesched/internal/config"
	"github.com/nrhodes/coursesched/internal/errs"
	"github.com/nrhodes/coursesched/internal/evaluator"
	"github.com/nrhodes/coursesched/internal/logging"
	"github.com/nrhodes/coursesched/internal/milp"
	"github.com/nrhodes/coursesched/internal/model"
	"github.com/nrhodes/coursesched/internal/normalizer"
	"github.com/nrhodes/coursesched/internal/output"
	"github.com/nrhodes/coursesched/internal/pruner"
	"github.com/nrhodes/coursesched/internal/warmstart"
	"github.com/nrhodes/coursesched/internal/whatif"
)

var (
	inputPath   string
	scheduleOut string
	queryPath   string
	printTable  bool
)

func main() {
	root := &cobra.Command{
		Use:   "coursesched",
		Short: "Course schedule optimization core",
		Long:  "Builds and explains MILP-based course schedules.",
	}

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve a scheduling problem from a JSON input file",
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&inputPath, "input", "", "path to the input JSON problem description")
	solveCmd.Flags().StringVar(&scheduleOut, "out", "", "path to write the solved schedule JSON (defaults to stdout)")
	solveCmd.Flags().BoolVar(&printTable, "table", false, "also render a human-readable schedule grid")
	_ = solveCmd.MarkFlagRequired("input")
	root.AddCommand(solveCmd)

	whatifCmd := &cobra.Command{
		Use:   "whatif",
		Short: "re-solve under user-imposed query constraints",
		RunE:  runWhatIf,
	}
	whatifCmd.Flags().StringVar(&inputPath, "input", "", "path to the input JSON problem description")
	whatifCmd.Flags().StringVar(&queryPath, "queries", "", "path to a JSON array of what-if query records")
	_ = whatifCmd.MarkFlagRequired("input")
	_ = whatifCmd.MarkFlagRequired("queries")
	root.AddCommand(whatifCmd)

	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "score an already-solved schedule against the heuristic evaluator",
		RunE:  runScore,
	}
	scoreCmd.Flags().StringVar(&inputPath, "input", "", "path to the input JSON problem description")
	scoreCmd.Flags().StringVar(&scheduleOut, "schedule", "", "path to a previously solved schedule JSON (output.Schedule)")
	_ = scoreCmd.MarkFlagRequired("input")
	_ = scoreCmd.MarkFlagRequired("schedule")
	root.AddCommand(scoreCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadInstance(path string, log zerolog.Logger) (*model.ProblemInstance, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read input file")
	}
	var in normalizer.Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, errs.Wrap(errs.KindInvalidInput, err, "parse input JSON")
	}
	p, err := normalizer.Normalize(log, in)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()

	cfg, err := config.Load()
	if err != nil {
		return emitError(errs.Wrap(errs.KindInvalidInput, err, "load solver config"))
	}
	log := logging.New(cfg.LogPretty, logging.ParseLevel(cfg.LogLevel)).With().Str("run_id", runID).Logger()

	p, err := loadInstance(inputPath, log)
	if err != nil {
		return emitError(err)
	}

	valid := pruner.ValidX(p)
	idx := pruner.BuildIndex(valid)

	warm := warmstart.Build(log, p, idx)
	heuristic := evaluator.Score(p, warm.Tuples).Total()

	ctx := context.Background()
	result, err := milp.Solve(ctx, log, p, idx, cfg)
	if err != nil {
		return emitError(errs.Wrap(errs.KindSolverError, err, "solve"))
	}

	status := statusString(result.Status)
	if result.Status == milp.StatusInfeasible || result.Status == milp.StatusTimeLimitNoSolution || result.Status == milp.StatusError {
		fmt.Println(mustJSON(map[string]string{"status": status}))
		return nil
	}

	tuples := milp.ExtractAssignment(result.Vars, result.Solution)
	breakdown := evaluator.Score(p, tuples)
	out := output.Format(p, tuples, status, result.Solution.ObjectiveValue(), breakdown, heuristic)

	if printTable {
		fmt.Println(output.Render(out.Schedule))
	}
	return writeOutput(out)
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return emitError(errs.Wrap(errs.KindInvalidInput, err, "load solver config"))
	}
	log := logging.New(cfg.LogPretty, logging.ParseLevel(cfg.LogLevel))

	p, err := loadInstance(inputPath, log)
	if err != nil {
		return emitError(err)
	}

	valid := pruner.ValidX(p)
	idx := pruner.BuildIndex(valid)

	ctx := context.Background()
	baseline, err := milp.Solve(ctx, log, p, idx, cfg)
	if err != nil {
		return emitError(errs.Wrap(errs.KindSolverError, err, "baseline solve"))
	}
	if baseline.Status != milp.StatusOptimal && baseline.Status != milp.StatusTimeLimitFeasible {
		fmt.Println(mustJSON(map[string]string{"status": "udsp_error", "error": "baseline problem is infeasible"}))
		return nil
	}

	raw, err := os.ReadFile(queryPath)
	if err != nil {
		return emitError(errors.Wrap(err, "read queries file"))
	}
	var queries []whatif.QueryRecord
	if err := json.Unmarshal(raw, &queries); err != nil {
		return emitError(errs.Wrap(errs.KindInvalidInput, err, "parse queries JSON"))
	}

	result, err := whatif.Run(ctx, log, p, idx, cfg, queries, baseline.Solution.ObjectiveValue())
	if err != nil {
		return emitError(err)
	}
	fmt.Println(mustJSON(result))
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return emitError(errs.Wrap(errs.KindInvalidInput, err, "load solver config"))
	}
	log := logging.New(cfg.LogPretty, logging.ParseLevel(cfg.LogLevel))

	p, err := loadInstance(inputPath, log)
	if err != nil {
		return emitError(err)
	}

	raw, err := os.ReadFile(scheduleOut)
	if err != nil {
		return emitError(errors.Wrap(err, "read schedule file"))
	}
	var sched output.Schedule
	if err := json.Unmarshal(raw, &sched); err != nil {
		return emitError(errs.Wrap(errs.KindInvalidInput, err, "parse schedule JSON"))
	}

	tuples, err := toTuples(p, sched)
	if err != nil {
		return emitError(err)
	}
	breakdown := evaluator.Score(p, tuples)
	fmt.Println(mustJSON(breakdown))
	fmt.Println(output.Render(sched))
	return nil
}

// toTuples resolves a Schedule's external assignment rows back into internal
// (course,block,day,period,room) tuples for re-scoring.
func toTuples(p *model.ProblemInstance, sched output.Schedule) ([]pruner.Tuple, error) {
	seen := make(map[pruner.Tuple]bool)
	var out []pruner.Tuple
	for _, a := range sched.Assignments {
		course, ok := p.CourseIndex[a.CourseID]
		if !ok {
			return nil, errs.InvalidInput("schedule references unknown course %q", a.CourseID)
		}
		room, ok := p.ClassroomIndex[a.RoomID]
		if !ok {
			return nil, errs.InvalidInput("schedule references unknown room %q", a.RoomID)
		}
		day, ok := p.DayIndex[a.Day]
		if !ok {
			return nil, errs.InvalidInput("schedule references unknown day %q", a.Day)
		}
		block := p.BlockOfWeek(a.Week + 1)
		t := pruner.Tuple{Course: course, Block: block, Day: day, Period: a.PeriodStart + 1, Room: room}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

func statusString(s milp.Status) string {
	switch s {
	case milp.StatusOptimal:
		return "optimal"
	case milp.StatusTimeLimitFeasible:
		return "time_limit_feasible"
	case milp.StatusTimeLimitNoSolution, milp.StatusInfeasible:
		return "infeasible"
	default:
		return "error"
	}
}

func emitError(err error) error {
	kind, _ := errs.As(err)
	fmt.Println(mustJSON(map[string]string{
		"status": "error",
		"error":  err.Error(),
		"kind":   kind.String(),
	}))
	return nil
}

func writeOutput(out output.Output) error {
	data := mustJSON(out)
	if scheduleOut == "" {
		fmt.Println(data)
		return nil
	}
	return os.WriteFile(scheduleOut, []byte(data), 0644)
}

func mustJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"status":"error","error":%q}`, err.Error())
	}
	return string(b)
}
