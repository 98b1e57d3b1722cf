package solver

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/solve"
	"github.com/sverzijl/planning-latest-sub005/pkg/infrastructure/logging"
)

// ExecConfig configures the external-binary adapter. Defaults target the
// HiGHS command line; CBC-style solvers work by overriding the flags.
type ExecConfig struct {
	BinaryPath       string
	TimeLimitFlag    string
	GapFlag          string
	SolutionFileFlag string
	// WarmStartFlag passes the warm-start file. Solvers without such a flag
	// leave it empty; supplied hints are then reported as rejected.
	WarmStartFlag string
	ExtraArgs     []string
	// WorkDir holds the exchange files; a temp dir is used when empty.
	WorkDir   string
	KeepFiles bool
}

// ExecSolver runs an external MILP binary over LP-format exchange files. The
// solver's algorithms stay entirely outside this codebase; this adapter only
// shuttles the model out and the solution back.
type ExecSolver struct {
	config ExecConfig
	log    logging.Logger
}

// NewExecSolver creates an exec adapter
func NewExecSolver(config ExecConfig, log logging.Logger) *ExecSolver {
	if config.TimeLimitFlag == "" {
		config.TimeLimitFlag = "--time_limit"
	}
	if config.GapFlag == "" {
		config.GapFlag = "--mip_rel_gap"
	}
	if config.SolutionFileFlag == "" {
		config.SolutionFileFlag = "--solution_file"
	}
	if log == nil {
		log = logging.Noop()
	}
	return &ExecSolver{config: config, log: log}
}

// Verify interface compliance
var _ solve.Solver = (*ExecSolver)(nil)

// Solve writes the model, runs the binary and parses the solution file.
// Time-limit expiry with an incumbent comes back as
// StatusFeasibleWithinLimit, never as an error.
func (s *ExecSolver) Solve(ctx context.Context, m *model.Model, opts solve.Options) (*solve.Result, error) {
	if s.config.BinaryPath == "" {
		return nil, fmt.Errorf("no solver binary configured")
	}

	dir := s.config.WorkDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "planner-solve-*")
		if err != nil {
			return nil, fmt.Errorf("creating solve workdir: %w", err)
		}
		if !s.config.KeepFiles {
			defer os.RemoveAll(tmp)
		}
		dir = tmp
	}

	lpPath := filepath.Join(dir, m.Name+".lp")
	solPath := filepath.Join(dir, m.Name+".sol")

	f, err := os.Create(lpPath)
	if err != nil {
		return nil, fmt.Errorf("writing model file: %w", err)
	}
	if err := WriteLP(f, m); err != nil {
		f.Close()
		return nil, fmt.Errorf("serializing model: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	args := []string{lpPath, s.config.SolutionFileFlag, solPath}
	if opts.TimeLimit > 0 {
		args = append(args, s.config.TimeLimitFlag, strconv.FormatFloat(opts.TimeLimit.Seconds(), 'f', -1, 64))
	}
	if opts.RelativeGap > 0 {
		args = append(args, s.config.GapFlag, strconv.FormatFloat(opts.RelativeGap, 'f', -1, 64))
	}

	warmRejected := false
	if len(opts.WarmStart) > 0 {
		if s.config.WarmStartFlag == "" {
			// The binary cannot consume hints; the caller must know the
			// warm start went unused.
			warmRejected = true
			s.log.Warn("solver binary has no warm-start flag, hint ignored", "keys", len(opts.WarmStart))
		} else {
			mstPath := filepath.Join(dir, m.Name+".mst")
			mf, err := os.Create(mstPath)
			if err != nil {
				return nil, fmt.Errorf("writing warm-start file: %w", err)
			}
			if err := WriteWarmStart(mf, m, opts.WarmStart); err != nil {
				mf.Close()
				return nil, err
			}
			if err := mf.Close(); err != nil {
				return nil, err
			}
			args = append(args, s.config.WarmStartFlag, mstPath)
		}
	}
	args = append(args, s.config.ExtraArgs...)

	// Cancellation is time-limit-only: the context deadline backstops a
	// solver that ignores its own limit.
	runCtx := ctx
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.TimeLimit+30*time.Second)
		defer cancel()
	}

	started := time.Now()
	cmd := exec.CommandContext(runCtx, s.config.BinaryPath, args...)
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(started)
	if err != nil {
		if runCtx.Err() != nil {
			return nil, fmt.Errorf("solver killed after exceeding backstop deadline: %w", runCtx.Err())
		}
		// Many solvers exit nonzero on infeasibility; fall through to the
		// solution file and only fail when it is unreadable too.
		s.log.Debug("solver exited nonzero", "err", err.Error())
	}

	res, perr := s.parseSolution(m, solPath, string(out))
	if perr != nil {
		if err != nil {
			return nil, fmt.Errorf("solver failed: %v (no solution file: %w)", err, perr)
		}
		return nil, perr
	}
	res.Runtime = elapsed
	res.WarmStartRejected = res.WarmStartRejected || warmRejected
	return res, nil
}

// parseSolution reads a HiGHS-style solution file: a model-status line, an
// objective line, then name/value pairs.
func (s *ExecSolver) parseSolution(m *model.Model, path, stdout string) (*solve.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		// No file at all: decide from stdout.
		if containsFold(stdout, "infeasible") {
			return &solve.Result{Status: solve.StatusInfeasible}, nil
		}
		if containsFold(stdout, "unbounded") {
			return &solve.Result{Status: solve.StatusUnbounded}, nil
		}
		return nil, fmt.Errorf("reading solution file: %w", err)
	}
	defer f.Close()

	names := make(map[string]model.VarKey, m.NumVariables())
	for _, v := range m.Variables() {
		names[v.Key.Name()] = v.Key
	}

	res := &solve.Result{Status: solve.StatusError, Values: make(model.Assignment)}
	timeLimited := containsFold(stdout, "time limit")

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case lower == "optimal":
			res.Status = solve.StatusOptimal
		case lower == "infeasible":
			res.Status = solve.StatusInfeasible
		case lower == "unbounded":
			res.Status = solve.StatusUnbounded
		case strings.HasPrefix(lower, "objective"):
			fields := strings.Fields(line)
			if len(fields) == 2 {
				if obj, err := strconv.ParseFloat(fields[1], 64); err == nil {
					res.Objective = obj
				}
			}
		case strings.HasPrefix(lower, "gap"):
			fields := strings.Fields(line)
			if len(fields) == 2 {
				if gap, err := strconv.ParseFloat(fields[1], 64); err == nil {
					res.Gap = gap
				}
			}
		default:
			fields := strings.Fields(line)
			if len(fields) != 2 {
				continue
			}
			key, ok := names[fields[0]]
			if !ok {
				continue
			}
			x, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				continue
			}
			res.Values[key] = x
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning solution file: %w", err)
	}

	// A time-limited run that still produced values is a usable partial
	// result, distinct from true infeasibility.
	if res.Status == solve.StatusOptimal && timeLimited {
		res.Status = solve.StatusFeasibleWithinLimit
	}
	if res.Status == solve.StatusError && len(res.Values) > 0 && timeLimited {
		res.Status = solve.StatusFeasibleWithinLimit
	}
	if !res.Status.Usable() {
		res.Values = nil
	}
	return res, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
