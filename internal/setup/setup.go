// Package setup runs the full project setup: ask the model for task
// assignments, a workflow and name ideas, then derive the flowchart, the
// starter archive and the project table from the assignments.
package setup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/flowchart"
	"github.com/steveyegge/workup/internal/gateway"
	"github.com/steveyegge/workup/internal/scaffold"
	"github.com/steveyegge/workup/internal/tasks"
	"github.com/steveyegge/workup/internal/team"
)

// Input is everything a setup run needs from the user.
type Input struct {
	Description  string
	Deliverables string
	Members      []team.Member

	// Language selects the starter-code language (default python).
	Language string

	// WorkDir is the parent for the archive's transient working directory.
	WorkDir string
}

// Result holds the text replies and derived artifacts of one run.
//
// Model failures appear as text starting with gateway.FailurePrefix.
// Artifact failures are kept per artifact so one failure does not hide the
// other outputs.
type Result struct {
	Assignments string
	Workflow    string
	Names       string

	Tasks *tasks.List
	Table []team.Row

	Flowchart    []byte
	FlowchartErr error

	Archive    []byte
	ArchiveErr error
}

// Runner executes setup runs against a gateway.
type Runner struct {
	gw     gateway.Gateway
	logger *zap.Logger
}

// NewRunner creates a Runner. A nil logger disables logging.
func NewRunner(gw gateway.Gateway, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{gw: gw, logger: logger}
}

// Run validates in, sends the three prompts concurrently and builds the
// artifacts. It returns an error only for invalid input; everything after
// validation is reported through the Result.
func (r *Runner) Run(ctx context.Context, in Input) (*Result, error) {
	if err := team.Validate(in.Description, in.Members); err != nil {
		return nil, err
	}
	if _, err := scaffold.LookupLanguage(in.Language); err != nil {
		return nil, err
	}

	res := &Result{}
	start := time.Now()

	var g errgroup.Group
	g.Go(func() error {
		res.Assignments = gateway.Text(ctx, r.gw, gateway.RoleWorkload,
			gateway.WorkloadPrompt(in.Description, in.Members))
		return nil
	})
	g.Go(func() error {
		res.Workflow = gateway.Text(ctx, r.gw, gateway.RoleWorkflow,
			gateway.WorkflowPrompt(in.Description))
		return nil
	})
	g.Go(func() error {
		res.Names = gateway.Text(ctx, r.gw, gateway.RoleNaming,
			gateway.NamingPrompt(in.Description))
		return nil
	})
	_ = g.Wait()

	r.logger.Debug("prompts completed", zap.Duration("duration", time.Since(start)))

	r.Derive(res, in)
	return res, nil
}

// Derive fills the parsed tasks, table and artifacts of res from
// res.Assignments. A failed assignments request counts as no tasks.
func (r *Runner) Derive(res *Result, in Input) {
	if gateway.IsFailure(res.Assignments) {
		res.Tasks = tasks.Parse("")
	} else {
		res.Tasks = tasks.Parse(res.Assignments)
	}
	res.Table = team.Rows(in.Members, res.Tasks)

	res.Flowchart, res.FlowchartErr = flowchart.Generate(res.Tasks)
	if res.FlowchartErr != nil {
		r.logger.Warn("flowchart generation failed", zap.Error(res.FlowchartErr))
	}

	res.Archive, res.ArchiveErr = scaffold.Scaffold(res.Tasks, in.Description, in.Deliverables, scaffold.Options{
		Language: in.Language,
		WorkDir:  in.WorkDir,
	})
	if res.ArchiveErr != nil {
		r.logger.Warn("project structure generation failed", zap.Error(res.ArchiveErr))
	}

	r.logger.Debug("artifacts derived",
		zap.Int("tasks", res.Tasks.Len()),
		zap.Int("flowchart_bytes", len(res.Flowchart)),
		zap.Int("archive_bytes", len(res.Archive)))
}

// NoTasks reports whether the run produced no parsable assignments.
func (res *Result) NoTasks() bool {
	return res.Tasks.Empty()
}

// Describe returns a user-facing message for an artifact error.
func Describe(artifact string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errs.ErrEmptyInput):
		return fmt.Sprintf("No tasks found to generate a %s.", artifact)
	case errors.Is(err, errs.ErrUnsupportedFormat):
		return fmt.Sprintf("Cannot generate %s: %v", artifact, err)
	default:
		return fmt.Sprintf("%s generation failed: %v", artifact, err)
	}
}
