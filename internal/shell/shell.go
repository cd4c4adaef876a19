// Package shell implements the interactive workup shell: a line-oriented
// prompt for entering a project description and team, running setup and
// reviewing the results.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/steveyegge/workup/internal/cost"
	"github.com/steveyegge/workup/internal/session"
	"github.com/steveyegge/workup/internal/setup"
)

// Shell is the interactive prompt.
type Shell struct {
	state     *session.State
	runner    *setup.Runner
	logger    *zap.Logger
	usage     *cost.Tracker
	out       io.Writer
	outputDir string
	workDir   string

	rl       *readline.Instance
	ctx      context.Context
	commands map[string]CommandHandler
}

// CommandHandler handles one command. args are the whitespace-separated
// words after the command name.
type CommandHandler func(args []string) error

// Config holds shell configuration.
type Config struct {
	State  *session.State
	Runner *setup.Runner
	Logger *zap.Logger

	// Usage is the gateway's token tracker, shown by "status" and cleared
	// by "reset". Optional.
	Usage *cost.Tracker

	// Out receives command output; defaults to os.Stdout.
	Out io.Writer

	// OutputDir is where "save" writes artifacts by default.
	OutputDir string

	// WorkDir is the parent for transient archive directories.
	WorkDir string
}

// New creates a shell over a caller-owned session.
func New(cfg *Config) (*Shell, error) {
	if cfg.State == nil {
		return nil, fmt.Errorf("session state is required")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("setup runner is required")
	}

	s := &Shell{
		state:     cfg.State,
		runner:    cfg.Runner,
		logger:    cfg.Logger,
		usage:     cfg.Usage,
		out:       cfg.Out,
		outputDir: cfg.OutputDir,
		workDir:   cfg.WorkDir,
		ctx:       context.Background(),
		commands:  make(map[string]CommandHandler),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.outputDir == "" {
		s.outputDir = "."
	}

	s.registerCommands()
	return s, nil
}

// Run starts the prompt loop and returns when the user exits.
func (s *Shell) Run(ctx context.Context) error {
	s.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("workup> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	s.rl = rl

	s.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			} else if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := s.processInput(line); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Fprintf(s.out, "%s %v\n", red("Error:"), err)
		}
	}
}

// processInput dispatches a single line of input.
func (s *Shell) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	if handler, ok := s.commands[strings.ToLower(parts[0])]; ok {
		return handler(parts[1:])
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(s.out, "%s Unknown command %q. Use 'help' for available commands.\n", yellow("Note:"), parts[0])
	return nil
}

func (s *Shell) registerCommands() {
	s.commands["help"] = s.cmdHelp
	s.commands["?"] = s.cmdHelp
	s.commands["describe"] = s.cmdDescribe
	s.commands["deliverables"] = s.cmdDeliverables
	s.commands["member"] = s.cmdMember
	s.commands["roster"] = s.cmdRoster
	s.commands["language"] = s.cmdLanguage
	s.commands["status"] = s.cmdStatus
	s.commands["run"] = s.cmdRun
	s.commands["table"] = s.cmdTable
	s.commands["save"] = s.cmdSave
	s.commands["feedback"] = s.cmdFeedback
	s.commands["show-feedback"] = s.cmdShowFeedback
	s.commands["reset"] = s.cmdReset
	s.commands["exit"] = s.cmdExit
	s.commands["quit"] = s.cmdExit
}

func (s *Shell) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(s.out, "\n%s\n", cyan("Welcome to workup"))
	fmt.Fprintln(s.out, "Plan a team project: tasks, workflow, flowchart and starter code")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Type 'help' for available commands, 'exit' to quit")
	fmt.Fprintln(s.out)
}

func (s *Shell) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(s.out, "\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"describe <text>", "Set the project description"},
		{"deliverables <text>", "Set the expected deliverables"},
		{"member add <name>: <expertise>", "Add or update a team member"},
		{"member remove <name>", "Remove a team member"},
		{"member list", "List team members"},
		{"roster <file>", "Load team members from an expertise file"},
		{"language [name]", "Show or set the starter-code language"},
		{"status", "Show the current project inputs"},
		{"run", "Generate tasks, workflow, names and artifacts"},
		{"table", "Show the project table from the last run"},
		{"save [dir]", "Write the last run's artifacts to a directory"},
		{"feedback <text>", "Leave feedback on the output"},
		{"show-feedback", "Show feedback left in this session"},
		{"reset", "Clear everything and start over"},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit the shell"},
	}
	for _, cmd := range commands {
		fmt.Fprintf(s.out, "  %s  %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(s.out, "\n%s Goodbye!\n", green("✓"))
	if s.rl != nil {
		s.rl.Close()
	}
	return io.EOF
}
