package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/steveyegge/workup/internal/config"
	"github.com/steveyegge/workup/internal/cost"
	"github.com/steveyegge/workup/internal/gateway"
	"github.com/steveyegge/workup/internal/logging"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	usage  *cost.Tracker

	// newGateway builds the LLM client for commands that need one.
	newGateway = func(ctx context.Context) (gateway.Gateway, error) {
		gc, err := cfg.Gateway()
		if err != nil {
			return nil, err
		}
		gc.Logger = logger
		gc.Usage = usage
		return gateway.New(ctx, gc)
	}
)

var rootCmd = &cobra.Command{
	Use:   "workup",
	Short: "workup - plan a team project with an LLM",
	Long: `workup turns a project description and a team roster into task
assignments, a workflow, name ideas, a flowchart and a starter-code archive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(); err != nil {
			return err
		}
		return loadConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

func initLogger() error {
	var err error
	logger, err = logging.New(verbose)
	return err
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}
	usage = cfg.UsageTracker()
	logger.Debug("configuration loaded",
		zap.String("path", cfgPath),
		zap.String("provider", cfg.Provider))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		stop()
		os.Exit(1)
	}
}

// readInput returns the contents of the file named by args[0], or standard
// input when there is no argument or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

// textFlag returns the literal value, or the contents of file when set.
func textFlag(value, file string) (string, error) {
	if file == "" {
		return value, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}
	return string(data), nil
}

func success(w io.Writer, format string, a ...any) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, a...))
}

func warn(w io.Writer, format string, a ...any) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, a...))
}
