package shell

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/steveyegge/workup/internal/scaffold"
	"github.com/steveyegge/workup/internal/setup"
	"github.com/steveyegge/workup/internal/team"
)

func (s *Shell) cmdDescribe(args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		return fmt.Errorf("usage: describe <text>")
	}
	s.state.Description = text
	s.ok("Description set")
	return nil
}

func (s *Shell) cmdDeliverables(args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		return fmt.Errorf("usage: deliverables <text>")
	}
	s.state.Deliverables = text
	s.ok("Deliverables set")
	return nil
}

func (s *Shell) cmdMember(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: member add|remove|list")
	}

	switch args[0] {
	case "add":
		members := team.ParseMembers([]string{strings.Join(args[1:], " ")})
		if len(members) == 0 {
			return fmt.Errorf("usage: member add <name>: <expertise>")
		}
		s.state.AddMember(members[0])
		s.ok(fmt.Sprintf("Added %s", members[0].Name))
	case "remove":
		name := strings.Join(args[1:], " ")
		if !s.state.RemoveMember(name) {
			return fmt.Errorf("no member named %q", name)
		}
		s.ok(fmt.Sprintf("Removed %s", name))
	case "list":
		if len(s.state.Members) == 0 {
			fmt.Fprintln(s.out, "No team members yet")
			return nil
		}
		fmt.Fprintln(s.out, team.ExpertiseList(s.state.Members))
	default:
		return fmt.Errorf("unknown member subcommand %q", args[0])
	}
	return nil
}

func (s *Shell) cmdRoster(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: roster <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read roster: %w", err)
	}
	members := team.ParseRoster(string(data))
	if len(members) == 0 {
		return fmt.Errorf("no team members found in %s", args[0])
	}
	for _, m := range members {
		s.state.AddMember(m)
	}
	s.ok(fmt.Sprintf("Loaded %d team members", len(members)))
	return nil
}

func (s *Shell) cmdLanguage(args []string) error {
	if len(args) == 0 {
		lang, err := scaffold.LookupLanguage(s.state.Language)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Language: %s (available: %s)\n", lang.Name, strings.Join(scaffold.Languages(), ", "))
		return nil
	}
	lang, err := scaffold.LookupLanguage(args[0])
	if err != nil {
		return err
	}
	s.state.Language = lang.Name
	s.ok(fmt.Sprintf("Language set to %s", lang.Name))
	return nil
}

func (s *Shell) cmdStatus(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(s.out, "\n%s\n\n", cyan("Project"))
	fmt.Fprintf(s.out, "  Session:      %s\n", s.state.ID)
	fmt.Fprintf(s.out, "  Description:  %s\n", orNone(s.state.Description))
	fmt.Fprintf(s.out, "  Deliverables: %s\n", orNone(s.state.Deliverables))
	fmt.Fprintf(s.out, "  Members:      %d\n", len(s.state.Members))
	lang := s.state.Language
	if lang == "" {
		lang = scaffold.DefaultLanguage
	}
	fmt.Fprintf(s.out, "  Language:     %s\n", lang)
	if s.state.Last != nil {
		fmt.Fprintf(s.out, "  Last run:     %d tasks\n", s.state.Last.Tasks.Len())
	}
	if s.usage != nil {
		fmt.Fprintf(s.out, "  Usage:        %s\n", s.usage.Stats())
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) cmdRun(args []string) error {
	res, err := s.runner.Run(s.ctx, s.state.Input(s.workDir))
	if err != nil {
		return err
	}
	s.state.Last = res

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	section := func(title, body string) {
		fmt.Fprintf(s.out, "\n%s\n%s\n", cyan(title), body)
	}
	section("Task Assignments", res.Assignments)
	section("Project Workflow", res.Workflow)
	section("Project Name Ideas", res.Names)
	section("Project Table", team.RenderTable(res.Table))
	fmt.Fprintln(s.out)

	s.artifact("Flowchart", res.Flowchart, res.FlowchartErr, "flowchart")
	s.artifact("Project structure", res.Archive, res.ArchiveErr, "project structure")
	return nil
}

func (s *Shell) artifact(label string, data []byte, err error, noun string) {
	if err != nil {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(s.out, "%s %s\n", yellow("⚠"), setup.Describe(noun, err))
		return
	}
	s.ok(fmt.Sprintf("%s ready (%d bytes)", label, len(data)))
}

func (s *Shell) cmdTable(args []string) error {
	if s.state.Last == nil {
		return fmt.Errorf("nothing generated yet, use 'run' first")
	}
	fmt.Fprintln(s.out, team.RenderTable(s.state.Last.Table))
	return nil
}

func (s *Shell) cmdSave(args []string) error {
	if s.state.Last == nil {
		return fmt.Errorf("nothing generated yet, use 'run' first")
	}
	dir := s.outputDir
	if len(args) > 0 {
		dir = args[0]
	}
	written, err := setup.WriteFiles(s.state.Last, dir)
	if err != nil {
		return err
	}
	for _, path := range written {
		s.ok(fmt.Sprintf("Wrote %s", path))
	}
	return nil
}

func (s *Shell) cmdFeedback(args []string) error {
	if err := s.state.AddFeedback(strings.Join(args, " ")); err != nil {
		return err
	}
	s.ok("Thank you for your feedback!")
	return nil
}

func (s *Shell) cmdShowFeedback(args []string) error {
	feedback := s.state.Feedback()
	if len(feedback) == 0 {
		fmt.Fprintln(s.out, "No feedback yet")
		return nil
	}
	for i, f := range feedback {
		fmt.Fprintf(s.out, "%d. [%s] %s\n", i+1, f.At.Format("15:04:05"), f.Text)
	}
	return nil
}

func (s *Shell) cmdReset(args []string) error {
	s.state.Reset()
	s.usage.Reset()
	s.logger.Debug("session reset", zap.String("session_id", s.state.ID))
	s.ok("Session reset")
	return nil
}

func (s *Shell) ok(msg string) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(s.out, "%s %s\n", green("✓"), msg)
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
