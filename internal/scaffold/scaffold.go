package scaffold

import (
	"fmt"
	"strings"

	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/tasks"
)

// Top-level layout of every generated project.
const (
	DocsDir            = "docs"
	CodeDir            = "code"
	DescriptionFile    = "project_description.txt"
	DeliverablesFile   = "deliverables.txt"
	defaultProjectName = "project-name"
)

// Options controls scaffold generation.
type Options struct {
	// Language selects the stub language. Empty means DefaultLanguage.
	Language string

	// ProjectName is written into manifests that carry a name.
	ProjectName string

	// WorkDir is the parent of the transient working directory. Empty
	// means the system temp directory.
	WorkDir string
}

// Scaffold builds the project tree for l and returns it as zip bytes.
//
// It fails with errs.ErrEmptyInput when l is empty, errs.ErrUnsupportedFormat
// for an unknown language and errs.ErrArchiveWrite on I/O failure.
func Scaffold(l *tasks.List, description, deliverables string, opts Options) ([]byte, error) {
	root, err := BuildTree(l, description, deliverables, opts)
	if err != nil {
		return nil, err
	}
	return Archive(root, opts.WorkDir)
}

// BuildTree returns the in-memory project tree:
//
//	docs/project_description.txt
//	docs/deliverables.txt
//	docs/<member>_task.txt
//	code/<member>_task.<ext>
//	code/<manifest>
//
// Members that sanitize to the same name share one entry; the later member
// wins.
func BuildTree(l *tasks.List, description, deliverables string, opts Options) (*Node, error) {
	if l.Empty() {
		return nil, fmt.Errorf("scaffold: %w", errs.ErrEmptyInput)
	}
	lang, err := LookupLanguage(opts.Language)
	if err != nil {
		return nil, fmt.Errorf("scaffold: %w", err)
	}

	root := Dir()
	docs := root.Put(DocsDir, Dir())
	code := root.Put(CodeDir, Dir())

	docs.Put(DescriptionFile, File(textEntry(description)))
	docs.Put(DeliverablesFile, File(textEntry(deliverables)))

	for _, e := range l.Entries() {
		name := FileStem(e.Member)
		docs.Put(name+"_task.txt", File(taskSummary(e)))
		code.Put(lang.StubName(name), File(lang.Stub(e.Member, e.Description)))
	}

	project := opts.ProjectName
	if project == "" {
		project = defaultProjectName
	}
	manifest, err := lang.manifest(project)
	if err != nil {
		return nil, fmt.Errorf("scaffold: render %s: %w", lang.Manifest, err)
	}
	code.Put(lang.Manifest, File(manifest))

	return root, nil
}

func textEntry(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s + "\n"
}

func taskSummary(e tasks.Entry) string {
	return fmt.Sprintf("Member: %s\nTask: %s\n", e.Member, e.Description)
}
