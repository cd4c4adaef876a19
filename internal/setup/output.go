package setup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steveyegge/workup/internal/team"
)

// Output file names written by WriteFiles.
const (
	FlowchartFile = "flowchart.png"
	ArchiveFile   = "project_structure.zip"
	TableFile     = "project_table.csv"
)

// WriteFiles saves the artifacts of res into dir and returns the paths it
// wrote. Artifacts that failed to generate are skipped.
func WriteFiles(res *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var buf bytes.Buffer
	if len(res.Table) > 0 {
		if err := team.WriteCSV(&buf, res.Table); err != nil {
			return nil, err
		}
	}

	outputs := []struct {
		name string
		data []byte
	}{
		{FlowchartFile, res.Flowchart},
		{ArchiveFile, res.Archive},
		{TableFile, buf.Bytes()},
	}

	var written []string
	for _, o := range outputs {
		if len(o.data) == 0 {
			continue
		}
		path := filepath.Join(dir, o.name)
		if err := os.WriteFile(path, o.data, 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", o.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
