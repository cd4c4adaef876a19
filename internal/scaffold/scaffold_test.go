package scaffold

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/tasks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// readZip returns the archive entries keyed by name, failing on duplicates.
func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		_, dup := out[f.Name]
		require.False(t, dup, "duplicate entry %s", f.Name)
		assert.Equal(t, zip.Deflate, f.Method, f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(body)
	}
	return out
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestScaffold_TwoMembers(t *testing.T) {
	l := tasks.Parse("Alice: Design the database schema\nBob: Build the REST API")

	data, err := Scaffold(l, "A task tracker", "Working API", Options{WorkDir: t.TempDir()})
	require.NoError(t, err)

	files := readZip(t, data)
	assert.Equal(t, []string{
		"code/Alice_task.py",
		"code/Bob_task.py",
		"code/requirements.txt",
		"docs/Alice_task.txt",
		"docs/Bob_task.txt",
		"docs/deliverables.txt",
		"docs/project_description.txt",
	}, keys(files))

	assert.Equal(t, "A task tracker\n", files["docs/project_description.txt"])
	assert.Equal(t, "Working API\n", files["docs/deliverables.txt"])
	assert.Equal(t, "Member: Alice\nTask: Design the database schema\n", files["docs/Alice_task.txt"])

	stub := files["code/Alice_task.py"]
	assert.True(t, strings.HasPrefix(stub, "# Starter code for Alice\n"))
	assert.Contains(t, stub, "def Design_the_database_schema():\n    pass\n")
}

func TestScaffold_EmptyInput(t *testing.T) {
	_, err := Scaffold(tasks.Parse(""), "d", "x", Options{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrEmptyInput))
}

func TestScaffold_UnsupportedLanguage(t *testing.T) {
	_, err := Scaffold(tasks.Parse("A: b"), "", "", Options{Language: "cobol"})

	assert.True(t, errors.Is(err, errs.ErrUnsupportedFormat))
}

func TestScaffold_OneStubAndSummaryPerSanitizedMember(t *testing.T) {
	inputs := []string{
		"A: 1",
		"Jo@n Doe!!: x\nJo#n Doe??: y\nZed: z",
		"Alice: one\nBob: two\nAlice: three",
	}

	for _, in := range inputs {
		l := tasks.Parse(in)
		distinct := map[string]bool{}
		for _, m := range l.Members() {
			distinct[Sanitize(m)] = true
		}

		data, err := Scaffold(l, "desc", "deliv", Options{WorkDir: t.TempDir()})
		require.NoError(t, err, in)
		files := readZip(t, data)

		assert.Len(t, files, 2*len(distinct)+3, in)
		for name := range distinct {
			assert.Contains(t, files, "docs/"+name+"_task.txt", in)
			assert.Contains(t, files, "code/"+name+"_task.py", in)
		}
	}
}

func TestScaffold_SanitizedCollisionLastWriteWins(t *testing.T) {
	root, err := BuildTree(tasks.Parse("Jo@n: first\nJo#n: second"), "", "", Options{})
	require.NoError(t, err)

	docs, _ := root.Child(DocsDir)
	summary, ok := docs.Child("Jo_n_task.txt")
	require.True(t, ok)
	assert.Equal(t, "Member: Jo#n\nTask: second\n", summary.Content)
}

func TestScaffold_JavaScript(t *testing.T) {
	l := tasks.Parse("Alice: build-ui\nBob: 3d render")

	data, err := Scaffold(l, "", "", Options{Language: "JavaScript", ProjectName: "tracker", WorkDir: t.TempDir()})
	require.NoError(t, err)
	files := readZip(t, data)

	assert.Contains(t, files["code/Alice_task.js"], "function build_ui() {")
	assert.Contains(t, files["code/Bob_task.js"], "function _3d_render() {")
	assert.Contains(t, files["code/Bob_task.js"], "module.exports = { _3d_render };")

	var pkg map[string]string
	require.NoError(t, json.Unmarshal([]byte(files["code/package.json"]), &pkg))
	assert.Equal(t, "tracker", pkg["name"])
}

func TestScaffold_RemovesWorkingDirectory(t *testing.T) {
	work := t.TempDir()

	_, err := Scaffold(tasks.Parse("A: b"), "", "", Options{WorkDir: work})
	require.NoError(t, err)

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchive_MissingWorkDir(t *testing.T) {
	root, err := BuildTree(tasks.Parse("A: b"), "", "", Options{})
	require.NoError(t, err)

	_, err = Archive(root, "/nonexistent/workup/parent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrArchiveWrite))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestScaffold_LongMemberName(t *testing.T) {
	long := "In summary, the team " + strings.Repeat("will split the work evenly and ", 9) + "see below"
	require.Greater(t, len(long), 300)
	work := t.TempDir()

	data, err := Scaffold(tasks.Parse(long+": details\nAlice: Design schema"), "", "", Options{WorkDir: work})
	require.NoError(t, err)

	files := readZip(t, data)
	stem := FileStem(long)
	assert.LessOrEqual(t, len(stem), maxStemBytes)
	assert.Contains(t, files, "docs/"+stem+"_task.txt")
	assert.Contains(t, files, "code/"+stem+"_task.py")
	assert.Contains(t, files, "code/Alice_task.py")
	assert.Len(t, files, 7)

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "Jo_n_Doe__", FileStem("Jo@n Doe!!"))

	a := strings.Repeat("a", 150) + "x"
	b := strings.Repeat("a", 150) + "y"
	assert.Len(t, FileStem(a), maxStemBytes)
	assert.NotEqual(t, FileStem(a), FileStem(b))
	assert.Equal(t, FileStem(a+"@"), FileStem(a+"#"))
}

func TestArchive_RemovesWorkingDirectoryOnFailure(t *testing.T) {
	work := t.TempDir()
	root := Dir()
	root.Put(DocsDir, Dir()).Put(strings.Repeat("x", 300)+".txt", File("too long"))

	_, err := Archive(root, work)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrArchiveWrite))

	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStub_HeaderStaysInComments(t *testing.T) {
	breaks := "\r\n\v\f\x00\x1c\x1d\x1e\u0085\u2028\u2029"
	for _, tt := range []struct {
		lang, comment, code string
	}{
		{"python", "#", "def "},
		{"javascript", "//", "function "},
	} {
		t.Run(tt.lang, func(t *testing.T) {
			lang, err := LookupLanguage(tt.lang)
			require.NoError(t, err)

			stub := lang.Stub("Alice\r)))", "x\u2028y = (\u2029z\rw")

			var header []string
			for _, line := range strings.Split(stub, "\n") {
				if strings.HasPrefix(line, tt.code) {
					break
				}
				header = append(header, line)
			}
			for _, line := range header {
				assert.False(t, strings.ContainsAny(line, breaks), "%q", line)
				if line != "" {
					assert.True(t, strings.HasPrefix(line, tt.comment), "%q", line)
				}
			}
			assert.Contains(t, stub, tt.comment+" Starter code for Alice )))\n")
			assert.Contains(t, stub, tt.comment+" Task: x y = ( z w\n")
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Jo_n_Doe__", Sanitize("Jo@n Doe!!"))
	assert.Equal(t, "keep-this_1", Sanitize("keep-this_1"))
	assert.Equal(t, "Zo_", Sanitize("Zoë"))
	assert.Equal(t, "", Sanitize(""))

	for _, s := range []string{"Jo@n Doe!!", "a/b\\c", "日本", "x y-z", ""} {
		once := Sanitize(s)
		assert.Equal(t, once, Sanitize(once), s)
	}
}

func TestStub_Deterministic(t *testing.T) {
	lang, err := LookupLanguage("")
	require.NoError(t, err)

	a := lang.Stub("Alice", "Design schema")
	b := lang.Stub("Alice", "Design schema")
	assert.Equal(t, a, b)
}

func TestIdentifier(t *testing.T) {
	py, err := LookupLanguage("python")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"Build the REST API", "Build_the_REST_API"},
		{"", "task"},
		{"2fa login", "_2fa_login"},
		{"pass", "pass_"},
		{"set-up CI", "set_up_CI"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, identifier(tt.in, py.reserved), tt.in)
	}
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"javascript", "python"}, Languages())
}

func TestTree_PutReplacesInPlace(t *testing.T) {
	root := Dir()
	root.Put("b", File("1"))
	root.Put("a", File("2"))
	root.Put("b", File("3"))

	assert.Equal(t, []string{"b", "a"}, root.Names())
	b, _ := root.Child("b")
	assert.Equal(t, "3", b.Content)
	assert.Equal(t, []string{"b", "a"}, root.Files())
}

func TestTree_PutOnFilePanics(t *testing.T) {
	assert.Panics(t, func() { File("x").Put("y", File("z")) })
}
