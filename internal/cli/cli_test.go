package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoresCSV = "name,score\nbob,5\nann,3\ncat,4\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConvert_StdinToTSV(t *testing.T) {
	out, err := run(t, scoresCSV, "convert", "-", "--to", "tsv")
	require.NoError(t, err)
	assert.Equal(t, "name\tscore\nbob\t5\nann\t3\ncat\t4\n", out)
}

func TestConvert_SortRows(t *testing.T) {
	path := writeFile(t, scoresCSV)

	out, err := run(t, "", "convert", path, "--sort-rows", "score")
	require.NoError(t, err)
	assert.Equal(t, "name,score\nann,3\ncat,4\nbob,5\n", out)

	out, err = run(t, "", "convert", path, "--sort-rows=", "--omit-headers")
	require.NoError(t, err)
	assert.Equal(t, "ann,3\nbob,5\ncat,4\n", out, "no keys sorts by the row key column")
}

func TestConvert_SortColumns(t *testing.T) {
	out, err := run(t, "b,c,a\n1,2,3\n", "convert", "-", "--sort-columns", "c")
	require.NoError(t, err)
	assert.Equal(t, "c,a,b\n2,3,1\n", out)

	out, err = run(t, "b,c,a\n1,2,3\n", "convert", "-", "--sort-columns=")
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n3,1,2\n", out, "no keys orders columns by name")

	out, err = run(t, "3,1,2\n", "convert", "-", "--no-headers", "--sort-columns", "2")
	require.NoError(t, err)
	assert.Equal(t, "2,3,1\n", out, "unnamed columns keep their order")
}

func TestConvert_HTML(t *testing.T) {
	out, err := run(t, scoresCSV, "convert", "-", "--to", "html", "--caption", "Scores")
	require.NoError(t, err)
	assert.Contains(t, out, "<caption>Scores</caption>")
	assert.Contains(t, out, "<th>name</th>")
	assert.Contains(t, out, "<td>bob</td>")
}

func TestConvert_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("a\tb\n1\t2\n"))
	}))
	defer srv.Close()

	out, err := run(t, "", "convert", srv.URL, "--format", "tsv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", out)
}

func TestConvert_Errors(t *testing.T) {
	_, err := run(t, scoresCSV, "convert", "-", "--to", "xml")
	assert.ErrorIs(t, err, table.ErrUnrecognizedInput)

	_, err = run(t, scoresCSV, "convert", "-", "--format", "json")
	assert.ErrorIs(t, err, table.ErrUnrecognizedInput)

	_, err = run(t, scoresCSV, "convert", "-", "--sort-rows", "missing")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)

	_, err = run(t, "", "convert", filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "", "convert")
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	out, err := run(t, "v\n2\n4\n4\n4\n5\n5\n7\n9\n", "stats", "-", "--ref", "v", "--zscores")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"column", "v"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"count", "8"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"sum", "40"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"mean", "5"}, strings.Fields(lines[3]))
	assert.Equal(t, []string{"variance", "4"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"standardDeviation", "2"}, strings.Fields(lines[5]))
	assert.Equal(t, "zScores", strings.Fields(lines[6])[0])
	assert.Equal(t, "-1.5", strings.Fields(lines[6])[1])
}

func TestStats_RowRollingMean(t *testing.T) {
	out, err := run(t, "1,2,3,4,5\n", "stats", "-", "--axis", "row", "--ref", "0", "--neighbors", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "rollingMean(1)")
	assert.Contains(t, out, "1.5 2 3 4 4.5")
}

func TestStats_Errors(t *testing.T) {
	_, err := run(t, scoresCSV, "stats", "-")
	assert.ErrorIs(t, err, table.ErrInvalidRef)

	_, err = run(t, scoresCSV, "stats", "-", "--ref", "score", "--axis", "diagonal")
	assert.ErrorIs(t, err, table.ErrInvalidRef)

	_, err = run(t, scoresCSV, "stats", "-", "--ref", "age")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestCount(t *testing.T) {
	const fruit = "fruit,color\napple,red\npear,green\napple,green\n"

	out, err := run(t, fruit, "count", "-", "--column", "fruit")
	require.NoError(t, err)
	assert.Equal(t, "apple,pear\n2,1\n", out)

	out, err = run(t, fruit, "count", "-", "--column", "color", "--vertical")
	require.NoError(t, err)
	assert.Equal(t, "value,count\nred,1\ngreen,2\n", out)

	out, err = run(t, fruit, "count", "-", "--vertical", "--to", "tsv")
	require.NoError(t, err)
	assert.Equal(t, "value\tcount\napple\t2\nred\t1\npear\t1\ngreen\t2\n", out)

	_, err = run(t, fruit, "count", "-", "--column", "size")
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestExecute_ExitCode(t *testing.T) {
	assert.Equal(t, 1, Execute(context.Background(), []string{"convert", filepath.Join(t.TempDir(), "missing.csv")}))
	assert.Equal(t, 0, Execute(context.Background(), []string{"--version"}))
}
