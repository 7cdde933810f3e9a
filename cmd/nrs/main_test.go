package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrs-lang/nrs"
	"github.com/nrs-lang/nrs/analysis"
)

func writeSource(t *testing.T, dir, name, text string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	return path
}

func runApp(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out

	require.NoError(t, app.Run(context.Background(), append([]string{"nrs"}, args...)))

	return out.String()
}

func TestCommands(t *testing.T) {
	t.Parallel()

	path := writeSource(t, t.TempDir(), "main.nrs", "x := 1\nf := |a| a + x\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "hover name",
			args: []string{"hover", path, "7"},
			want: "(Number) -> Number\n",
		},
		{
			name: "hints",
			args: []string{"hints", path},
			want: "1:2: Number\n2:2: (Number) -> Number\n",
		},
		{
			name: "hints json",
			args: []string{"hints", "--json", path},
			want: `[[1,2,"Number"],[8,9,"(Number) -> Number"]]` + "\n",
		},
		{
			name: "tokens",
			args: []string{"tokens", path},
			want: "0 0 1 1 0\tvariable\n" +
				"0 2 2 6 0\toperator\n" +
				"0 3 1 4 0\tnumber\n" +
				"1 0 1 0 0\tfunction\n" +
				"0 2 2 6 0\toperator\n" +
				"0 3 1 6 0\toperator\n" +
				"0 1 1 1 0\tvariable\n" +
				"0 3 1 1 0\tvariable\n" +
				"0 2 1 6 0\toperator\n" +
				"0 2 1 1 0\tvariable\n",
		},
		{
			name: "check clean file",
			args: []string{"check", path},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, runApp(t, tt.args...))
		})
	}
}

func TestPrintDiagnostics(t *testing.T) {
	t.Parallel()

	f := analysis.NewAnalyzer(analysis.UTF16).Analyze("bad.nrs", "x := 1\ny := zz")

	var out bytes.Buffer

	hasErrors := printDiagnostics(&out, DefaultStyles(&out), f)

	assert.True(t, hasErrors)
	assert.Equal(t, "bad.nrs:2:6: error: undefined variable `zz` [type-error]\n", out.String())
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	styles := DefaultStyles(&out)
	text := "// hi\nx := 1"
	res := nrs.Analyze(text)

	got := highlight(styles, text, analysis.Classify(res.Tokens, res.Forest, res.Table))

	// Non-terminal writers get the source back unchanged.
	assert.Equal(t, text, got)
}

func TestCollectFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeSource(t, dir, "a.nrs", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o700))
	b := writeSource(t, filepath.Join(dir, "sub"), "b.nrs", "")
	writeSource(t, dir, "notes.txt", "")

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "missing.nrs")})
	assert.Error(t, err)
}
