package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jacoelho/jsort/internal/codec"
	"github.com/jacoelho/jsort/internal/config"
	"github.com/jacoelho/jsort/internal/sortspec"
)

const ageSpec = `{"items": {"sortBy": ["age"]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// encoded returns doc as the runner would print it.
func encoded(t *testing.T, doc string, format codec.Format) string {
	t.Helper()

	v, err := codec.DecodeBytes([]byte(doc), codec.FormatJSON)
	require.NoError(t, err)
	out, err := codec.EncodeBytes(v, format)
	require.NoError(t, err)
	return string(out)
}

type harness struct {
	runner *Runner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	logs   *observer.ObservedLogs
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()

	if cfg.Workers == 0 {
		cfg.Workers = 2
	}

	core, logs := observer.New(zapcore.InfoLevel)
	r, err := New(cfg, zap.New(core))
	require.NoError(t, err)

	h := &harness{runner: r, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, logs: logs}
	r.SetOutput(h.stdout)
	r.SetErrorOutput(h.stderr)
	return h
}

func TestRun_PrintsInInputOrder(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)

	var inputs []string
	var want strings.Builder
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json"} {
		inputs = append(inputs, writeFile(t, dir, name, `{"items": [{"age": 2, "n": "`+name+`"}, {"age": 1}]}`))
		want.WriteString(encoded(t, `{"items": [{"age": 1}, {"age": 2, "n": "`+name+`"}]}`, codec.FormatJSON))
	}

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: inputs, Workers: 3})
	summary, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Processed: 4, Changed: 4}, summary)
	if diff := cmp.Diff(want.String(), h.stdout.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, h.stderr.String())
}

func TestRun_Stdin(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{config.Stdin}})
	h.runner.SetInput(strings.NewReader(`{"items": [{"age": 9}, {"age": 3}]}`))

	summary, err := h.runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, encoded(t, `{"items": [{"age": 3}, {"age": 9}]}`, codec.FormatJSON), h.stdout.String())
}

func TestRun_YAMLToJSON(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.yaml", "items:\n  sortBy: [age]\n  direction: [desc]\n")
	input := writeFile(t, dir, "doc.yaml", "items:\n  - age: 1\n  - age: 5\n")

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{input}, OutputFormat: codec.FormatJSON})
	_, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, encoded(t, `{"items": [{"age": 5}, {"age": 1}]}`, codec.FormatJSON), h.stdout.String())
}

func TestRun_WriteBack(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	unsorted := writeFile(t, dir, "unsorted.json", `{"items": [{"age": 2}, {"age": 1}]}`)
	sortedContent := `{"items":[{"age":1},{"age":2}]}`
	sorted := writeFile(t, dir, "sorted.json", sortedContent)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{unsorted, sorted}, Write: true})
	summary, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{Processed: 2, Changed: 1}, summary)
	assert.Empty(t, h.stdout.String())

	got, err := os.ReadFile(unsorted)
	require.NoError(t, err)
	assert.Equal(t, encoded(t, `{"items": [{"age": 1}, {"age": 2}]}`, codec.FormatJSON), string(got))

	untouched, err := os.ReadFile(sorted)
	require.NoError(t, err)
	assert.Equal(t, sortedContent, string(untouched), "layout only differences must not be rewritten")
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	unsorted := writeFile(t, dir, "unsorted.json", `{"items": [{"age": 2}, {"age": 1}]}`)
	sorted := writeFile(t, dir, "sorted.json", `{"items": [{"age": 1}, {"age": 2}]}`)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{unsorted, sorted}, Check: true})
	summary, err := h.runner.Run(context.Background())
	require.ErrorIs(t, err, ErrUnsorted)

	assert.Equal(t, Summary{Processed: 2, Changed: 1}, summary)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "--- "+unsorted)
	assert.NotContains(t, h.stderr.String(), sorted)
	assert.Regexp(t, `(?m)^-\s+"age": [12]$`, h.stderr.String())
}

func TestRun_CheckSorted(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	sorted := writeFile(t, dir, "sorted.json", `{"items": [{"age": 1}, {"age": 2}]}`)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{sorted}, Check: true})
	summary, err := h.runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Processed: 1}, summary)
	assert.Empty(t, h.stderr.String())
}

func TestRun_Select(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	input := writeFile(t, dir, "doc.json", `{"items": [{"age": 2, "name": "old"}, {"age": 1, "name": "young"}]}`)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{input}, Select: "$.items[0].name"})
	_, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, encoded(t, `["young"]`, codec.FormatJSON), h.stdout.String())
}

func TestRun_FailedInputDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	bad := writeFile(t, dir, "bad.json", `{"items": [{"age": 2}, {"age": "two"}]}`)
	broken := writeFile(t, dir, "broken.json", `{"items": [`)
	good := writeFile(t, dir, "good.json", `{"items": [{"age": 2}, {"age": 1}]}`)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{bad, broken, good}})
	summary, err := h.runner.Run(context.Background())
	require.ErrorIs(t, err, ErrFailed)

	assert.Equal(t, Summary{Processed: 1, Changed: 1, Failed: 2}, summary)
	assert.Equal(t, encoded(t, `{"items": [{"age": 1}, {"age": 2}]}`, codec.FormatJSON), h.stdout.String())

	failures := h.logs.FilterMessage("failed").All()
	require.Len(t, failures, 2)
	assert.Equal(t, bad, failures[0].ContextMap()["path"])
	assert.Contains(t, failures[0].ContextMap()["error"], "sort transform failed")
	assert.Contains(t, failures[1].ContextMap()["error"], "decode")
}

func TestRun_LogsCarryRunID(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	a := writeFile(t, dir, "a.json", `{"items": []}`)
	b := writeFile(t, dir, "b.json", `{"items": []}`)

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{a, b}})
	_, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	entries := h.logs.FilterMessage("processed").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()["run_id"]
	assert.NotEmpty(t, first)
	assert.Equal(t, first, entries[1].ContextMap()["run_id"])
}

func TestRun_Canceled(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", ageSpec)
	input := writeFile(t, dir, "doc.json", `{"items": []}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := newHarness(t, &config.Config{SpecFile: spec, Inputs: []string{input}})
	summary, err := h.runner.Run(ctx)
	require.ErrorIs(t, err, ErrFailed)
	assert.Equal(t, 1, summary.Failed)
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		spec    string
		sel     string
		wantErr error
	}{
		{name: "empty spec", spec: `{}`, wantErr: sortspec.ErrSpec},
		{name: "spec not an object", spec: `[1]`, wantErr: sortspec.ErrSpec},
		{name: "malformed spec", spec: `{"items":`, wantErr: codec.ErrDecode},
		{name: "bad select", spec: ageSpec, sel: "$[", wantErr: ErrInvalidSelect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".json", tt.spec)
			_, err := New(&config.Config{SpecFile: spec, Workers: 1, Select: tt.sel}, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDumpSpec(t *testing.T) {
	dir := t.TempDir()
	spec := writeFile(t, dir, "spec.json", `{"shelves": {"*": {"sortBy": ["title"], "direction": ["desc"]}}}`)

	h := newHarness(t, &config.Config{SpecFile: spec})
	h.runner.DumpSpec()

	out := h.stdout.String()
	assert.Contains(t, out, "sortspec.Transform")
	assert.Contains(t, out, `"shelves"`)
	assert.Contains(t, out, `"title"`)
}
