package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/splice/merge"
)

const (
	baseA = `package demo;

public class A {
    int x;
    int get() {
        return x;
    }
}
`
	candidateA = `package demo;

public class A {
    int x;
    int get() {
        return x + 1;
    }
    void reset() {
        x = 0;
    }
}
`
)

// run executes the CLI in an empty working directory and home, so no
// stray config or .env file is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeJava(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMergeCommandPrintsResult(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)

	out, err := run(t, "merge", base, candidate)
	require.NoError(t, err)

	want, err := merge.Merge(context.Background(), []byte(baseA), []byte(candidateA))
	require.NoError(t, err)
	assert.Equal(t, string(want.Text), out)
	assert.Contains(t, out, "return x + 1;")
	assert.Contains(t, out, "void reset()")
	assert.Equal(t, baseA, readString(t, base))
}

func TestMergeCommandWritesInPlace(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)

	out, err := run(t, "merge", "-w", base, candidate)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, readString(t, base), "void reset()")
}

func TestMergeCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)
	output := filepath.Join(dir, "merged.java")

	_, err := run(t, "merge", "-o", output, base, candidate)
	require.NoError(t, err)
	assert.Contains(t, readString(t, output), "return x + 1;")
	assert.Equal(t, baseA, readString(t, base))
}

func TestMergeCommandDiff(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)

	out, err := run(t, "merge", "--diff", base, candidate)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "--- "+base+"\n+++ "+base+"\n"), out)
	assert.Contains(t, out, "-        return x;\n")
	assert.Contains(t, out, "+        return x + 1;\n")
}

func TestMergeCommandTree(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)

	out, err := run(t, "merge", "--tree", base, candidate)
	require.NoError(t, err)
	assert.Contains(t, out, "public class A {")
	assert.Contains(t, out, "void reset() {")
}

func TestMergeCommandErrors(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	broken := writeJava(t, dir, "candidate/A.java", "class {")
	text := writeJava(t, dir, "notes.txt", baseA)

	_, err := run(t, "merge", base, text)
	assert.ErrorContains(t, err, "expected .java file")

	_, err = run(t, "merge", base, broken)
	assert.ErrorIs(t, err, merge.ErrParseFailure)

	_, err = run(t, "merge", base)
	assert.Error(t, err)
}

func TestMergeCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", strings.Replace(candidateA, "public class", "class", 1))
	cfg := filepath.Join(dir, "splice.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("merge:\n  modifiers: keep\n"), 0o644))

	out, err := run(t, "--config", cfg, "merge", base, candidate)
	require.NoError(t, err)
	assert.Contains(t, out, "public class A {")

	out, err = run(t, "merge", base, candidate)
	require.NoError(t, err)
	assert.NotContains(t, out, "public class A {")

	require.NoError(t, os.WriteFile(cfg, []byte("merge:\n  modifiers: sometimes\n"), 0o644))
	_, err = run(t, "--config", cfg, "merge", base, candidate)
	assert.ErrorIs(t, err, merge.ErrUnknownModifierPolicy)
}

func TestPlanCommandJSON(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)

	out, err := run(t, "plan", "--format", "json", base, candidate)
	require.NoError(t, err)

	var got plan
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got.Decisions, merge.Record{
		Action:    "insert",
		Target:    "method",
		Signature: "reset()",
		Text:      "void reset() {\n        x = 0;\n    }",
	})
	for _, d := range got.Decisions {
		assert.NotEqual(t, "leave", d.Action)
	}
	assert.NotEmpty(t, got.Edits)

	out, err = run(t, "plan", "--format", "json", "--all", base, candidate)
	require.NoError(t, err)
	assert.Contains(t, out, `"action": "leave"`)
}

func TestPlanCommandTable(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "base/A.java", baseA)
	candidate := writeJava(t, dir, "candidate/A.java", candidateA)

	out, err := run(t, "plan", base, candidate)
	require.NoError(t, err)
	assert.Contains(t, out, "Decisions")
	assert.Contains(t, out, "Edits")
	assert.Contains(t, out, "reset()")
	assert.Contains(t, out, "return x + 1;")

	out, err = run(t, "plan", "-f", "yaml", base, candidate)
	require.NoError(t, err)
	assert.Contains(t, out, "decisions:")

	_, err = run(t, "plan", "-f", "csv", base, candidate)
	assert.ErrorContains(t, err, "unknown format")
}

func TestDumpCommand(t *testing.T) {
	dir := t.TempDir()
	base := writeJava(t, dir, "A.java", baseA)

	out, err := run(t, "dump", base)
	require.NoError(t, err)
	assert.Contains(t, out, "TypeDeclaration class A")

	out, err = run(t, "dump", "-f", "line", base)
	require.NoError(t, err)
	assert.Contains(t, out, "method\tA\tget\tint\t()\t-\n")

	out, err = run(t, "dump", "--positions", base)
	require.NoError(t, err)
	assert.Contains(t, out, "CompilationUnit [0,")

	_, err = run(t, "dump", "-f", "xml", base)
	assert.ErrorContains(t, err, "unknown format")
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "A.java", "package demo;\nclass A{\n  int x;\n}\n")

	out, err := run(t, "fmt", path)
	require.NoError(t, err)
	assert.Equal(t, "package demo;\n\nclass A {\n    int x;\n}\n", out)

	_, err = run(t, "fmt", "-w", path)
	require.NoError(t, err)
	assert.Equal(t, out, readString(t, path))
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "base")
	candidateDir := filepath.Join(dir, "candidate")
	outDir := filepath.Join(dir, "out")

	writeJava(t, baseDir, "A.java", baseA)
	writeJava(t, candidateDir, "A.java", candidateA)
	writeJava(t, baseDir, "sub/B.java", "class B {}\n")
	writeJava(t, candidateDir, "sub/B.java", "class B {}\n")
	writeJava(t, candidateDir, "C.java", "class C {}\n")
	writeJava(t, candidateDir, "README.md", "not java")

	out, err := run(t, "batch", "--jobs", "2", "--out", outDir, baseDir, candidateDir)
	require.NoError(t, err)

	assert.Contains(t, out, "merged    A.java\n")
	assert.Contains(t, out, "added     C.java\n")
	assert.Contains(t, out, "unchanged "+filepath.Join("sub", "B.java")+"\n")
	assert.Contains(t, out, "3 files: 1 merged, 1 added, 1 unchanged, 0 failed;")

	assert.Contains(t, readString(t, filepath.Join(outDir, "A.java")), "void reset()")
	assert.Equal(t, "class C {}\n", readString(t, filepath.Join(outDir, "C.java")))
	assert.Equal(t, "class B {}\n", readString(t, filepath.Join(outDir, "sub", "B.java")))
	assert.Equal(t, baseA, readString(t, filepath.Join(baseDir, "A.java")))
	assert.NoFileExists(t, filepath.Join(outDir, "README.md"))
}

func TestBatchCommandInPlace(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "base")
	candidateDir := filepath.Join(dir, "candidate")
	writeJava(t, baseDir, "A.java", baseA)
	writeJava(t, candidateDir, "A.java", candidateA)

	_, err := run(t, "batch", baseDir, candidateDir)
	require.NoError(t, err)
	assert.Contains(t, readString(t, filepath.Join(baseDir, "A.java")), "void reset()")
}

func TestBatchCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "base")
	candidateDir := filepath.Join(dir, "candidate")
	writeJava(t, baseDir, "A.java", baseA)
	writeJava(t, candidateDir, "A.java", "class {")

	out, err := run(t, "batch", baseDir, candidateDir)
	assert.ErrorIs(t, err, errBatchFailed)
	assert.Contains(t, out, "failed    A.java: ")
	assert.Equal(t, baseA, readString(t, filepath.Join(baseDir, "A.java")))
}

func TestRunBatchRejectsZeroJobs(t *testing.T) {
	_, _, err := runBatch(context.Background(), batchOptions{jobs: 0})
	assert.Error(t, err)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "void f() { return; }", preview("void f() {\n    return;\n}"))
	long := strings.Repeat("x", 50)
	assert.Equal(t, strings.Repeat("x", planTextWidth-1)+"…", preview(long))
}
