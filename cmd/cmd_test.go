package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"codegate/internal/languages"
	"codegate/internal/model"
	"codegate/internal/testrunner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand 运行根命令并分别返回 stdout 与 stderr。
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd("1.2.3", languages.NewRegistry())
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// longMethodSource 生成一个含超长方法 Execute 的 C# 类。
func longMethodSource(class string, bodyLines int) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "namespace App\n{\n    public class %s\n    {\n        public async Task<int> Execute(int input)\n        {\n", class)
	for i := 0; i < bodyLines; i++ {
		fmt.Fprintf(&builder, "            input += %d;\n", i)
	}
	builder.WriteString("            return input;\n        }\n    }\n}\n")
	return builder.String()
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "codegate version 1.2.3\n", stdout)
}

func TestLanguageCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "language")
	require.NoError(t, err)

	assert.Contains(t, stdout, "EXTENSIONS")
	assert.Contains(t, stdout, "csharp")
	assert.Contains(t, stdout, ".java")
	assert.Contains(t, stdout, ".go")
}

func TestMethodsCommandText(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, filepath.Join(root, "src", "Handlers", "OrderHandler.cs"), longMethodSource("OrderHandler", 40))
	writeFixtureFile(t, filepath.Join(root, "src", "Handlers", "Small.cs"), longMethodSource("Small", 2))
	writeFixtureFile(t, filepath.Join(root, "src", "Data", "Migrations", "Init.cs"), longMethodSource("Init", 80))
	t.Chdir(root)

	stdout, stderr, err := executeCommand(t, "methods", "--color", "never")
	require.NoError(t, err)

	// 方法体：{、40 行累加、return、} 共 43 行。
	assert.Equal(t, "File: OrderHandler.cs\nClass: OrderHandler\nMethod: Execute\nLine Count: 43\n", stdout)
	assert.Equal(t, "methods: 2 files, 1 violations, 0 errors\n", stderr)
}

func TestMethodsCommandFailOnViolation(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, filepath.Join(root, "Job.cs"), longMethodSource("Job", 50))

	_, _, err := executeCommand(t, "methods", root, "--fail-on-violation", "--color", "never")
	assert.ErrorIs(t, err, ErrViolationsFound)

	_, _, err = executeCommand(t, "methods", root, "--fail-on-violation", "--threshold", "100", "--color", "never")
	assert.NoError(t, err)
}

func TestMethodsCommandJSONExport(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, filepath.Join(root, "Job.cs"), longMethodSource("Job", 50))
	exportPath := filepath.Join(t.TempDir(), "out", "methods.json")

	stdout, stderr, err := executeCommand(t, "methods", root, "--format", "json", "--output", exportPath, "--workers", "4")
	require.NoError(t, err)

	var printed model.ScanResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &printed))
	require.Len(t, printed.MethodViolations, 1)
	assert.Equal(t, "Job", printed.MethodViolations[0].Class)
	assert.Equal(t, 53, printed.MethodViolations[0].LineCount)
	assert.Equal(t, 5, printed.MethodViolations[0].Line)

	exported, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.JSONEq(t, stdout, string(exported))
	assert.Contains(t, stderr, "JSON exported to "+exportPath)
}

func TestMethodsCommandMissingRoot(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := executeCommand(t, "methods")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, stdout)
}

func TestMethodsCommandValidation(t *testing.T) {
	root := t.TempDir()

	cases := map[string][]string{
		"threshold must be greater than 0":                                      {"methods", root, "--threshold", "0"},
		`unsupported attribution "outer", allowed values: sequential, nesting`:  {"methods", root, "--attribution", "outer"},
		`unsupported language "cobol", run "codegate language" for the list`:    {"methods", root, "--lang", "cobol"},
		"workers must be greater than 0":                                        {"methods", root, "--workers", "0"},
		"output requires json or yaml format":                                   {"methods", root, "--output", "x.json"},
		`unsupported format "xml", allowed values: text, table, json, yaml`:     {"methods", root, "--format", "xml"},
		`unsupported color mode "rainbow", allowed values: auto, always, never`: {"methods", root, "--color", "rainbow"},
	}

	for expected, args := range cases {
		_, _, err := executeCommand(t, args...)
		assert.EqualError(t, err, expected, strings.Join(args, " "))
	}
}

func TestLinesCommand(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("y", 125)
	writeFixtureFile(t, filepath.Join(root, "docs", "guide.md"), "ok\n  "+long+"\n")
	writeFixtureFile(t, filepath.Join(root, "settings.json"), long)
	writeFixtureFile(t, filepath.Join(root, "notes.txt"), long)

	stdout, stderr, err := executeCommand(t, "lines", root, "--exclude-file", ".txt", "--color", "never")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "docs", "guide.md")+":2: "+long+"\n", stdout)
	assert.Equal(t, "lines: 1 files, 1 violations, 0 errors\n", stderr)

	stdout, _, err = executeCommand(t, "lines", root, "--exclude-file", ".txt", "--max-length", "200", "--color", "never")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestLinesCommandYAMLTable(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, filepath.Join(root, "main.go"), "package main\n// "+strings.Repeat("z", 130)+"\n")

	stdout, _, err := executeCommand(t, "lines", root, "--format", "yaml", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "check: lines")
	assert.Contains(t, stdout, "length: 133")

	stdout, _, err = executeCommand(t, "lines", root, "--format", "table", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, stdout, "main.go")
	assert.Contains(t, stdout, "133")
}

func TestTestCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	stdout, _, err := executeCommand(t, "test", "--", "sh", "-c", "exit 2")
	require.NoError(t, err)
	assert.Equal(t, "Running sh -c exit 2...\n"+testrunner.FailureMessage+"\n2\n", stdout)

	_, _, err = executeCommand(t, "test", "--fail-on-error", "--", "sh", "-c", "exit 2")
	assert.EqualError(t, err, "test command exited with code 2")

	stdout, _, err = executeCommand(t, "test", "--", "sh", "-c", "exit 0")
	require.NoError(t, err)
	assert.Equal(t, "Running sh -c exit 0...\n"+testrunner.SuccessMessage+"\n0\n", stdout)
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
