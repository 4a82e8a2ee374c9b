package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codegate/internal/languages"
	"codegate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "mkdir fixture dir failed")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "write fixture file failed")
}

// csharpClass 生成一个只含单个方法的 C# 类，方法体共 bodyLines+2 行。
func csharpClass(class string, method string, bodyLines int) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "public class %s\n{\n    public void %s()\n    {\n", class, method)
	for i := 0; i < bodyLines; i++ {
		fmt.Fprintf(&builder, "        total += %d;\n", i)
	}
	builder.WriteString("    }\n}\n")
	return builder.String()
}

// collect 把所有单文件结果按到达顺序收集起来。
func collect(reports *[]model.FileReport) Sink {
	return SinkFunc(func(report model.FileReport) error {
		*reports = append(*reports, report)
		return nil
	})
}

func defaultMethodChecker() *MethodChecker {
	registry, _ := languages.NewRegistry().Select([]string{"csharp"})
	return NewMethodChecker(registry, MethodOptions{})
}

// TestScanSingleFile 验证 methods 支持“直接传单文件路径”。
func TestScanSingleFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "Worker.cs")
	writeFixtureFile(t, filePath, csharpClass("Worker", "Run", 40))

	var reports []model.FileReport
	summary, err := NewService(defaultMethodChecker()).ScanPath(context.Background(), filePath, collect(&reports))
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, filePath, reports[0].Path)
	require.Len(t, reports[0].MethodViolations, 1)

	violation := reports[0].MethodViolations[0]
	assert.Equal(t, "Worker.cs", violation.File)
	assert.Equal(t, "Worker", violation.Class)
	assert.Equal(t, "Run", violation.Method)
	assert.Equal(t, 42, violation.LineCount)
	assert.Equal(t, 3, violation.Line)

	assert.Equal(t, model.Summary{Files: 1, Violations: 1}, summary)
}

func TestScanEmptyPath(t *testing.T) {
	_, err := NewService(defaultMethodChecker()).ScanPath(context.Background(), "  ", collect(new([]model.FileReport)))
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestScanMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "src")

	var reports []model.FileReport
	_, err := NewService(defaultMethodChecker()).ScanPath(context.Background(), missing, collect(&reports))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, reports)
}

// TestScanUnsupportedSingleFile 验证单文件模式下不支持后缀会返回错误。
func TestScanUnsupportedSingleFile(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "demo.txt")
	writeFixtureFile(t, filePath, "plain text")

	_, err := NewService(defaultMethodChecker()).ScanPath(context.Background(), filePath, collect(new([]model.FileReport)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file for methods check")
}

// TestScanMethodsDirectory 覆盖排除目录、后缀过滤和遍历顺序。
func TestScanMethodsDirectory(t *testing.T) {
	root := t.TempDir()

	writeFixtureFile(t, filepath.Join(root, "Api", "Controller.cs"), csharpClass("Controller", "Get", 45))
	writeFixtureFile(t, filepath.Join(root, "Api", "Short.cs"), csharpClass("Short", "Ping", 3))
	writeFixtureFile(t, filepath.Join(root, "Domain", "Order.cs"), csharpClass("Order", "Price", 50))
	writeFixtureFile(t, filepath.Join(root, "Domain", "notes.txt"), "not a source file")
	writeFixtureFile(t, filepath.Join(root, "bin", "Generated.cs"), csharpClass("Generated", "Build", 60))
	writeFixtureFile(t, filepath.Join(root, "obj", "Debug", "Temp.cs"), csharpClass("Temp", "Build", 60))
	writeFixtureFile(t, filepath.Join(root, "20240101_InitialMigrations", "Init.cs"), csharpClass("Init", "Up", 60))

	var reports []model.FileReport
	summary, err := NewService(defaultMethodChecker()).ScanPath(context.Background(), root, collect(&reports))
	require.NoError(t, err)

	paths := make([]string, 0, len(reports))
	var methods []string
	for _, report := range reports {
		paths = append(paths, report.Path)
		for _, violation := range report.MethodViolations {
			methods = append(methods, violation.Class+"."+violation.Method)
		}
	}

	assert.Equal(t, []string{
		filepath.Join(root, "Api", "Controller.cs"),
		filepath.Join(root, "Api", "Short.cs"),
		filepath.Join(root, "Domain", "Order.cs"),
	}, paths)
	assert.Equal(t, []string{"Controller.Get", "Order.Price"}, methods)
	assert.Equal(t, model.Summary{Files: 3, Violations: 2}, summary)
}

// TestScanRecoversFromInvalidFile 验证单个文件解码失败不会中断扫描。
func TestScanRecoversFromInvalidFile(t *testing.T) {
	root := t.TempDir()

	writeFixtureFile(t, filepath.Join(root, "A.cs"), csharpClass("A", "Long", 41))
	writeFixtureFile(t, filepath.Join(root, "B.cs"), "public class B\n{\n    // \xff\xfe\n}\n")
	writeFixtureFile(t, filepath.Join(root, "C.cs"), csharpClass("C", "Longer", 42))

	var reports []model.FileReport
	summary, err := NewService(defaultMethodChecker()).ScanPath(context.Background(), root, collect(&reports))
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Len(t, reports[0].MethodViolations, 1)

	require.NotNil(t, reports[1].Error)
	assert.Equal(t, filepath.Join(root, "B.cs"), reports[1].Error.Path)
	assert.Contains(t, reports[1].Error.Error, "decode utf-8")

	assert.Len(t, reports[2].MethodViolations, 1)
	assert.Equal(t, model.Summary{Files: 2, Violations: 2, Errors: 1}, summary)
}

// TestScanWorkersKeepOrder 验证多 worker 时输出顺序与顺序执行完全一致。
func TestScanWorkersKeepOrder(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("Type%02d", i)
		writeFixtureFile(t, filepath.Join(root, fmt.Sprintf("pkg%d", i%3), name+".cs"), csharpClass(name, "Run", 35+i%10))
	}
	writeFixtureFile(t, filepath.Join(root, "pkg1", "Broken.cs"), "\xc3\x28")

	run := func(workers int) ([]model.FileReport, model.Summary) {
		var reports []model.FileReport
		summary, err := NewService(defaultMethodChecker(), WithWorkers(workers)).
			ScanPath(context.Background(), root, collect(&reports))
		require.NoError(t, err)
		return reports, summary
	}

	sequential, sequentialSummary := run(1)
	concurrent, concurrentSummary := run(8)

	assert.Equal(t, sequential, concurrent)
	assert.Equal(t, sequentialSummary, concurrentSummary)
	assert.EqualValues(t, 1, concurrentSummary.Errors)
}

// TestScanStopsOnSinkError 验证输出失败会终止扫描并返回该错误。
func TestScanStopsOnSinkError(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFixtureFile(t, filepath.Join(root, fmt.Sprintf("F%d.cs", i)), csharpClass("F", "Run", 1))
	}

	sinkErr := errors.New("stdout closed")

	for _, workers := range []int{1, 4} {
		calls := 0
		sink := SinkFunc(func(model.FileReport) error {
			calls++
			if calls == 2 {
				return sinkErr
			}
			return nil
		})

		_, err := NewService(defaultMethodChecker(), WithWorkers(workers)).ScanPath(context.Background(), root, sink)
		assert.ErrorIs(t, err, sinkErr, "workers=%d", workers)
		assert.Equal(t, 2, calls, "workers=%d", workers)
	}
}

func TestScanCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, filepath.Join(root, "A.cs"), csharpClass("A", "Run", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(defaultMethodChecker()).ScanPath(ctx, root, collect(new([]model.FileReport)))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestScanLines 覆盖超长行检查的文件与目录排除。
func TestScanLines(t *testing.T) {
	root := t.TempDir()
	long := strings.Repeat("x", 121)

	writeFixtureFile(t, filepath.Join(root, "README.md"), "short\n"+long+"\n")
	writeFixtureFile(t, filepath.Join(root, "src", "App.cs"), "    "+long+"   \n")
	writeFixtureFile(t, filepath.Join(root, "src", "App.csproj"), long)
	writeFixtureFile(t, filepath.Join(root, "appsettings.json"), long)
	writeFixtureFile(t, filepath.Join(root, "docker-compose.yml"), long)
	writeFixtureFile(t, filepath.Join(root, "deploy", "nginx.conf"), long)
	writeFixtureFile(t, filepath.Join(root, "Migrations", "Init.cs"), long)
	writeFixtureFile(t, filepath.Join(root, "AddMigrations", "Init.cs"), long)
	writeFixtureFile(t, filepath.Join(root, "vendor", "lib.js"), long)

	checker := NewLineChecker(LineOptions{ExcludeDirs: []string{"vendor"}})

	var reports []model.FileReport
	summary, err := NewService(checker).ScanPath(context.Background(), root, collect(&reports))
	require.NoError(t, err)

	var found []string
	for _, report := range reports {
		for _, violation := range report.LineViolations {
			found = append(found, fmt.Sprintf("%s:%d", violation.Path, violation.Line))
		}
	}

	// 只有精确命名为 Migrations 的目录会被跳过。
	assert.Equal(t, []string{
		filepath.Join(root, "AddMigrations", "Init.cs") + ":1",
		filepath.Join(root, "README.md") + ":2",
		filepath.Join(root, "src", "App.cs") + ":1",
	}, found)
	assert.EqualValues(t, 3, summary.Violations)
	assert.Equal(t, long, reports[len(reports)-1].LineViolations[0].Text)
}

func TestLineCheckerExcludeFile(t *testing.T) {
	checker := NewLineChecker(LineOptions{ExcludeFiles: []string{".svg", "Makefile"}})

	assert.False(t, checker.Accept(filepath.Join("web", "logo.svg")))
	assert.False(t, checker.Accept("Makefile"))
	assert.False(t, checker.Accept("Service.sln"))
	assert.True(t, checker.Accept("Program.cs"))
	assert.True(t, checker.Accept(".gitignore"))
}

// TestScanDisplayPathKeepsRootAsGiven 验证输出路径沿用用户传入的根路径写法。
func TestScanDisplayPathKeepsRootAsGiven(t *testing.T) {
	root := t.TempDir()
	writeFixtureFile(t, filepath.Join(root, "src", "Api", "A.cs"), "    "+strings.Repeat("x", 130)+"\n")
	t.Chdir(root)

	sep := string(filepath.Separator)
	dotted := "." + sep + filepath.Join("src", "Api", "A.cs")
	plain := filepath.Join("src", "Api", "A.cs")
	cases := map[string]string{
		"." + sep + "src":              dotted,
		"src" + sep:                    plain,
		".":                            dotted,
		"." + sep + "src" + sep + "Api": dotted,
	}

	for target, expected := range cases {
		var reports []model.FileReport
		_, err := NewService(NewLineChecker(LineOptions{})).ScanPath(context.Background(), target, collect(&reports))
		require.NoError(t, err, target)

		require.Len(t, reports, 1, target)
		assert.Equal(t, expected, reports[0].Path, target)
		require.Len(t, reports[0].LineViolations, 1, target)
		assert.Equal(t, expected, reports[0].LineViolations[0].Path, target)
	}
}
