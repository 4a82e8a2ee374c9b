package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"codegate/internal/model"
)

var discardSink = SinkFunc(func(model.FileReport) error { return nil })

// prepareBenchmarkFile 创建一个用于单文件扫描基准测试的 C# 文件。
func prepareBenchmarkFile(b *testing.B) string {
	b.Helper()

	tempDir := b.TempDir()
	filePath := filepath.Join(tempDir, "Large.cs")

	lines := make([]string, 0, 20000)
	lines = append(lines, "namespace Bench", "{")
	for i := 0; i < 200; i++ {
		lines = append(lines, "    public class Type"+strconv.Itoa(i), "    {")
		lines = append(lines, "        public int Method"+strconv.Itoa(i)+"()", "        {")
		for j := 0; j < 45; j++ {
			lines = append(lines, "            total += "+strconv.Itoa(j)+"; // inline comment")
		}
		lines = append(lines, "        }", "    }")
	}
	lines = append(lines, "}")

	if err := os.WriteFile(filePath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		b.Fatalf("write benchmark fixture failed: %v", err)
	}
	return filePath
}

// prepareBenchmarkDirectory 创建目录扫描基准测试数据。
func prepareBenchmarkDirectory(b *testing.B) string {
	b.Helper()

	tempDir := b.TempDir()
	for i := 0; i < 200; i++ {
		csFile := filepath.Join(tempDir, "Domain", "T"+strconv.Itoa(i)+".cs")
		jsFile := filepath.Join(tempDir, "web", "j"+strconv.Itoa(i)+".js")

		if err := os.MkdirAll(filepath.Dir(csFile), 0o755); err != nil {
			b.Fatalf("mkdir cs fixture dir failed: %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(jsFile), 0o755); err != nil {
			b.Fatalf("mkdir js fixture dir failed: %v", err)
		}

		if err := os.WriteFile(csFile, []byte("public class T\n{\n    public void Run()\n    {\n    }\n}\n"), 0o644); err != nil {
			b.Fatalf("write cs fixture failed: %v", err)
		}
		if err := os.WriteFile(jsFile, []byte("const x = 1; // "+strings.Repeat("c", 200)), 0o644); err != nil {
			b.Fatalf("write js fixture failed: %v", err)
		}
	}
	return tempDir
}

// BenchmarkScanSingleFile 衡量单文件方法检查性能。
func BenchmarkScanSingleFile(b *testing.B) {
	filePath := prepareBenchmarkFile(b)
	service := NewService(defaultMethodChecker())

	b.ReportAllocs()

	for b.Loop() {
		if _, err := service.ScanPath(context.Background(), filePath, discardSink); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}

// BenchmarkScanDirectory 衡量目录并发扫描性能。
func BenchmarkScanDirectory(b *testing.B) {
	dirPath := prepareBenchmarkDirectory(b)
	service := NewService(NewLineChecker(LineOptions{}), WithWorkers(8))

	b.ReportAllocs()

	for b.Loop() {
		if _, err := service.ScanPath(context.Background(), dirPath, discardSink); err != nil {
			b.Fatalf("scan failed: %v", err)
		}
	}
}
