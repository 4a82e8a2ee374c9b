package scanner

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"codegate/internal/detect"
	"codegate/internal/languages"
	"codegate/internal/lines"
	"codegate/internal/model"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// 默认排除的目录名：版本库元数据、IDE 目录和构建输出。
var defaultExcludedDirs = []string{".git", ".vs", "bin", "obj"}

// migrationsMarker 是生成迁移目录的命名约定。
const migrationsMarker = "Migrations"

// 超长行检查默认跳过的文件后缀与文件名。
var (
	defaultExcludedExtensions = []string{".csproj", ".ico", ".json", ".sln", ".dot", ".png"}
	defaultExcludedFileNames  = []string{".editorconfig", "nginx.conf", "docker-compose.yml"}
)

// dirFilter 按目录名做排除判断。
type dirFilter struct {
	names    map[string]struct{}
	contains string
}

func newDirFilter(names []string, contains string) dirFilter {
	filter := dirFilter{names: make(map[string]struct{}, len(names)), contains: contains}
	for _, name := range names {
		filter.names[name] = struct{}{}
	}
	return filter
}

func (f dirFilter) skip(name string) bool {
	if _, ok := f.names[name]; ok {
		return true
	}
	return f.contains != "" && strings.Contains(name, f.contains)
}

// MethodOptions 是方法长度检查的可配置参数。
type MethodOptions struct {
	Threshold    int
	Attribution  detect.Attribution
	MaskLiterals bool
	ExcludeDirs  []string
}

// MethodChecker 对已注册语言的源文件执行方法长度检查。
type MethodChecker struct {
	registry     *languages.Registry
	detectors    map[string]*detect.Detector
	maskLiterals bool
	dirs         dirFilter
}

// NewMethodChecker 为注册中心里的每种语言创建一个检测器。
// 任何名称中包含 Migrations 的目录都会被跳过。
func NewMethodChecker(registry *languages.Registry, options MethodOptions) *MethodChecker {
	detectors := make(map[string]*detect.Detector)
	for _, descriptor := range registry.Languages() {
		language, _ := registry.Lookup(descriptor.ID)
		detectors[language.ID()] = detect.NewDetector(
			language.Locator(),
			detect.WithThreshold(options.Threshold),
			detect.WithAttribution(options.Attribution),
		)
	}

	return &MethodChecker{
		registry:     registry,
		detectors:    detectors,
		maskLiterals: options.MaskLiterals,
		dirs:         newDirFilter(append(slices.Clone(defaultExcludedDirs), options.ExcludeDirs...), migrationsMarker),
	}
}

// Name 返回检查名称。
func (c *MethodChecker) Name() string {
	return "methods"
}

// SkipDir 判断是否跳过目录。
func (c *MethodChecker) SkipDir(name string) bool {
	return c.dirs.skip(name)
}

// Accept 只接受已注册语言的文件。
func (c *MethodChecker) Accept(path string) bool {
	_, ok := c.registry.LanguageForFile(path)
	return ok
}

// Check 严格按 UTF-8 解码文件内容，非法编码视为该文件失败。
func (c *MethodChecker) Check(path string, reader io.Reader) (model.FileReport, error) {
	language, ok := c.registry.LanguageForFile(path)
	if !ok {
		return model.FileReport{}, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}

	content, err := io.ReadAll(transform.NewReader(reader, encoding.UTF8Validator))
	if err != nil {
		return model.FileReport{}, fmt.Errorf("decode utf-8: %w", err)
	}

	text := string(content)
	if c.maskLiterals {
		text = language.Mask(text)
	}

	detector := c.detectors[language.ID()]
	return model.FileReport{
		Path:             path,
		MethodViolations: slices.Collect(detector.Violations(model.SourceFile{Path: path, Text: text})),
	}, nil
}

// LineOptions 是超长行检查的可配置参数。
type LineOptions struct {
	MaxLength    int
	ExcludeDirs  []string
	ExcludeFiles []string
}

// LineChecker 对除排除清单外的所有文件执行超长行检查。
type LineChecker struct {
	scanner       *lines.Scanner
	dirs          dirFilter
	excludedExts  map[string]struct{}
	excludedNames map[string]struct{}
}

// NewLineChecker 创建超长行检查。
// ExcludeFiles 中以点号开头且不含其他点号的条目按后缀处理，其余按完整文件名处理。
func NewLineChecker(options LineOptions) *LineChecker {
	checker := &LineChecker{
		scanner:       lines.NewScanner(options.MaxLength),
		dirs:          newDirFilter(append(append(slices.Clone(defaultExcludedDirs), migrationsMarker), options.ExcludeDirs...), ""),
		excludedExts:  make(map[string]struct{}),
		excludedNames: make(map[string]struct{}),
	}

	for _, ext := range defaultExcludedExtensions {
		checker.excludedExts[ext] = struct{}{}
	}
	for _, name := range defaultExcludedFileNames {
		checker.excludedNames[name] = struct{}{}
	}
	for _, item := range options.ExcludeFiles {
		if strings.HasPrefix(item, ".") && strings.Count(item, ".") == 1 {
			checker.excludedExts[item] = struct{}{}
			continue
		}
		checker.excludedNames[item] = struct{}{}
	}

	return checker
}

// Name 返回检查名称。
func (c *LineChecker) Name() string {
	return "lines"
}

// SkipDir 判断是否跳过目录。
func (c *LineChecker) SkipDir(name string) bool {
	return c.dirs.skip(name)
}

// Accept 排除项目文件、图片、JSON 等非源码文件。
func (c *LineChecker) Accept(path string) bool {
	base := filepath.Base(path)
	if _, ok := c.excludedNames[base]; ok {
		return false
	}
	_, excluded := c.excludedExts[filepath.Ext(base)]
	return !excluded
}

// Check 逐行检查文件。
func (c *LineChecker) Check(path string, reader io.Reader) (model.FileReport, error) {
	violations, err := c.scanner.Analyze(path, reader)
	if err != nil {
		return model.FileReport{}, err
	}
	return model.FileReport{Path: path, LineViolations: violations}, nil
}
