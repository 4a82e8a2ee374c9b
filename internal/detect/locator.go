package detect

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"codegate/internal/model"
)

// Locator 定义声明定位接口。
// 默认实现基于正则匹配，更严格的后端（例如语法树）可以替换它，
// 而不影响括号配对与违规判定的契约。
type Locator interface {
	// Types 按出现顺序惰性产出类型声明。
	Types(text string) iter.Seq[model.TypeDeclaration]
	// Methods 按出现顺序惰性产出方法声明。
	Methods(text string) iter.Seq[model.MethodDeclaration]
}

// C# 声明模式。
//
// 类型模式中每个命名分组的组名即类型种类；
// 方法模式必须包含 name 分组，access/modifier 分组组成修饰符文本。
// 逐段匹配时会对文本切片，因此模式里不要使用 ^、\b 这类依赖上下文的断言。
// RE2 的 \w、\s 只匹配 ASCII，标识符与空白改用 Unicode 类别。
const (
	// IdentChars 是标识符字符（字母、数字、下划线，含非 ASCII）。
	IdentChars = `\p{L}\p{N}_`
	// SpaceChars 是空白字符（含 Unicode 空格分隔符）。
	SpaceChars = `\s\p{Zs}`

	CSharpTypePattern = `class[` + SpaceChars + `]+(?P<class>[` + IdentChars + `]+)` +
		`|record[` + SpaceChars + `]+(?P<record>[` + IdentChars + `]+)` +
		`|struct[` + SpaceChars + `]+(?P<struct>[` + IdentChars + `]+)`
	CSharpMethodPattern = `(?P<access>public|protected|private|internal|static)` +
		`(?P<modifier>[` + SpaceChars + `]+[` + IdentChars + `]+)?` +
		`[` + SpaceChars + `]+[` + IdentChars + `<>,` + SpaceChars + `]+[` + SpaceChars + `]+` +
		`(?P<name>[` + IdentChars + `]+)[` + SpaceChars + `]*\(`
)

// DefaultExcludedWords 列出方法匹配文本中出现即丢弃的关键字（不区分大小写）。
var DefaultExcludedWords = []string{"class", "struct", "record"}

const (
	nameGroup     = "name"
	accessGroup   = "access"
	modifierGroup = "modifier"
)

// PatternConfig 描述一套正则声明模式。
type PatternConfig struct {
	TypePattern   string
	MethodPattern string
	ExcludedWords []string
}

// CSharpPatterns 返回 C# 的默认模式配置。
func CSharpPatterns() PatternConfig {
	return PatternConfig{
		TypePattern:   CSharpTypePattern,
		MethodPattern: CSharpMethodPattern,
		ExcludedWords: DefaultExcludedWords,
	}
}

// PatternLocator 是基于正则的声明定位器。
type PatternLocator struct {
	types            *regexp.Regexp
	methods          *regexp.Regexp
	nameIndex        int
	qualifierIndexes []int
	excludedWords    []string
}

// NewPatternLocator 编译模式配置并校验分组约定。
func NewPatternLocator(config PatternConfig) (*PatternLocator, error) {
	types, err := regexp.Compile(config.TypePattern)
	if err != nil {
		return nil, fmt.Errorf("compile type pattern: %w", err)
	}

	methods, err := regexp.Compile(config.MethodPattern)
	if err != nil {
		return nil, fmt.Errorf("compile method pattern: %w", err)
	}

	hasKindGroup := false
	for _, name := range types.SubexpNames() {
		if name != "" {
			hasKindGroup = true
			break
		}
	}
	if !hasKindGroup {
		return nil, errors.New("type pattern needs at least one named group")
	}

	nameIndex := methods.SubexpIndex(nameGroup)
	if nameIndex < 0 {
		return nil, errors.New("method pattern needs a \"name\" group")
	}

	qualifierIndexes := make([]int, 0, 2)
	for _, group := range []string{accessGroup, modifierGroup} {
		if idx := methods.SubexpIndex(group); idx >= 0 {
			qualifierIndexes = append(qualifierIndexes, idx)
		}
	}

	excluded := make([]string, 0, len(config.ExcludedWords))
	for _, word := range config.ExcludedWords {
		excluded = append(excluded, strings.ToLower(word))
	}

	return &PatternLocator{
		types:            types,
		methods:          methods,
		nameIndex:        nameIndex,
		qualifierIndexes: qualifierIndexes,
		excludedWords:    excluded,
	}, nil
}

// MustPatternLocator 与 NewPatternLocator 相同，但在配置错误时 panic。
// 仅用于编译期固定的内置模式。
func MustPatternLocator(config PatternConfig) *PatternLocator {
	locator, err := NewPatternLocator(config)
	if err != nil {
		panic(err)
	}
	return locator
}

// Types 产出 `class <name>` 一类的匹配，种类取自命中的命名分组。
func (l *PatternLocator) Types(text string) iter.Seq[model.TypeDeclaration] {
	names := l.types.SubexpNames()

	return func(yield func(model.TypeDeclaration) bool) {
		for loc := range submatches(l.types, text) {
			for group := 1; group < len(names); group++ {
				start, end := loc[2*group], loc[2*group+1]
				if names[group] == "" || start < 0 {
					continue
				}

				declaration := model.TypeDeclaration{
					Kind:   model.TypeKind(names[group]),
					Name:   text[start:end],
					Offset: loc[0],
				}
				if !yield(declaration) {
					return
				}
				break
			}
		}
	}
}

// Methods 产出方法签名形状的匹配。
// 匹配文本含有排除关键字时直接丢弃，用于过滤恰好满足方法形状的类型声明。
// 这是启发式过滤：方法名里含有 Record 之类单词时同样会被丢弃。
func (l *PatternLocator) Methods(text string) iter.Seq[model.MethodDeclaration] {
	return func(yield func(model.MethodDeclaration) bool) {
		for loc := range submatches(l.methods, text) {
			if l.excluded(text[loc[0]:loc[1]]) {
				continue
			}

			declaration := model.MethodDeclaration{
				Qualifiers: l.qualifiers(text, loc),
				Name:       text[loc[2*l.nameIndex]:loc[2*l.nameIndex+1]],
				Offset:     loc[0],
			}
			if !yield(declaration) {
				return
			}
		}
	}
}

func (l *PatternLocator) excluded(matched string) bool {
	lowered := strings.ToLower(matched)
	for _, word := range l.excludedWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

func (l *PatternLocator) qualifiers(text string, loc []int) string {
	parts := make([]string, 0, len(l.qualifierIndexes))
	for _, idx := range l.qualifierIndexes {
		start, end := loc[2*idx], loc[2*idx+1]
		if start < 0 {
			continue
		}
		parts = append(parts, strings.Fields(text[start:end])...)
	}
	return strings.Join(parts, " ")
}

// submatches 逐个产出不重叠的匹配位置（已换算为整段文本的偏移）。
func submatches(re *regexp.Regexp, text string) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		pos := 0
		for pos <= len(text) {
			loc := re.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}

			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += pos
				}
			}
			if !yield(loc) {
				return
			}

			if loc[1] == loc[0] {
				pos = loc[1] + 1
				continue
			}
			pos = loc[1]
		}
	}
}
