package detect

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"

	"codegate/internal/model"
)

// DefaultThreshold 是方法体允许的最大行数。
const DefaultThreshold = 40

// Attribution 决定违规方法归属到哪个类型名。
type Attribution string

const (
	// AttributionSequential 取扫描顺序上最近一个位于方法之前的类型声明。
	// 兄弟类型或嵌套类型较多的文件里会归属错误。
	AttributionSequential Attribution = "sequential"
	// AttributionNesting 用括号配对求出每个类型的类体范围，
	// 取包含方法起点的最内层类型。与 sequential 的结果并不等价。
	AttributionNesting Attribution = "nesting"
)

// ParseAttribution 解析命令行传入的归属策略名称。
func ParseAttribution(value string) (Attribution, error) {
	switch Attribution(strings.ToLower(strings.TrimSpace(value))) {
	case AttributionSequential:
		return AttributionSequential, nil
	case AttributionNesting:
		return AttributionNesting, nil
	default:
		return "", fmt.Errorf("unsupported attribution %q, allowed values: sequential, nesting", value)
	}
}

// Detector 把定位、抽取和判定串起来，对单个文件产出违规记录。
// Detector 本身不保存跨文件状态，可以被多个 goroutine 共享。
type Detector struct {
	locator     Locator
	threshold   int
	attribution Attribution
}

// Option 用于定制 Detector。
type Option func(*Detector)

// WithThreshold 设置方法体行数阈值，小于等于 0 时保持默认值。
func WithThreshold(threshold int) Option {
	return func(d *Detector) {
		if threshold > 0 {
			d.threshold = threshold
		}
	}
}

// WithAttribution 设置类型归属策略。
func WithAttribution(attribution Attribution) Option {
	return func(d *Detector) {
		if attribution != "" {
			d.attribution = attribution
		}
	}
}

// NewDetector 创建检测器，默认阈值 40、顺序归属。
func NewDetector(locator Locator, options ...Option) *Detector {
	detector := &Detector{
		locator:     locator,
		threshold:   DefaultThreshold,
		attribution: AttributionSequential,
	}
	for _, option := range options {
		option(detector)
	}
	return detector
}

// Threshold 返回当前阈值。
func (d *Detector) Threshold() int {
	return d.threshold
}

// Exceeds 判断方法体是否超出阈值。恰好等于阈值视为合规。
func (d *Detector) Exceeds(body model.MethodBody) bool {
	return body.LineCount > d.threshold
}

// Violations 惰性产出文件中所有超长方法。
// 每个方法最多报告一次；没有方法体的声明直接跳过。
func (d *Detector) Violations(file model.SourceFile) iter.Seq[model.MethodViolation] {
	return func(yield func(model.MethodViolation) bool) {
		text := file.Text
		owners := d.newAttributor(text)
		defer owners.close()

		lines := lineCounter{text: text}
		baseName := filepath.Base(file.Path)

		for declaration := range d.locator.Methods(text) {
			body, ok := ExtractBody(text, declaration)
			if !ok {
				continue
			}

			// 归属按扫描顺序推进，因此每个声明都要经过 owner，即使它不违规。
			class := owners.owner(declaration.Offset)
			switch {
			case declaration.Receiver != "":
				class = declaration.Receiver
			case declaration.Free:
				class = model.NoEnclosingType
			}

			if !d.Exceeds(body) {
				continue
			}

			violation := model.MethodViolation{
				Path:      file.Path,
				File:      baseName,
				Class:     class,
				Method:    declaration.Name,
				Line:      lines.lineAt(declaration.Offset),
				LineCount: body.LineCount,
				Truncated: !body.Closed,
			}
			if !yield(violation) {
				return
			}
		}
	}
}

// attributor 根据方法起点返回所属类型名。
type attributor interface {
	owner(offset int) string
	close()
}

func (d *Detector) newAttributor(text string) attributor {
	if d.attribution == AttributionNesting {
		return newNestingAttributor(text, d.locator.Types(text))
	}
	return newSequentialAttributor(d.locator.Types(text))
}

// sequentialAttributor 惰性拉取类型声明，要求 owner 的 offset 单调不减。
type sequentialAttributor struct {
	next    func() (model.TypeDeclaration, bool)
	stop    func()
	pending model.TypeDeclaration
	ok      bool
	current string
}

func newSequentialAttributor(types iter.Seq[model.TypeDeclaration]) *sequentialAttributor {
	next, stop := iter.Pull(types)
	pending, ok := next()
	return &sequentialAttributor{
		next:    next,
		stop:    stop,
		pending: pending,
		ok:      ok,
		current: model.NoEnclosingType,
	}
}

func (a *sequentialAttributor) owner(offset int) string {
	for a.ok && a.pending.Offset <= offset {
		a.current = a.pending.Name
		a.pending, a.ok = a.next()
	}
	return a.current
}

func (a *sequentialAttributor) close() {
	a.stop()
}

// typeScope 是类型声明及其类体范围 [start, end)。
type typeScope struct {
	name  string
	start int
	end   int
}

type nestingAttributor struct {
	scopes []typeScope
}

func newNestingAttributor(text string, types iter.Seq[model.TypeDeclaration]) *nestingAttributor {
	attributor := &nestingAttributor{}
	for declaration := range types {
		open := strings.IndexByte(text[declaration.Offset:], '{')
		if open < 0 {
			continue
		}
		open += declaration.Offset

		attributor.scopes = append(attributor.scopes, typeScope{
			name:  declaration.Name,
			start: open,
			end:   MatchBrace(text, open),
		})
	}
	return attributor
}

func (a *nestingAttributor) owner(offset int) string {
	name := model.NoEnclosingType
	innermost := -1
	for _, scope := range a.scopes {
		if scope.start <= offset && offset < scope.end && scope.start > innermost {
			name = scope.name
			innermost = scope.start
		}
	}
	return name
}

func (a *nestingAttributor) close() {}

// lineCounter 把递增的字节偏移换算成 1 起始的行号。
type lineCounter struct {
	text   string
	offset int
	line   int
}

func (c *lineCounter) lineAt(offset int) int {
	if c.line == 0 || offset < c.offset {
		c.offset, c.line = 0, 1
	}
	c.line += strings.Count(c.text[c.offset:offset], "\n")
	c.offset = offset
	return c.line
}
