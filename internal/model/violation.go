// Package model 定义 codegate 的核心数据模型。
// 这些结构会被检测器、扫描器、输出层和命令层共同使用。
package model

// TypeKind 表示类型声明的种类（class、record、struct 等）。
type TypeKind string

// 内置的类型声明种类。
// 不同语言配置可以扩展出其他种类（例如 Java 的 interface、enum）。
const (
	KindClass     TypeKind = "class"
	KindRecord    TypeKind = "record"
	KindStruct    TypeKind = "struct"
	KindInterface TypeKind = "interface"
	KindEnum      TypeKind = "enum"
)

// NoEnclosingType 是找不到所属类型时使用的占位名称。
const NoEnclosingType = "<no enclosing type>"

// SourceFile 表示一次扫描中的单个源文件。
// 读入后内容不可变，扫描结束即丢弃。
type SourceFile struct {
	Path string
	Text string
}

// TypeDeclaration 表示通过模式匹配发现的类型声明。
// 只作为违规记录的归属上下文使用。
type TypeDeclaration struct {
	Kind   TypeKind
	Name   string
	Offset int
}

// MethodDeclaration 表示通过模式匹配发现的方法声明。
//
// 注意：
// - Offset 是声明在文件文本中的起始字节偏移
// - BodyStart 仅在语法树后端已知方法体 `{` 位置时大于 0
// - Receiver 仅在语法树后端已知所属类型时非空
// - Free 表示语法树后端确认该函数没有所属类型，此时不做顺序归属推断
type MethodDeclaration struct {
	Qualifiers string
	Name       string
	Offset     int
	BodyStart  int
	Receiver   string
	Free       bool
}

// MethodBody 是从 `{` 到匹配 `}` 之后的文本片段。
// Closed 为 false 表示扫描到文本末尾仍未闭合，结果是尽力而为的截断方法体。
type MethodBody struct {
	Text      string
	Start     int
	End       int
	LineCount int
	Closed    bool
}

// MethodViolation 表示一个超出行数阈值的方法。
type MethodViolation struct {
	Path      string `json:"path" yaml:"path"`
	File      string `json:"file" yaml:"file"`
	Class     string `json:"class" yaml:"class"`
	Method    string `json:"method" yaml:"method"`
	Line      int    `json:"line" yaml:"line"`
	LineCount int    `json:"line_count" yaml:"line_count"`
	Truncated bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// LineViolation 表示一行超出最大字符数。
// Text 是去掉首尾空白后的行内容。
type LineViolation struct {
	Path   string `json:"path" yaml:"path"`
	Line   int    `json:"line" yaml:"line"`
	Length int    `json:"length" yaml:"length"`
	Text   string `json:"text" yaml:"text"`
}
