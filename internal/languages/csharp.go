package languages

import "codegate/internal/detect"

// CSharp 是 C# 语言配置，也是方法长度检测的默认语言。
type CSharp struct {
	locator *detect.PatternLocator
}

// NewCSharp 创建 C# 配置。
func NewCSharp() *CSharp {
	return &CSharp{locator: detect.MustPatternLocator(detect.CSharpPatterns())}
}

// ID 返回命令行短标识。
func (l *CSharp) ID() string {
	return "csharp"
}

// Name 返回语言名称。
func (l *CSharp) Name() string {
	return "C#"
}

// Extensions 返回 C# 后缀。
func (l *CSharp) Extensions() []string {
	return []string{".cs"}
}

// Locator 返回基于正则的声明定位器。
func (l *CSharp) Locator() detect.Locator {
	return l.locator
}

// Mask 遮蔽注释、普通字符串、字符字面量、逐字字符串（@"..."）与原始字符串（"""..."""）。
// 插值字符串 $"{x}" 中的表达式括号同样被遮蔽，它们本身总是成对出现。
func (l *CSharp) Mask(text string) string {
	return maskText(text, maskRules{
		lineComment:     true,
		blockComment:    true,
		verbatimStrings: true,
		rawQuoted:       true,
	})
}
