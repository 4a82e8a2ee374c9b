package languages

import "codegate/internal/detect"

// Java 声明模式：额外识别 interface 与 enum，修饰符集合按 Java 关键字调整。
const (
	javaTypePattern = `class[` + detect.SpaceChars + `]+(?P<class>[` + detect.IdentChars + `]+)` +
		`|record[` + detect.SpaceChars + `]+(?P<record>[` + detect.IdentChars + `]+)` +
		`|interface[` + detect.SpaceChars + `]+(?P<interface>[` + detect.IdentChars + `]+)` +
		`|enum[` + detect.SpaceChars + `]+(?P<enum>[` + detect.IdentChars + `]+)`
	javaMethodPattern = `(?P<access>public|protected|private|static|final|abstract|synchronized)` +
		`(?P<modifier>[` + detect.SpaceChars + `]+[` + detect.IdentChars + `]+)?` +
		`[` + detect.SpaceChars + `]+[` + detect.IdentChars + `<>\[\],.?` + detect.SpaceChars + `]+[` + detect.SpaceChars + `]+` +
		`(?P<name>[` + detect.IdentChars + `]+)[` + detect.SpaceChars + `]*\(`
)

// Java 是 Java 语言配置。
type Java struct {
	locator *detect.PatternLocator
}

// NewJava 创建 Java 配置。
func NewJava() *Java {
	return &Java{locator: detect.MustPatternLocator(detect.PatternConfig{
		TypePattern:   javaTypePattern,
		MethodPattern: javaMethodPattern,
		ExcludedWords: []string{"class", "record", "interface"},
	})}
}

// ID 返回命令行短标识。
func (l *Java) ID() string {
	return "java"
}

// Name 返回语言名称。
func (l *Java) Name() string {
	return "Java"
}

// Extensions 返回 Java 后缀。
func (l *Java) Extensions() []string {
	return []string{".java"}
}

// Locator 返回基于正则的声明定位器。
func (l *Java) Locator() detect.Locator {
	return l.locator
}

// Mask 遮蔽注释、字符串、字符字面量与文本块（"""）。
func (l *Java) Mask(text string) string {
	return maskText(text, maskRules{
		lineComment:  true,
		blockComment: true,
		textBlocks:   true,
	})
}
