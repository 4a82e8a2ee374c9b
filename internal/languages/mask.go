package languages

import "strings"

// maskRules 描述一种语言需要识别的注释和字面量形式。
type maskRules struct {
	lineComment     bool // 行注释 //
	blockComment    bool // 块注释 /* */，不支持嵌套
	verbatimStrings bool // C# 逐字字符串 @"..."，内部 "" 表示一个引号
	textBlocks      bool // Java 文本块 """..."""
	rawQuoted       bool // C# 原始字符串，至少三个引号开头，同样数量的引号闭合，不处理转义
	rawStrings      bool // Go 原始字符串 `...`
}

// maskState 是遮蔽状态机的状态。
type maskState int

const (
	stateCode maskState = iota
	stateLineComment
	stateBlockComment
	stateDoubleQuoted
	stateSingleQuoted
	stateVerbatim
	stateTextBlock
	stateRawQuoted
	stateRaw
)

// maskEngine 逐字节扫描文本。
// 注释整体替换为空格；字面量保留引号，内容替换为空格；换行符始终保留。
// 输出与输入字节长度一致，因此后续所有偏移量都可以直接对应到原文。
type maskEngine struct {
	rules  maskRules
	state  maskState
	quotes int // 当前 C# 原始字符串的开头引号数
	out    []byte
}

func maskText(text string, rules maskRules) string {
	engine := &maskEngine{rules: rules, out: []byte(text)}
	engine.run(text)
	return string(engine.out)
}

func (e *maskEngine) blank(idx int) {
	if e.out[idx] != '\n' && e.out[idx] != '\r' {
		e.out[idx] = ' '
	}
}

// run 驱动状态机，每个分支都保证游标前进。
func (e *maskEngine) run(text string) {
	for idx := 0; idx < len(text); {
		current := text[idx]
		hasNext := idx+1 < len(text)
		next := byte(0)
		if hasNext {
			next = text[idx+1]
		}

		switch e.state {
		case stateLineComment:
			if current == '\n' {
				e.state = stateCode
			}
			e.blank(idx)
			idx++

		case stateBlockComment:
			// 块注释不支持嵌套，找到 */ 即可离开。
			if current == '*' && hasNext && next == '/' {
				e.blank(idx)
				e.blank(idx + 1)
				e.state = stateCode
				idx += 2
				continue
			}
			e.blank(idx)
			idx++

		case stateDoubleQuoted, stateSingleQuoted:
			quote := byte('"')
			if e.state == stateSingleQuoted {
				quote = '\''
			}
			// 处理转义字符，避免 \" 导致提早退出字符串态。
			if current == '\\' && hasNext {
				e.blank(idx)
				e.blank(idx + 1)
				idx += 2
				continue
			}
			// 普通字面量不能跨行，未闭合时在行尾恢复。
			if current == quote || current == '\n' {
				e.state = stateCode
				idx++
				continue
			}
			e.blank(idx)
			idx++

		case stateVerbatim:
			if current == '"' && hasNext && next == '"' {
				e.blank(idx)
				e.blank(idx + 1)
				idx += 2
				continue
			}
			if current == '"' {
				e.state = stateCode
				idx++
				continue
			}
			e.blank(idx)
			idx++

		case stateTextBlock:
			if strings.HasPrefix(text[idx:], `"""`) {
				e.state = stateCode
				idx += 3
				continue
			}
			if current == '\\' && hasNext {
				e.blank(idx)
				e.blank(idx + 1)
				idx += 2
				continue
			}
			e.blank(idx)
			idx++

		case stateRawQuoted:
			if current == '"' {
				run := quoteRun(text, idx)
				if run >= e.quotes {
					e.state = stateCode
					idx += run
					continue
				}
				for offset := range run {
					e.blank(idx + offset)
				}
				idx += run
				continue
			}
			e.blank(idx)
			idx++

		case stateRaw:
			// 原始字符串仅由反引号闭合，不处理转义。
			if current == '`' {
				e.state = stateCode
				idx++
				continue
			}
			e.blank(idx)
			idx++

		default:
			idx = e.enter(text, idx, current, next)
		}
	}
}

// enter 在代码态下识别注释或字面量的起始符号，返回新的游标位置。
func (e *maskEngine) enter(text string, idx int, current byte, next byte) int {
	switch {
	case e.rules.lineComment && current == '/' && next == '/':
		e.blank(idx)
		e.blank(idx + 1)
		e.state = stateLineComment
		return idx + 2
	case e.rules.blockComment && current == '/' && next == '*':
		e.blank(idx)
		e.blank(idx + 1)
		e.state = stateBlockComment
		return idx + 2
	case e.rules.rawQuoted && current == '"' && quoteRun(text, idx) >= 3:
		e.quotes = quoteRun(text, idx)
		e.state = stateRawQuoted
		return idx + e.quotes
	case e.rules.textBlocks && strings.HasPrefix(text[idx:], `"""`):
		e.state = stateTextBlock
		return idx + 3
	case e.rules.verbatimStrings && current == '@' && next == '"':
		e.state = stateVerbatim
		return idx + 2
	case current == '"':
		e.state = stateDoubleQuoted
	case current == '\'':
		e.state = stateSingleQuoted
	case e.rules.rawStrings && current == '`':
		e.state = stateRaw
	}
	return idx + 1
}

// quoteRun 返回从 idx 开始连续双引号的个数。
func quoteRun(text string, idx int) int {
	run := 0
	for idx+run < len(text) && text[idx+run] == '"' {
		run++
	}
	return run
}
