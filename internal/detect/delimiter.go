// Package detect 实现方法体长度检测的核心逻辑。
//
// 整个包只在原始文本上工作：声明靠正则识别，方法体边界靠括号配对，
// 不构建语法树，也不理解被扫描语言的语义。
// 字符串、字符字面量和注释中的括号同样会参与计数，这是已知限制。
package detect

// MatchBrace 返回与 text[open] 处 `{` 配对的 `}` 之后的下标。
// 文本在配对完成前结束时返回 len(text)。
func MatchBrace(text string, open int) int {
	end, _ := MatchDelimiter(text, open, '{', '}')
	return end
}

// MatchDelimiter 从已知的开括号位置向后计数，深度从 1 开始：
// 遇到 opener 加一，遇到 closer 减一，深度首次回到 0 时返回该 closer 之后的下标。
//
// closed 为 false 表示扫描到文本末尾深度仍未归零，此时 end == len(text)。
// open 越界时同样按未闭合处理。
func MatchDelimiter(text string, open int, opener byte, closer byte) (end int, closed bool) {
	if open < 0 || open >= len(text) {
		return len(text), false
	}

	depth := 1
	for idx := open + 1; idx < len(text); idx++ {
		switch text[idx] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return idx + 1, true
			}
		}
	}

	return len(text), false
}
