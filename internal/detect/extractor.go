package detect

import (
	"strings"

	"codegate/internal/model"
)

// ExtractBody 从声明位置向后找第一个 `{`，并截取到其配对 `}` 之后。
// 找不到 `{` 时返回 false（例如抽象方法、接口签名），这不是错误。
func ExtractBody(text string, declaration model.MethodDeclaration) (model.MethodBody, bool) {
	from := declaration.Offset
	if declaration.BodyStart > 0 {
		from = declaration.BodyStart
	}
	if from < 0 || from >= len(text) {
		return model.MethodBody{}, false
	}

	open := strings.IndexByte(text[from:], '{')
	if open < 0 {
		return model.MethodBody{}, false
	}
	open += from

	end, closed := MatchDelimiter(text, open, '{', '}')
	body := text[open:end]

	return model.MethodBody{
		Text:      body,
		Start:     open,
		End:       end,
		LineCount: CountLines(body),
		Closed:    closed,
	}, true
}

// CountLines 返回按 "\n" 切分后的段数。
// 空串计为 1 段，末尾换行会多出一个空段。
func CountLines(text string) int {
	return strings.Count(text, "\n") + 1
}
