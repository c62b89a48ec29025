package generator

import (
	"strings"
)

// PostProcess 规范化模型输出：统一换行、去掉首尾空白和包裹整段的代码块围栏。
// 空结果原样返回，由后续解析报告 empty response。
func PostProcess(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(text)
	return stripFence(text)
}

// stripFence removes a single ``` fence wrapping the whole completion.
func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}
	body := strings.TrimSuffix(text, "```")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return text
	}
	return strings.TrimSpace(body[nl+1:])
}
