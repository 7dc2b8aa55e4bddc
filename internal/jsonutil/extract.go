// Package jsonutil extracts JSON documents from free-form model output.
package jsonutil

import (
	"strings"
)

// ExtractObject returns the outermost JSON object in text. Markdown code
// fences and any prose around the object are dropped. If text contains no
// object it is returned trimmed and unchanged so that the decoder reports
// the problem.
func ExtractObject(text string) string {
	text = strings.TrimSpace(text)
	text = stripFence(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line, e.g. ```json
	if i := strings.Index(text, "\n"); i != -1 {
		text = text[i+1:]
	} else {
		return strings.TrimPrefix(text, "```")
	}
	if i := strings.LastIndex(text, "```"); i != -1 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
