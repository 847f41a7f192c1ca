package parser

import (
	"regexp"
	"strings"
)

// 行首编号：阿拉伯数字或中文数字，后接 . 、 ) 或空白
var leadingNumberRe = regexp.MustCompile(`^[\p{Nd}一二三四五六七八九十]+[.、)\s\p{Zs}]+`)

// SplitStatements 按行拆分工作内容，去除首尾空白并丢弃空行
func SplitStatements(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// CleanStatement 去除开头编号（如 1.、1)、一、 等）
func CleanStatement(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(leadingNumberRe.ReplaceAllString(s, ""))
}

// CleanStatements 批量清洗，清洗后为空的条目被丢弃
func CleanStatements(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if c := CleanStatement(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}
