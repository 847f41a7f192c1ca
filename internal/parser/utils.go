package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名，去除空格和特殊字符
func NormalizeColumnName(name string) string {
	// 去除首尾空格
	name = strings.TrimSpace(name)
	// 去除换行符和制表符
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	// 去除 BOM 与全角空格
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ReplaceAll(name, "　", "")
	return spaceRe.ReplaceAllString(name, "")
}

// parseCount 将单元格转换为非负整数，失败时返回 (0, false)
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // 移除千分位
	s = strings.ReplaceAll(s, "，", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	if f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
