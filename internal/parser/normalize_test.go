package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"1. Did X", "2、Did Y"}, SplitStatements("1. Did X\n\n2、Did Y \n"))
	assert.Equal(t, []string{"a", "b"}, SplitStatements("  a\r\n\r\n b\r\n"))
	assert.Empty(t, SplitStatements(""))
	assert.Empty(t, SplitStatements(" \n \n"))
}

func TestCleanStatement(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1. Did X":          "Did X",
		"2、Did Y":           "Did Y",
		"3)完成联调":            "完成联调",
		"10 people joined":  "people joined",
		"一、需求评审":            "需求评审",
		"十二、上线":             "上线",
		"１．全角编号":            "１．全角编号",
		"  无编号内容  ":          "无编号内容",
		"2025年6月完成验收":       "2025年6月完成验收",
		"3D打印样机":            "3D打印样机",
		"1.":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanStatement(in), "input=%q", in)
	}
}

func TestSplitThenClean(t *testing.T) {
	t.Parallel()

	got := CleanStatements(SplitStatements("1. Did X\n\n2、Did Y \n"))
	assert.Equal(t, []string{"Did X", "Did Y"}, got)

	got = CleanStatements([]string{"1.", "2、有效"})
	assert.Equal(t, []string{"有效"}, got)
}
