package exporter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequestFields 期数或日期为空
var ErrMissingRequestFields = errors.New("请填写期数和日期后再生成下载！")

// ErrUnknownFormat 不支持的输出格式
var ErrUnknownFormat = errors.New("不支持的输出格式")

// RenderError 生成失败，记录格式与阶段
type RenderError struct {
	Format Format
	Stage  string
	Err    error
}

func (e *RenderError) Error() string {
	name := strings.ToUpper(string(e.Format))
	if name == "" {
		name = "报告"
	}
	return fmt.Sprintf("生成%s失败（%s）: %v", name, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func wrapStage(format Format, stage string, err error) error {
	if err == nil {
		return nil
	}
	var re *RenderError
	if errors.As(err, &re) {
		if re.Format == "" && format != "" {
			return &RenderError{Format: format, Stage: re.Stage, Err: re.Err}
		}
		return err
	}
	return &RenderError{Format: format, Stage: stage, Err: err}
}
