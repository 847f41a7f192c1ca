package exporter

// 生成阶段
const (
	StageParse     = "parse"
	StageAggregate = "aggregate"
	StageCompose   = "compose"
	StageSerialize = "serialize"
	StageFinalize  = "finalize"
)

// ProgressEvent 生成进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
	Format  Format `json:"format,omitempty"`
}

func reportProgress(progress func(ProgressEvent), percent int, stage string, format Format) {
	if progress == nil {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
		Format:  format,
	})
}
