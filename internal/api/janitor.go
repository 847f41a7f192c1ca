package api

import (
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// janitor 定期清理过期下载及其文件
type janitor struct {
	store *downloadStore
	log   zerolog.Logger
	c     *cron.Cron
}

func newJanitor(spec string, store *downloadStore, log zerolog.Logger) (*janitor, error) {
	j := &janitor{store: store, log: log, c: cron.New()}
	if spec == "" {
		spec = "@every 5m"
	}
	if _, err := j.c.AddFunc(spec, j.sweep); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *janitor) Start() { j.c.Start() }

func (j *janitor) Stop() { <-j.c.Stop().Done() }

func (j *janitor) sweep() {
	expired := j.store.purgeExpired()
	for _, d := range expired {
		removeReportFile(d.filePath)
	}
	if len(expired) > 0 {
		j.log.Info().Int("count", len(expired)).Msg("janitor: expired downloads removed")
	}
}

// removeReportFile 删除文件，目录为空时一并删除
func removeReportFile(path string) {
	_ = os.Remove(path)
	_ = os.Remove(filepath.Dir(path))
}
