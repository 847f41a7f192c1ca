// Package main 周报生成器入口：serve 启动网页服务，render 命令行生成
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"weeklyreport/internal/config"
	"weeklyreport/internal/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "weeklyreport",
		Short:         "周报生成器：周报 Excel 汇总为 PDF / Word 会议纪要",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "配置文件路径（默认为可执行文件同目录的 config.toml）")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "日志级别 (debug|info|warn|error)")

	rootCmd.AddCommand(newServeCmd(opts), newRenderCmd(opts))
	return rootCmd
}

// load 加载配置并初始化日志
func (o *rootOptions) load() (*config.AppConfig, config.LoadConfigInfo, zerolog.Logger, error) {
	var (
		cfg  *config.AppConfig
		info config.LoadConfigInfo
		err  error
	)
	if o.configPath != "" {
		cfg, info, err = config.LoadFrom(o.configPath)
	} else {
		cfg, info, err = config.LoadConfigWithInfo()
	}
	if err != nil {
		return nil, info, zerolog.Nop(), err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, info, logger.New(cfg.Log), nil
}
