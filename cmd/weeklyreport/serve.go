package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"weeklyreport/internal/config"
	"weeklyreport/internal/server"
	"weeklyreport/internal/util"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port      int
		devMode   bool
		noBrowser bool
		dataDir   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动网页服务（上传周报、生成并下载）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, info, log, err := root.load()
			if err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}

			// 命令行参数覆盖配置（port 以 config.toml 为准）
			if port > 0 && !config.ApplyPort(cfg, info, port) {
				log.Warn().
					Int("flag_port", port).
					Int("config_port", cfg.Server.Port).
					Str("config", info.Path).
					Msg("port is set in config file, --port ignored")
			}
			if devMode {
				cfg.Server.DevMode = true
			}
			if noBrowser {
				cfg.Server.OpenBrowser = false
			}
			if dataDir != "" {
				cfg.Data.DataDir = dataDir
			}

			srv, err := server.NewServer(cfg, log)
			if err != nil {
				return err
			}

			url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
			log.Info().
				Str("addr", srv.Addr()).
				Str("config", info.Path).
				Bool("config_found", info.FileFound).
				Msg("server starting")

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Run() }()

			if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
				if err := util.OpenBrowser(url); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "无法自动打开浏览器，请手动访问: %s\n", url)
				}
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "请访问 %s\n", url)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "服务端口（config.toml 优先；仅当未显式配置 port 时生效）")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "数据目录（覆盖配置文件）")
	return cmd
}
