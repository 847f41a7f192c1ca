// Package util 桌面辅助工具
package util

import (
	"errors"
	"os/exec"
	"runtime"
)

// ErrNoBrowser 没有可用的浏览器命令
var ErrNoBrowser = errors.New("无法自动打开浏览器")

// browserCommands 按优先级返回打开 url 的候选命令
func browserCommands(goos, url string) [][]string {
	switch goos {
	case "windows":
		// rundll32 调用 url.dll，兼容 Windows 7；explorer 兜底
		return [][]string{
			{"rundll32", "url.dll,FileProtocolHandler", url},
			{"explorer", url},
		}
	case "darwin":
		return [][]string{{"open", url}}
	default:
		cmds := [][]string{{"xdg-open", url}}
		for _, b := range []string{"google-chrome", "firefox", "chromium-browser", "sensible-browser"} {
			cmds = append(cmds, []string{b, url})
		}
		return cmds
	}
}

// OpenBrowser 打开默认浏览器展示上传页，依次尝试候选命令
func OpenBrowser(url string) error {
	return openWith(browserCommands(runtime.GOOS, url), func(name string, args ...string) error {
		return exec.Command(name, args...).Start()
	})
}

func openWith(cmds [][]string, start func(name string, args ...string) error) error {
	var errs []error
	for _, c := range cmds {
		err := start(c[0], c[1:]...)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(append([]error{ErrNoBrowser}, errs...)...)
}
