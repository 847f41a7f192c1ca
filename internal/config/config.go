package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 环境变量
const (
	EnvFontPath = "WEEKLYREPORT_FONT_PATH"
	EnvLogLevel = "WEEKLYREPORT_LOG_LEVEL"
	EnvDataDir  = "WEEKLYREPORT_DATA_DIR"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Report ReportConfig `toml:"report"`
	Fonts  FontConfig   `toml:"fonts"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir            string `toml:"data_dir"`
	DownloadTTLMinutes int    `toml:"download_ttl_minutes"`
	JanitorSpec        string `toml:"janitor_spec"` // cron 表达式
	MaxUploadSizeMB    int64  `toml:"max_upload_size_mb"`
}

// ReportConfig 报告抬头与分类规则
type ReportConfig struct {
	Company        string `toml:"company"`
	Department     string `toml:"department"`
	Group          string `toml:"group"`
	CatchAllMarker string `toml:"catch_all_marker"`
	PooledLabel    string `toml:"pooled_label"`
	AssignedLabel  string `toml:"assigned_label"`
	HeaderFooter   bool   `toml:"header_footer"` // PDF 页眉页脚
}

// FontConfig 字体配置
type FontConfig struct {
	PDFFontPaths []string `toml:"pdf_font_paths"` // 依次尝试，取第一个可读的 TrueType 字体
	DocxFont     string   `toml:"docx_font"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir:            "data",
			DownloadTTLMinutes: 30,
			JanitorSpec:        "@every 5m",
			MaxUploadSizeMB:    20,
		},
		Report: ReportConfig{
			Company:        "北银金融科技有限责任公司",
			Department:     "产品研发部",
			Group:          "综合业务组",
			CatchAllMarker: "其他",
			PooledLabel:    "入池",
			AssignedLabel:  "入项",
		},
		Fonts: FontConfig{
			PDFFontPaths: []string{
				"fonts/simhei.ttf",
				`C:\Windows\Fonts\simhei.ttf`,
				`C:\Windows\Fonts\simsun.ttc`,
				"/System/Library/Fonts/STHeiti Light.ttc",
				"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
				"/Library/Fonts/Arial Unicode.ttf",
				"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
				"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
				"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
				"/usr/share/fonts/truetype/arphic/uming.ttc",
			},
			DocxFont: "宋体",
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath config.toml 默认位置（可执行文件同目录）
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom 从指定路径加载配置，文件不存在时使用默认配置
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// 环境变量覆盖（用于 E2E / 本地运行）
func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvFontPath)); v != "" {
		config.Fonts.PDFFontPaths = append([]string{v}, config.Fonts.PDFFontPaths...)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		config.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		config.Data.DataDir = v
	}
}

// ResolveDataDir 相对路径基于可执行文件所在目录
func ResolveDataDir(config *AppConfig) string {
	return resolveExePath(config.Data.DataDir)
}

// ResolveFontPaths 字体候选路径，相对路径基于可执行文件所在目录
func ResolveFontPaths(config *AppConfig) []string {
	paths := make([]string, 0, len(config.Fonts.PDFFontPaths))
	for _, p := range config.Fonts.PDFFontPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paths = append(paths, resolveExePath(p))
	}
	return paths
}

func resolveExePath(p string) string {
	if filepath.IsAbs(p) || isWindowsAbs(p) {
		return p
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, p)
}

// isWindowsAbs 识别 C:\ 形式的路径（非 Windows 平台上 filepath.IsAbs 不认）
func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/')
}

// ApplyPort 命令行端口仅在 config.toml 未显式配置 port 时生效
func ApplyPort(config *AppConfig, info LoadConfigInfo, port int) bool {
	if port <= 0 || info.PortSpecified {
		return false
	}
	config.Server.Port = port
	return true
}

// EnsureDataDir 确保数据目录及子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	if err := os.MkdirAll(ExportDir(dataDir), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// ExportDir 生成文件的暂存目录
func ExportDir(dataDir string) string {
	return filepath.Join(dataDir, "exports")
}
