package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system settings
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
	NodeID   int64  `yaml:"node_id" json:"node_id"`
}

// WebConfig admin api settings
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// StorageConfig durable key/value backend. Type is bolt, postgres or memory.
type StorageConfig struct {
	Type string `yaml:"type" json:"type"`
	Path string `yaml:"path" json:"path"`
	Dsn  string `yaml:"dsn" json:"dsn"`
}

// InventoryConfig classification and report thresholds
type InventoryConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold" json:"low_stock_threshold"`
	ExpiryWindowDays  int `yaml:"expiry_window_days" json:"expiry_window_days"`
	TopN              int `yaml:"top_n" json:"top_n"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// JobsConfig background jobs
type JobsConfig struct {
	MetricsInterval string `yaml:"metrics_interval" json:"metrics_interval"`
	ExportCron      string `yaml:"export_cron" json:"export_cron"`
	ExportWorkers   int    `yaml:"export_workers" json:"export_workers"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Storage   StorageConfig   `yaml:"storage" json:"storage"`
	Inventory InventoryConfig `yaml:"inventory" json:"inventory"`
	Logger    LogConfig       `yaml:"logger" json:"logger"`
	Jobs      JobsConfig      `yaml:"jobs" json:"jobs"`
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetReportDir() string {
	return path.Join(c.System.Workdir, "reports")
}

// GetStoragePath returns the bolt file, defaulting under the data dir.
func (c *AppConfig) GetStoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return path.Join(c.GetDataDir(), "toughstock.db")
}

func (c *AppConfig) initDirs() {
	for _, dir := range []string{c.GetDataDir(), c.GetLogDir(), c.GetReportDir()} {
		_ = os.MkdirAll(dir, 0o755)
	}
}

// DefaultAppConfig is used when no config file is found.
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "ToughStock",
		Location: "Asia/Shanghai",
		Workdir:  "/var/toughstock",
		Debug:    true,
		NodeID:   1,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Storage: StorageConfig{
		Type: "bolt",
	},
	Inventory: InventoryConfig{
		LowStockThreshold: 5,
		ExpiryWindowDays:  7,
		TopN:              5,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/toughstock/logs/toughstock.log",
	},
	Jobs: JobsConfig{
		MetricsInterval: "@every 30s",
		ExportCron:      "0 0 2 * * *",
		ExportWorkers:   2,
	},
}

// LoadConfig reads cfile (or the default search paths) and applies .env and
// TOUGHSTOCK_* environment overrides.
func LoadConfig(cfile string) *AppConfig {
	_ = godotenv.Load()

	cfg, err := readConfig(cfile)
	if err != nil {
		cfg = clone(DefaultAppConfig)
	}
	applyEnv(cfg)
	cfg.initDirs()
	return cfg
}

func readConfig(cfile string) (*AppConfig, error) {
	candidates := []string{cfile, "toughstock.yml", "/etc/toughstock.yml"}
	for _, f := range candidates {
		if f == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Clean(f))
		if err != nil {
			continue
		}
		cfg := clone(DefaultAppConfig)
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", f)
		}
		return cfg, nil
	}
	return nil, errors.New("no config file found")
}

func clone(src *AppConfig) *AppConfig {
	c := *src
	return &c
}

// Dump renders the config as yaml.
func (c *AppConfig) Dump() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func applyEnv(cfg *AppConfig) {
	setEnvString("TOUGHSTOCK_SYSTEM_APPID", &cfg.System.Appid)
	setEnvString("TOUGHSTOCK_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvString("TOUGHSTOCK_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBool("TOUGHSTOCK_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvInt64("TOUGHSTOCK_SYSTEM_NODE_ID", &cfg.System.NodeID)

	setEnvString("TOUGHSTOCK_WEB_HOST", &cfg.Web.Host)
	setEnvInt("TOUGHSTOCK_WEB_PORT", &cfg.Web.Port)

	setEnvString("TOUGHSTOCK_STORAGE_TYPE", &cfg.Storage.Type)
	setEnvString("TOUGHSTOCK_STORAGE_PATH", &cfg.Storage.Path)
	setEnvString("TOUGHSTOCK_STORAGE_DSN", &cfg.Storage.Dsn)

	setEnvInt("TOUGHSTOCK_LOW_STOCK_THRESHOLD", &cfg.Inventory.LowStockThreshold)
	setEnvInt("TOUGHSTOCK_EXPIRY_WINDOW_DAYS", &cfg.Inventory.ExpiryWindowDays)
	setEnvInt("TOUGHSTOCK_TOP_N", &cfg.Inventory.TopN)

	setEnvString("TOUGHSTOCK_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("TOUGHSTOCK_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvString("TOUGHSTOCK_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvString("TOUGHSTOCK_JOBS_METRICS_INTERVAL", &cfg.Jobs.MetricsInterval)
	setEnvString("TOUGHSTOCK_JOBS_EXPORT_CRON", &cfg.Jobs.ExportCron)
	setEnvInt("TOUGHSTOCK_JOBS_EXPORT_WORKERS", &cfg.Jobs.ExportWorkers)
}

func setEnvString(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvBool(name string, val *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}

func setEnvInt(name string, val *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			*val = n
		}
	}
}

func setEnvInt64(name string, val *int64) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := cast.ToInt64E(v); err == nil {
			*val = n
		}
	}
}
