package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config アプリケーション全体の設定
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Firestore FirestoreConfig `yaml:"firestore" mapstructure:"firestore"`
	Grid      GridConfig      `yaml:"grid" mapstructure:"grid"`
	Kyusei    KyuseiConfig    `yaml:"kyusei" mapstructure:"kyusei"`
	Overlay   OverlayConfig   `yaml:"overlay" mapstructure:"overlay"`
}

// ServerConfig HTTPサーバー
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig ログ出力
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// StoreConfig 保存先。driver は memory / postgres / sqlite
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// FirestoreConfig project_id があれば九星気学分析の履歴を Firestore に保存する
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id" mapstructure:"project_id"`
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
}

// GridConfig 吉凶グリッドの既定値
type GridConfig struct {
	RadiusKm   float64 `yaml:"radius_km" mapstructure:"radius_km"`
	CellSizeKm float64 `yaml:"cell_size_km" mapstructure:"cell_size_km"`
	Workers    int     `yaml:"workers" mapstructure:"workers"`
	Grouping   string  `yaml:"grouping" mapstructure:"grouping"`
	MaxCells   int     `yaml:"max_cells" mapstructure:"max_cells"` // 1リクエストで生成する格子点数の上限
}

// KyuseiConfig 立春の固定日付
type KyuseiConfig struct {
	SpringStartMonth int `yaml:"spring_start_month" mapstructure:"spring_start_month"`
	SpringStartDay   int `yaml:"spring_start_day" mapstructure:"spring_start_day"`
}

// OverlayConfig 非同期オーバーレイジョブ
type OverlayConfig struct {
	JobTTLMinutes int `yaml:"job_ttl_minutes" mapstructure:"job_ttl_minutes"`
}

// Load .env、config.yaml、KYUSEI_ で始まる環境変数の順に読み込む（後勝ち）
func Load() (*Config, error) {
	// .env は任意
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KYUSEI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.credentials_file", "")
	v.SetDefault("grid.radius_km", 120.0)
	v.SetDefault("grid.cell_size_km", 1.0)
	v.SetDefault("grid.max_cells", 2000000)
	v.SetDefault("grid.workers", 0)
	v.SetDefault("grid.grouping", "identity")
	v.SetDefault("kyusei.spring_start_month", 2)
	v.SetDefault("kyusei.spring_start_day", 4)
	v.SetDefault("overlay.job_ttl_minutes", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate 起動前に設定値を確認する
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port が不正です: %d", c.Server.Port)
	}
	switch c.Store.Driver {
	case "memory":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			return eris.Errorf("config: store.driver=%s には store.dsn が必要です", c.Store.Driver)
		}
	default:
		return eris.Errorf("config: store.driver が不正です: %q", c.Store.Driver)
	}
	if !(c.Grid.RadiusKm > 0) {
		return eris.Errorf("config: grid.radius_km は正の値で指定してください: %v", c.Grid.RadiusKm)
	}
	if !(c.Grid.CellSizeKm > 0) {
		return eris.Errorf("config: grid.cell_size_km は正の値で指定してください: %v", c.Grid.CellSizeKm)
	}
	if c.Grid.MaxCells <= 0 {
		return eris.Errorf("config: grid.max_cells は正の値で指定してください: %d", c.Grid.MaxCells)
	}
	if c.Grid.Workers < 0 {
		return eris.Errorf("config: grid.workers は0以上で指定してください: %d", c.Grid.Workers)
	}
	switch c.Grid.Grouping {
	case "identity", "merge":
	default:
		return eris.Errorf("config: grid.grouping が不正です: %q", c.Grid.Grouping)
	}
	if c.Kyusei.SpringStartMonth < 1 || c.Kyusei.SpringStartMonth > 12 ||
		c.Kyusei.SpringStartDay < 1 || c.Kyusei.SpringStartDay > 31 {
		return eris.Errorf("config: 立春の日付が不正です: %d/%d", c.Kyusei.SpringStartMonth, c.Kyusei.SpringStartDay)
	}
	if c.Overlay.JobTTLMinutes <= 0 {
		return eris.Errorf("config: overlay.job_ttl_minutes は正の値で指定してください: %d", c.Overlay.JobTTLMinutes)
	}
	return nil
}

// InitLogger グローバルの zap ロガーを初期化する
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
