package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/angas/junegloom/imagery"
	"github.com/angas/junegloom/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// If not assigned, the server will serve embedded files.
	// If assigned, the server will serve files from the directory,
	// that must contain a "static" and "templates" directory.
	// This is useful for development.
	WwwDir *string `mapstructure:"www_dir"`
	// Secret for the word cloud session cookie, a random key is used when empty
	SessionKey *string `mapstructure:"session_key"`
	// Link encoded in the share QR code, default: http://{address}:{port}/
	PublicUrl *string `mapstructure:"public_url"`
}

func (a AppConfigApi) GetPublicUrl() string {
	if a.PublicUrl == nil || *a.PublicUrl == "" {
		host := a.Address
		if host == "" {
			host = "localhost"
		}
		return fmt.Sprintf("http://%s:%d/", host, a.Port)
	}
	return *a.PublicUrl
}

type AppConfigDatabase struct {
	Path string
	// How many days builds should be kept before they get purged, the newest build is always kept
	DataRetentionDays *int `mapstructure:"data_retention_days"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDataRetentionDays() int {
	if d.DataRetentionDays == nil {
		return 90
	}
	return *d.DataRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigSource struct {
	// socal_data JSON, or the "const SOCAL_DATA = {...};" script
	RawPath string `mapstructure:"raw_path"`
	// Optional real cloud observations keyed by YYYY-MM-DD
	ObservationsPath string `mapstructure:"observations_path"`
	// Rebuild when a source file changes on disk, default: true
	Watch *bool  `mapstructure:"watch"`
	RunAt string `mapstructure:"run_at"`
}

func (s AppConfigSource) GetWatch() bool {
	if s.Watch == nil {
		return true
	}
	return *s.Watch
}

type AppConfigSynthesis struct {
	// Fixed seed for reproducible day synthesis, random when not assigned
	Seed *int64 `mapstructure:"seed"`
}

type AppConfigRanker struct {
	Sun   *float64 `mapstructure:"sun"`
	Cloud *float64 `mapstructure:"cloud"`
	Heat  *float64 `mapstructure:"heat"`
}

func (r AppConfigRanker) GetSun() float64 {
	if r.Sun == nil {
		return 50
	}
	return *r.Sun
}

func (r AppConfigRanker) GetCloud() float64 {
	if r.Cloud == nil {
		return 70
	}
	return *r.Cloud
}

func (r AppConfigRanker) GetHeat() float64 {
	if r.Heat == nil {
		return 30
	}
	return *r.Heat
}

type AppConfigImages struct {
	MonthlyDir  *string `mapstructure:"monthly_dir"`
	SelectedDir *string `mapstructure:"selected_dir"`
	Ext         *string `mapstructure:"ext"`
}

func (i AppConfigImages) GetPaths() imagery.Paths {
	p := imagery.DefaultPaths()
	if i.MonthlyDir != nil {
		p.MonthlyDir = *i.MonthlyDir
	}
	if i.SelectedDir != nil {
		p.SelectedDir = *i.SelectedDir
	}
	if i.Ext != nil {
		p.Ext = strings.TrimPrefix(*i.Ext, ".")
	}
	return p
}

type AppConfigGoes struct {
	// Directory listing of the GOES-18 PSW GeoColor imagery
	Url   *string `mapstructure:"url"`
	RunAt string  `mapstructure:"run_at"`
}

func (g AppConfigGoes) GetUrl() string {
	if g.Url == nil {
		return "https://cdn.star.nesdis.noaa.gov/GOES18/ABI/SECTOR/psw/GEOCOLOR/"
	}
	return *g.Url
}

type AppConfigMqtt struct {
	Enabled  bool
	Host     string
	Port     int16
	Username string
	Password string
	// Topic for dataset built notices, default: junegloom/dataset
	Topic *string
}

func (m AppConfigMqtt) GetTopic() string {
	if m.Topic == nil {
		return "junegloom/dataset"
	}
	return *m.Topic
}

type AppConfigGui struct {
	// Timezone for displaying times in the GUI, default: UTC
	Timezone *string `mapstructure:"timezone"`
}

func (g AppConfigGui) GetTimezone() string {
	if g.Timezone == nil {
		return "UTC"
	}
	return *g.Timezone
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for database console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.AttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.AttrFormatText
	}
	return logging.AttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api       AppConfigApi
	Database  AppConfigDatabase
	Source    AppConfigSource    `mapstructure:"source"`
	Synthesis AppConfigSynthesis `mapstructure:"synthesis"`
	Ranker    AppConfigRanker    `mapstructure:"ranker"`
	Images    AppConfigImages    `mapstructure:"images"`
	Goes      AppConfigGoes      `mapstructure:"goes"`
	Mqtt      AppConfigMqtt      `mapstructure:"mqtt"`
	Gui       AppConfigGui       `mapstructure:"gui"`
	Logging   AppConfigLogging   `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source.run_at", "0 4 * * *")
	v.SetDefault("goes.run_at", "*/10 * * * *")

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
