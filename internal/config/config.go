package config

import (
	"strconv"

	"github.com/UnknownOlympus/datasim/internal/dataset"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for a dataset generation run.
// With nothing configured a run writes dataset.DefaultPath with a time-based
// seed and no database mirror.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - OutputPath: Path of the dataset file to create or overwrite.
// - Seed: Fixed seed for the random source, used when HasSeed is true.
// - Progress: Whether to render a progress bar on stderr.
// - MetricsFile: Optional path of a prometheus textfile written after the run.
// - Database: Configuration of the optional PostgreSQL mirror.
type Config struct {
	Env         string         `mapstructure:"env"`          // Env is the current environment: local, development, production.
	OutputPath  string         `mapstructure:"output"`       // OutputPath is the dataset file path.
	Seed        uint64         `mapstructure:"-"`            // Seed for the random source.
	HasSeed     bool           `mapstructure:"-"`            // HasSeed reports whether Seed was configured.
	Progress    bool           `mapstructure:"progress"`     // Progress enables the progress bar.
	MetricsFile string         `mapstructure:"metrics_file"` // MetricsFile is the prometheus textfile path.
	Database    PostgresConfig `mapstructure:"db"`           // Database holds the mirror database configuration.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"name"`     // Name is the name of the database.
}

// Enabled reports whether a mirror database was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// MustLoad loads the configuration from the environment and, when
// DATASIM_CONFIG names one, a YAML file. Environment variables win over the
// file. It panics when a value cannot be parsed.
func MustLoad() *Config {
	vpr := viper.New()
	vpr.SetEnvPrefix("DATASIM")
	vpr.AutomaticEnv()

	vpr.SetDefault("env", "production")
	vpr.SetDefault("output", dataset.DefaultPath)
	vpr.SetDefault("seed", "")
	vpr.SetDefault("progress", false)
	vpr.SetDefault("metrics_file", "")
	vpr.SetDefault("db.host", "")
	vpr.SetDefault("db.port", "5432")
	vpr.SetDefault("db.user", "")
	vpr.SetDefault("db.password", "")
	vpr.SetDefault("db.name", "")

	_ = vpr.BindEnv("db.host", "DB_HOST")
	_ = vpr.BindEnv("db.port", "DB_PORT")
	_ = vpr.BindEnv("db.user", "DB_USERNAME")
	_ = vpr.BindEnv("db.password", "DB_PASSWORD")
	_ = vpr.BindEnv("db.name", "DB_NAME")

	if path := vpr.GetString("config"); path != "" {
		vpr.SetConfigFile(path)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	var cfg Config
	if err := vpr.Unmarshal(&cfg); err != nil {
		panic("failed to decode configuration")
	}

	if raw := vpr.GetString("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			panic("failed to parse seed from configuration, must be an unsigned integer")
		}
		cfg.Seed, cfg.HasSeed = seed, true
	}

	return &cfg
}
