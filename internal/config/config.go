package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds the configuration of the event database the tracker loads from
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	// ConnectTimeout bounds the retries of the first connection
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	FilterSubject  string        `mapstructure:"filter_subject"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// TrackerConfig holds the cache eviction settings
type TrackerConfig struct {
	CleanupIntervalEvents int           `mapstructure:"cleanup_interval_events"`
	RetentionShort        time.Duration `mapstructure:"retention_short"`
	RetentionLong         time.Duration `mapstructure:"retention_long"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// LauncherConfig holds the configuration of the program launcher
type LauncherConfig struct {
	Command         string        `mapstructure:"command"`
	MinMagnitude    float64       `mapstructure:"min_magnitude"`
	MaxDepth        float64       `mapstructure:"max_depth"`
	TriggerOnOrigin bool          `mapstructure:"trigger_on_origin"`
	Workers         int           `mapstructure:"workers"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// WatchConfig holds configuration for the watch command
type WatchConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Tracker    TrackerConfig  `mapstructure:"tracker"`
	Server     ServerConfig   `mapstructure:"server"`
}

// LaunchConfig holds configuration for the launch command
type LaunchConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Tracker    TrackerConfig  `mapstructure:"tracker"`
	Server     ServerConfig   `mapstructure:"server"`
	Launcher   LauncherConfig `mapstructure:"launcher"`
}

// ArchiveConfig holds configuration for the archive command
type ArchiveConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
}

// NotifierLogConfig holds configuration for the notifier log and play commands
type NotifierLogConfig struct {
	BaseConfig `mapstructure:",squash"`
	NATS       NATSConfig `mapstructure:"nats"`
	Path       string     `mapstructure:"path"`
}

// LoadWatchConfig loads configuration for the watch command
func LoadWatchConfig(configFile string, envPath string) (*WatchConfig, error) {
	v := configureViper("watch", configFile, envPath)
	setDatabaseDefaults(v)
	setNATSDefaults(v, "quakewatch-watch")
	setTrackerDefaults(v)
	setServerDefaults(v)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config WatchConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadLaunchConfig loads configuration for the launch command
func LoadLaunchConfig(configFile string, envPath string) (*LaunchConfig, error) {
	v := configureViper("launch", configFile, envPath)
	setDatabaseDefaults(v)
	setNATSDefaults(v, "quakewatch-launch")
	setTrackerDefaults(v)
	setServerDefaults(v)
	v.SetDefault("launcher.min_magnitude", 5.0)
	v.SetDefault("launcher.max_depth", 150.0)
	v.SetDefault("launcher.trigger_on_origin", false)
	v.SetDefault("launcher.workers", 4)
	v.SetDefault("launcher.timeout", "10m")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config LaunchConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// Validate checks the fields the launch command cannot run without
func (c *LaunchConfig) Validate() error {
	if c.Launcher.Command == "" {
		return errors.New("launcher.command is required")
	}
	return nil
}

// LoadArchiveConfig loads configuration for the archive command
func LoadArchiveConfig(configFile string, envPath string) (*ArchiveConfig, error) {
	v := configureViper("archive", configFile, envPath)
	setDatabaseDefaults(v)
	setNATSDefaults(v, "quakewatch-archive")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config ArchiveConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if config.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if config.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &config, nil
}

// LoadNotifierLogConfig loads configuration for the notifier log and play commands
func LoadNotifierLogConfig(configFile string, envPath string) (*NotifierLogConfig, error) {
	v := configureViper("notifier", configFile, envPath)
	setNATSDefaults(v, "quakewatch-notifier-log")
	v.SetDefault("path", "notifier.log")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config NotifierLogConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.connect_timeout", "1m")
}

func setNATSDefaults(v *viper.Viper, consumer string) {
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "NOTIFIER")
	v.SetDefault("nats.consumer_name", consumer)
	v.SetDefault("nats.filter_subject", "notifier.>")
	v.SetDefault("nats.connection_name", consumer)
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 3)
}

func setTrackerDefaults(v *viper.Viper) {
	v.SetDefault("tracker.cleanup_interval_events", 5)
	v.SetDefault("tracker.retention_short", "1h")
	v.SetDefault("tracker.retention_long", "2h")
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
}

// readConfig reads the config file, falling back to environment variables when there is none
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(command string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, command)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	// Set environment variables
	v.SetEnvPrefix("QUAKEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"path",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		"database.connect_timeout",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.filter_subject",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Tracker
		"tracker.cleanup_interval_events",
		"tracker.retention_short",
		"tracker.retention_long",
		// Server
		"server.enabled",
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Launcher
		"launcher.command",
		"launcher.min_magnitude",
		"launcher.max_depth",
		"launcher.trigger_on_origin",
		"launcher.workers",
		"launcher.timeout",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, command string) {
	envFiles := []string{".env", ".env.local"}
	if command != "" {
		envFiles = append(envFiles, ".env."+command+".local")
	}

	if envPath == "" {
		envPath = configDir()
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files override earlier ones
	}
}

// configDir returns the nearest config/ directory at or above the working directory,
// so commands started from a subdirectory of the deployment still find their files
func configDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "config/"
	}
	for range 5 {
		candidate := filepath.Join(cwd, "config")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		cwd = filepath.Dir(cwd)
	}
	return "config/"
}

// Enabled reports whether a database is configured
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != "" && c.DBName != ""
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
