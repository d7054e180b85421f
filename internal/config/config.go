package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "catalogctl.yaml"

const envPrefix = "CATALOGCTL"

type Config struct {
	Version   string    `mapstructure:"version"`
	API       API       `mapstructure:"api"`
	Session   Session   `mapstructure:"session"`
	Logger    Logger    `mapstructure:"logger"`
	Submit    Submit    `mapstructure:"submit"`
	Picker    Picker    `mapstructure:"picker"`
	DevServer DevServer `mapstructure:"dev_server"`
}

type API struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // bound on every network call
}

type Session struct {
	StorePath string `mapstructure:"store_path"` // bbolt file holding the bearer token
}

type Logger struct {
	Mode       string `mapstructure:"mode"` // "development" or "production"
	Level      string `mapstructure:"level"`
	FileEnable bool   `mapstructure:"file_enable"`
	Filename   string `mapstructure:"filename"`
}

type Submit struct {
	BatchConcurrency int `mapstructure:"batch_concurrency"` // 1 runs batch items one after another
}

type Picker struct {
	MaxSelection int `mapstructure:"max_selection"`
}

type DevServer struct {
	Addr          string `mapstructure:"addr"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	JWTSecret     string `mapstructure:"jwt_secret"`
}

// LoadConfig reads the YAML config at path (catalogctl.yaml when empty),
// falling back to defaults when the file does not exist. Values from the
// environment (CATALOGCTL_API_BASE_URL, ...) and a local .env file override it.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	if path == "" {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("yaml")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ProvideConfig loads the config the command was started with
// @Provider
func ProvideConfig(path string) (*Config, error) {
	return LoadConfig(path)
}

// setDefaults sets default values using Viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", "1.0")
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("session.store_path", defaultStorePath())
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file_enable", false)
	v.SetDefault("logger.filename", "catalogctl.log")
	v.SetDefault("submit.batch_concurrency", 1)
	v.SetDefault("picker.max_selection", 6)
	v.SetDefault("dev_server.addr", "127.0.0.1:5000")
	v.SetDefault("dev_server.admin_email", "admin@example.com")
	v.SetDefault("dev_server.admin_password", "admin")
	v.SetDefault("dev_server.jwt_secret", "dev-secret")
}

// defaultStorePath keeps the session file in the user's config directory,
// or next to the working directory when there is none.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".catalogctl-session.db"
	}
	return filepath.Join(dir, "catalogctl", "session.db")
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Submit.BatchConcurrency < 1 {
		return fmt.Errorf("submit.batch_concurrency must be at least 1, got %d", c.Submit.BatchConcurrency)
	}
	if c.Picker.MaxSelection < 1 {
		return fmt.Errorf("picker.max_selection must be at least 1, got %d", c.Picker.MaxSelection)
	}
	return nil
}

// Save writes the config to a YAML file
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultFile
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("version", c.Version)
	v.Set("api.base_url", c.API.BaseURL)
	v.Set("api.timeout", c.API.Timeout.String())
	v.Set("session.store_path", c.Session.StorePath)
	v.Set("logger.mode", c.Logger.Mode)
	v.Set("logger.level", c.Logger.Level)
	v.Set("logger.file_enable", c.Logger.FileEnable)
	v.Set("logger.filename", c.Logger.Filename)
	v.Set("submit.batch_concurrency", c.Submit.BatchConcurrency)
	v.Set("picker.max_selection", c.Picker.MaxSelection)
	v.Set("dev_server.addr", c.DevServer.Addr)
	v.Set("dev_server.admin_email", c.DevServer.AdminEmail)
	v.Set("dev_server.admin_password", c.DevServer.AdminPassword)
	v.Set("dev_server.jwt_secret", c.DevServer.JWTSecret)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
