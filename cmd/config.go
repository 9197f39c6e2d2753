/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/streakwing/internal/logger"
	"github.com/josephgoksu/streakwing/types"
	"github.com/spf13/viper"
)

const (
	configName = ".streakwing"
	envPrefix  = "STREAKWING"
	// legacyTokenEnv is honoured when no token is configured.
	legacyTokenEnv = "TODOIST_TOKEN"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("project.rootDir", ".streakwing")
	viper.SetDefault("project.crashLogDir", logger.CrashLogDir)

	viper.SetDefault("data.backend", "file")
	viper.SetDefault("data.dir", "")
	viper.SetDefault("data.key", "streaks")

	viper.SetDefault("todoist.token", "")
	viper.SetDefault("todoist.baseURL", "https://api.todoist.com/api/v1")
	viper.SetDefault("todoist.requestTimeoutSeconds", 15)
	viper.SetDefault("todoist.maxRetries", 3)
	viper.SetDefault("todoist.retryBaseDelayMs", 1000)

	viper.SetDefault("registration.timezone", "")
	viper.SetDefault("registration.interCallDelayMs", 2000)

	viper.SetDefault("schedule.interval", "1h")

	viper.SetDefault("server.addr", "127.0.0.1:8787")
	viper.SetDefault("server.allowedOrigins", []string{})

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.apiKey", "")
	viper.SetDefault("telemetry.endpoint", "")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}
}

func loadConfig() error {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		projectDir := viper.GetString("project.rootDir")
		if _, err := os.Stat(projectDir); err == nil {
			viper.AddConfigPath(projectDir)
		}
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config %s: %w", viper.ConfigFileUsed(), err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file not found: %s", cfgFile)
		}
	}

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = filepath.Join(cfg.Project.RootDir, "data")
	}
	if err := validateAppConfig(&cfg); err != nil {
		return err
	}

	GlobalAppConfig = cfg
	logger.Configure(filepath.Join(cfg.Project.RootDir, cfg.Project.CrashLogDir))
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// resolveToken returns the configured Todoist token, falling back to TODOIST_TOKEN.
func resolveToken() string {
	if token := strings.TrimSpace(viper.GetString("todoist.token")); token != "" {
		return token
	}
	return strings.TrimSpace(os.Getenv(legacyTokenEnv))
}

// livePreferences serves a snapshot of the preferences. Refresh re-reads
// viper and must run on the goroutine that changes the config (the
// OnConfigChange callback), since viper is not safe for concurrent use.
type livePreferences struct {
	mu    sync.RWMutex
	prefs types.Preferences
}

func newLivePreferences() *livePreferences {
	p := &livePreferences{}
	p.Refresh()
	return p
}

func (p *livePreferences) Refresh() {
	next := types.Preferences{
		Timezone:   viper.GetString("registration.timezone"),
		Credential: resolveToken(),
	}
	p.mu.Lock()
	p.prefs = next
	p.mu.Unlock()
}

func (p *livePreferences) Preferences() types.Preferences {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs
}
