/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "time"

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose      bool               `mapstructure:"verbose"`
	Config       string             `mapstructure:"config"`
	Project      ProjectConfig      `mapstructure:"project" validate:"required"`
	Data         DataConfig         `mapstructure:"data" validate:"required"`
	Todoist      TodoistConfig      `mapstructure:"todoist" validate:"required"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Schedule     ScheduleConfig     `mapstructure:"schedule"`
	Server       ServerConfig       `mapstructure:"server"`
	Telemetry    TelemetryConfig    `mapstructure:"telemetry"`
}

// ProjectConfig holds project-related settings
type ProjectConfig struct {
	RootDir     string `mapstructure:"rootDir" validate:"required"`
	CrashLogDir string `mapstructure:"crashLogDir" validate:"required"`
}

// DataConfig holds data storage configuration
type DataConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=file sqlite memory"`
	// Dir holds <key>.json for the file backend and the database for sqlite
	Dir string `mapstructure:"dir" validate:"required"`
	Key string `mapstructure:"key" validate:"required"`
}

// TodoistConfig holds settings for the remote task service.
type TodoistConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"baseURL" validate:"required,url"`
	// RequestTimeoutSeconds bounds a single HTTP attempt, not the whole retry loop
	RequestTimeoutSeconds int `mapstructure:"requestTimeoutSeconds" validate:"min=1,max=120"`
	// MaxRetries is the total number of attempts for transient failures
	MaxRetries       int `mapstructure:"maxRetries" validate:"min=1,max=10"`
	RetryBaseDelayMs int `mapstructure:"retryBaseDelayMs" validate:"min=0"`
}

// RegistrationConfig holds daily registration policy.
type RegistrationConfig struct {
	// Timezone is an IANA zone name; empty means the process local zone
	Timezone         string `mapstructure:"timezone"`
	InterCallDelayMs int    `mapstructure:"interCallDelayMs" validate:"min=0"`
}

// ScheduleConfig holds background trigger settings.
type ScheduleConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"min=0"`
}

// ServerConfig holds the HTTP trigger settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// AllowedOrigins lists browser origins allowed by CORS
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// TelemetryConfig holds opt-in usage telemetry settings.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	APIKey   string `mapstructure:"apiKey"`
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
}

// Preferences is the per-run view of user preferences.
type Preferences struct {
	Timezone   string
	Credential string
}

// RequestTimeout returns the per-attempt HTTP timeout.
func (c TodoistConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RetryBaseDelay returns the first backoff delay.
func (c TodoistConfig) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

// InterCallDelay returns the pause between successive remote calls in a run.
func (c RegistrationConfig) InterCallDelay() time.Duration {
	return time.Duration(c.InterCallDelayMs) * time.Millisecond
}
