package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`

	// Session policy.
	AdminGrace         time.Duration `mapstructure:"admin_grace" yaml:"admin_grace"`
	ParticipantGrace   time.Duration `mapstructure:"participant_grace" yaml:"participant_grace"`
	BroadcastInterval  time.Duration `mapstructure:"broadcast_interval" yaml:"broadcast_interval"`
	RequireApproval    bool          `mapstructure:"require_approval" yaml:"require_approval"`
	RateLimitPerMinute int           `mapstructure:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":3000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxMessageBytes:   16 << 10,
		AllowedOrigins: []string{
			"https://geo-mic.vercel.app",
			"http://localhost:5173",
		},
		LogLevel:           "info",
		LogFormat:          "console",
		AdminGrace:         10 * time.Second,
		ParticipantGrace:   10 * time.Second,
		BroadcastInterval:  2 * time.Second,
		RateLimitPerMinute: 600,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.AdminGrace != 0 {
		c.AdminGrace = other.AdminGrace
	}
	if other.ParticipantGrace != 0 {
		c.ParticipantGrace = other.ParticipantGrace
	}
	if other.BroadcastInterval != 0 {
		c.BroadcastInterval = other.BroadcastInterval
	}
	if other.RequireApproval {
		c.RequireApproval = true
	}
	if other.RateLimitPerMinute != 0 {
		c.RateLimitPerMinute = other.RateLimitPerMinute
	}
}
