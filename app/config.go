package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`
	TLSCertFile    string   `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile     string   `mapstructure:"TLS_KEY_FILE"`

	DBHost     string `mapstructure:"POSTGRES_HOST"`
	DBPort     string `mapstructure:"POSTGRES_PORT"`
	DBUser     string `mapstructure:"POSTGRES_USER"`
	DBPassword string `mapstructure:"POSTGRES_PASSWORD"`
	DBName     string `mapstructure:"POSTGRES_DB"`

	SecretAccessKey    string `mapstructure:"SECRET_ACCESS_KEY"`
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	LinkGoogleAccounts bool   `mapstructure:"GOOGLE_AUTH_LINK_PASSWORD_ACCOUNTS"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`

	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
}

var configDefaults = map[string]any{
	"PORT":                               ":3000",
	"ENVIRONMENT":                        "development",
	"VERSION":                            "1.0.0",
	"TRUSTED_ORIGINS":                    "*",
	"TLS_CERT_FILE":                      "",
	"TLS_KEY_FILE":                       "",
	"POSTGRES_HOST":                      "",
	"POSTGRES_PORT":                      "5432",
	"POSTGRES_USER":                      "",
	"POSTGRES_PASSWORD":                  "",
	"POSTGRES_DB":                        "",
	"SECRET_ACCESS_KEY":                  "",
	"GOOGLE_CLIENT_ID":                   "",
	"GOOGLE_AUTH_LINK_PASSWORD_ACCOUNTS": true,
	"REDIS_ADDR":                         "",
	"REDIS_PASSWORD":                     "",
	"CACHE_TTL":                          "1m",
	"RABBITMQ_HOST":                      "",
	"RABBITMQ_PORT":                      "5672",
	"RABBITMQ_USER":                      "",
	"RABBITMQ_PASSWORD":                  "",
	"MAIL_HOST":                          "",
	"MAIL_PORT":                          587,
	"MAIL_USER":                          "",
	"MAIL_PASSWORD":                      "",
	"MAIL_SENDER":                        "",
}

// loadConfig reads the dotenv file at path and lets the process environment override it.
// A missing file is fine as long as the environment carries the required keys.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	for key, value := range configDefaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	origins := config.TrustedOrigins[:0]
	for _, o := range config.TrustedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	config.TrustedOrigins = origins

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"POSTGRES_HOST", c.DBHost},
		{"POSTGRES_PORT", c.DBPort},
		{"POSTGRES_USER", c.DBUser},
		{"POSTGRES_PASSWORD", c.DBPassword},
		{"POSTGRES_DB", c.DBName},
		{"SECRET_ACCESS_KEY", c.SecretAccessKey},
		{"GOOGLE_CLIENT_ID", c.GoogleClientID},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

func (c *Config) mailEnabled() bool {
	return c.MailHost != "" && c.MailSender != ""
}

func (c *Config) brokerEnabled() bool {
	return c.MQHost != ""
}

func (c *Config) rabbitURI() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.MQUser, c.MQPassword, c.MQHost, c.MQPort)
}
