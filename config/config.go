// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads service settings from defaults, an optional dotenv
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/memvault/adapter"
	"github.com/poiesic/memvault/ai"
	"github.com/spf13/viper"
)

// DefaultEnvFile is read when present and no other file is named.
const DefaultEnvFile = ".env"

type Config struct {
	AppName    string `mapstructure:"app_name"`
	AppVersion string `mapstructure:"app_version"`
	Debug      bool   `mapstructure:"debug"`

	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	DBPath    string `mapstructure:"db_path"`
	DBType    string `mapstructure:"db_type"`
	TableName string `mapstructure:"table_name"`
	Workers   int    `mapstructure:"workers"`

	AIProvider     string `mapstructure:"ai_provider"`
	AIBaseURL      string `mapstructure:"ai_base_url"`
	APIKey         string `mapstructure:"api_key"`
	ModelName      string `mapstructure:"model_name"`
	EmbeddingModel string `mapstructure:"embedding_model"`

	Neo4jURI      string `mapstructure:"neo4j_uri"`
	Neo4jUser     string `mapstructure:"neo4j_user"`
	Neo4jPassword string `mapstructure:"neo4j_password"`

	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `mapstructure:"cors_origins"`
}

func setDefaults(v *viper.Viper) {
	aiDefaults := ai.DefaultConfig()

	v.SetDefault("app_name", "memvault")
	v.SetDefault("app_version", "0.1.0")
	v.SetDefault("debug", false)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("db_path", "./simplemem_data")
	v.SetDefault("db_type", adapter.TypeBadger)
	v.SetDefault("table_name", "memories")
	v.SetDefault("workers", 0)
	v.SetDefault("ai_provider", aiDefaults.Provider)
	v.SetDefault("ai_base_url", aiDefaults.ChatHost)
	v.SetDefault("api_key", "")
	v.SetDefault("model_name", "")
	v.SetDefault("embedding_model", "")
	v.SetDefault("neo4j_uri", "")
	v.SetDefault("neo4j_user", "")
	v.SetDefault("neo4j_password", "")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("cors_origins", []string{"*"})
}

// Load builds a Config. envFile names a dotenv file; when empty, DefaultEnvFile
// is used if it exists. A named file that is missing is an error.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	path := envFile
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if envFile != "" {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: DB_PATH is required")
	}
	if strings.TrimSpace(c.TableName) == "" {
		return errors.New("config: TABLE_NAME is required")
	}
	if strings.ContainsAny(c.TableName, ":\x00") {
		return fmt.Errorf("config: TABLE_NAME %q must not contain ':' or NUL", c.TableName)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: WORKERS must not be negative, got %d", c.Workers)
	}
	switch strings.ToLower(c.AIProvider) {
	case ai.ProviderOpenAI, ai.ProviderMock:
	default:
		return fmt.Errorf("config: AI_PROVIDER %q must be %s or %s", c.AIProvider, ai.ProviderOpenAI, ai.ProviderMock)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: RATE_LIMIT_RPS must not be negative, got %v", c.RateLimitRPS)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AI translates the provider settings. Empty model names keep the provider
// defaults.
func (c *Config) AI() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithProvider(c.AIProvider),
		ai.WithAPIKey(c.APIKey),
	}
	if c.AIBaseURL != "" {
		opts = append(opts, ai.WithHost(c.AIBaseURL))
	}
	if c.ModelName != "" {
		opts = append(opts, ai.WithChatModel(c.ModelName))
	}
	if c.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(c.EmbeddingModel))
	}
	return ai.NewConfig(opts...)
}

// Adapter translates the storage settings for adapter.New.
func (c *Config) Adapter() adapter.Config {
	return adapter.Config{
		DBType:        c.DBType,
		DBPath:        c.DBPath,
		TableName:     c.TableName,
		AI:            c.AI(),
		Workers:       c.Workers,
		Neo4jURI:      c.Neo4jURI,
		Neo4jUser:     c.Neo4jUser,
		Neo4jPassword: c.Neo4jPassword,
	}
}
