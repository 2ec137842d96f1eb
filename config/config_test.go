package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/memvault/adapter"
	"github.com/poiesic/memvault/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the test into an empty directory so a stray .env is never read.
func chdirTemp(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "memvault", cfg.AppName)
	assert.Equal(t, "0.1.0", cfg.AppVersion)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "./simplemem_data", cfg.DBPath)
	assert.Equal(t, adapter.TypeBadger, cfg.DBType)
	assert.Equal(t, "memories", cfg.TableName)
	assert.Equal(t, ai.ProviderOpenAI, cfg.AIProvider)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_NAME", "recall")
	t.Setenv("PORT", "9100")
	t.Setenv("DEBUG", "true")
	t.Setenv("DB_TYPE", "neo4j")
	t.Setenv("AI_PROVIDER", "mock")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "recall", cfg.AppName)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "neo4j", cfg.DBType)
	assert.Equal(t, ai.ProviderMock, cfg.AIProvider)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadEnvFile(t *testing.T) {
	dir := chdirTemp(t)

	t.Run("default file in working directory", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TABLE_NAME=notes\nPORT=8100\n"), 0o600))
		t.Cleanup(func() { os.Remove(filepath.Join(dir, ".env")) })

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "notes", cfg.TableName)
		assert.Equal(t, 8100, cfg.Port)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := filepath.Join(dir, "custom.env")
		require.NoError(t, os.WriteFile(path, []byte("DB_PATH=/from/file\nMODEL_NAME=llama3\n"), 0o600))
		t.Setenv("DB_PATH", "/from/env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/from/env", cfg.DBPath)
		assert.Equal(t, "llama3", cfg.ModelName)
	})

	t.Run("named file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.env"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{DBPath: "./data", TableName: "memories", Port: 8000, AIProvider: "openai"}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "mock provider", modify: func(c *Config) { c.AIProvider = "MOCK" }},
		{name: "empty path", modify: func(c *Config) { c.DBPath = " " }, wantErr: true},
		{name: "empty table", modify: func(c *Config) { c.TableName = "" }, wantErr: true},
		{name: "table with colon", modify: func(c *Config) { c.TableName = "team:a" }, wantErr: true},
		{name: "table with nul", modify: func(c *Config) { c.TableName = "a\x00b" }, wantErr: true},
		{name: "port zero", modify: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too large", modify: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "negative workers", modify: func(c *Config) { c.Workers = -1 }, wantErr: true},
		{name: "unknown provider", modify: func(c *Config) { c.AIProvider = "bard" }, wantErr: true},
		{name: "negative rate", modify: func(c *Config) { c.RateLimitRPS = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdapterConfig(t *testing.T) {
	cfg := &Config{
		DBType:         "lancedb",
		DBPath:         "/var/lib/memvault",
		TableName:      "notes",
		Workers:        3,
		AIProvider:     "openai",
		AIBaseURL:      "https://api.openai.com",
		APIKey:         "sk-test",
		ModelName:      "gpt-4o-mini",
		Neo4jURI:       "bolt://graph:7687",
		Neo4jUser:      "neo4j",
		Neo4jPassword:  "secret",
		EmbeddingModel: "",
	}

	got := cfg.Adapter()
	assert.Equal(t, "lancedb", got.DBType)
	assert.Equal(t, "/var/lib/memvault", got.DBPath)
	assert.Equal(t, "notes", got.TableName)
	assert.Equal(t, 3, got.Workers)
	assert.Equal(t, "bolt://graph:7687", got.Neo4jURI)
	assert.Equal(t, "neo4j", got.Neo4jUser)
	assert.Equal(t, "secret", got.Neo4jPassword)

	require.NotNil(t, got.AI)
	assert.Equal(t, "https://api.openai.com", got.AI.ChatHost)
	assert.Equal(t, "sk-test", got.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", got.AI.ChatModel)
	assert.Equal(t, ai.DefaultConfig().EmbeddingModel, got.AI.EmbeddingModel)
	require.NoError(t, got.AI.Validate())
	assert.Equal(t, "https://api.openai.com/v1", got.AI.ChatHost)
}
