package publisher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV_FILE", "OPENAI_API_KEY", "LLM_PROVIDER", "LLM_MODEL", "LLM_BASE_URL", "SERVER_ADDR", "LOG_LEVEL", "TEMPLATES_DIR"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg.LLM)
	assert.Equal(t, DefaultProvider, cfg.LLM.Provider)
	assert.Equal(t, DefaultModel, cfg.LLM.Model)
	assert.Equal(t, DefaultServerAddr, cfg.ServerAddr)
	assert.Equal(t, DefaultTemplates, cfg.TemplatesDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Images.Assembler().AdultFilterOff)
}

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: deepseek
  model: deepseek-chat
  base_url: https://api.deepseek.com/v1
  api_key: from-file
  timeout: 90s
images:
  timeout: 5s
  max_pages: 3
  search_attempts: 5
  retry_interval: 100ms
  deck_filter: wide
  safe_search: true
  blocklist: [example.com]
server_addr: ":9000"
log:
  level: debug
`), 0o644))
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("TEMPLATES_DIR", "/srv/templates")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, ":9000", cfg.ServerAddr)
	assert.Equal(t, "/srv/templates", cfg.TemplatesDir)
	assert.Equal(t, "debug", cfg.Log.Level)

	s := cfg.LLM.Settings()
	assert.Equal(t, "https://api.deepseek.com/v1", s.BaseURL)
	assert.Equal(t, "deepseek-chat", s.Model)

	rc := cfg.Images.Resolver()
	assert.Equal(t, 3, rc.MaxPages)
	assert.Equal(t, []string{"example.com"}, rc.Blocklist)
	assert.Equal(t, 5, rc.SearchAttempts)
	assert.Equal(t, 100*time.Millisecond, rc.RetryInterval)

	ac := cfg.Images.Assembler()
	assert.Equal(t, "wide", ac.DeckFilter)
	assert.Equal(t, 5*time.Second, ac.FetchTimeout)
	assert.False(t, ac.AdultFilterOff)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
