package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host settings don't leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORE_DRIVER", "DB_PATH", "DATABASE_URL",
		"INFERENCE_PROVIDER", "OLLAMA_API_URL", "OLLAMA_MODEL", "INFERENCE_TIMEOUT",
		"DOC_FILE", "INDEX_FILE",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "Model",
		"ARK_BASE_URL", "ARK_REGION", "ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr: got %q", cfg.Server.Addr)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.Path != "chat.db" {
		t.Errorf("store: got %+v", cfg.Store)
	}
	if cfg.Inference.Provider != ProviderOllama {
		t.Errorf("provider: got %q", cfg.Inference.Provider)
	}
	if cfg.Inference.URL != "http://localhost:11434/api/chat" {
		t.Errorf("url: got %q", cfg.Inference.URL)
	}
	if cfg.Inference.Model != "llama3" {
		t.Errorf("model: got %q", cfg.Inference.Model)
	}
	if cfg.Inference.Timeout != DefaultInferenceTimeout {
		t.Errorf("timeout: got %s", cfg.Inference.Timeout)
	}
	if cfg.Content.DocFile != "hyperrcompute_docs.txt" || cfg.Content.IndexFile != "index.html" {
		t.Errorf("content: got %+v", cfg.Content)
	}
}

func TestLoadServerAddr(t *testing.T) {
	cases := map[string]string{
		"9000":           ":9000",
		":9001":          ":9001",
		"127.0.0.1:9002": "127.0.0.1:9002",
	}
	for raw, want := range cases {
		clearEnv(t)
		t.Setenv("PORT", raw)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("PORT=%q: %v", raw, err)
		}
		if cfg.Server.Addr != want {
			t.Errorf("PORT=%q: got %q want %q", raw, cfg.Server.Addr, want)
		}
	}
}

func TestLoadInvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "80 80")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid PORT error")
	}
}

func TestLoadInferenceTimeout(t *testing.T) {
	cases := map[string]time.Duration{
		"15":    15 * time.Second,
		"1m30s": 90 * time.Second,
		"250ms": 250 * time.Millisecond,
	}
	for raw, want := range cases {
		clearEnv(t)
		t.Setenv("INFERENCE_TIMEOUT", raw)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("INFERENCE_TIMEOUT=%q: %v", raw, err)
		}
		if cfg.Inference.Timeout != want {
			t.Errorf("INFERENCE_TIMEOUT=%q: got %s want %s", raw, cfg.Inference.Timeout, want)
		}
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	for _, raw := range []string{"soon", "0", "-5s"} {
		clearEnv(t)
		t.Setenv("INFERENCE_TIMEOUT", raw)
		_, err := Load()
		if err == nil {
			t.Fatalf("INFERENCE_TIMEOUT=%q: expected error", raw)
		}
		if !strings.Contains(err.Error(), "INFERENCE_TIMEOUT") {
			t.Fatalf("unexpected err: %v", err)
		}
	}
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	if err == nil {
		t.Fatal("expected DATABASE_URL error")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("unexpected err: %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/chat")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Fatalf("driver: got %q", cfg.Store.Driver)
	}
}

func TestLoadRejectsUnknownDriverAndProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected STORE_DRIVER error")
	}

	clearEnv(t)
	t.Setenv("INFERENCE_PROVIDER", "openai")
	if _, err := Load(); err == nil {
		t.Fatal("expected INFERENCE_PROVIDER error")
	}
}

func TestLoadArkProviderRequiresCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("INFERENCE_PROVIDER", "ark")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing Ark credentials error")
	}

	t.Setenv("Model", "doubao-pro")
	t.Setenv("ARK_API_KEY", "key")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("expected Ark config enabled")
	}
}

func TestAIConfigEnabled(t *testing.T) {
	cases := []struct {
		cfg  AIConfig
		want bool
	}{
		{AIConfig{}, false},
		{AIConfig{Model: "m"}, false},
		{AIConfig{Model: "m", APIKey: "k"}, true},
		{AIConfig{Model: "m", AccessKey: "ak"}, false},
		{AIConfig{Model: "m", AccessKey: "ak", SecretKey: "sk"}, true},
	}
	for i, tc := range cases {
		if got := tc.cfg.Enabled(); got != tc.want {
			t.Errorf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}
