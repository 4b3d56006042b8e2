package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minikv/minikv-go/internal/server/config"
)

func TestLoader_Defaults(t *testing.T) {
	cfg := config.Default()
	if err := NewLoader().Load(cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, config.DefaultAddr)
	}
	if cfg.Store.InitialBuckets != config.DefaultInitialBuckets {
		t.Errorf("Store.InitialBuckets = %d, want %d", cfg.Store.InitialBuckets, config.DefaultInitialBuckets)
	}
}

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minikv.yaml")
	content := []byte("server:\n  addr: \"0.0.0.0:7000\"\nstore:\n  initial_buckets: 128\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := config.Default()
	loader := NewLoader(WithConfigFile(path))
	if err := loader.Load(cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:7000" {
		t.Errorf("Server.Addr = %q, want 0.0.0.0:7000", cfg.Server.Addr)
	}
	if cfg.Store.InitialBuckets != 128 {
		t.Errorf("Store.InitialBuckets = %d, want 128", cfg.Store.InitialBuckets)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.ReadTimeout != config.DefaultReadTimeout {
		t.Errorf("Server.ReadTimeout = %v, want default", cfg.Server.ReadTimeout)
	}
}

func TestLoader_FileMissing(t *testing.T) {
	cfg := config.Default()
	loader := NewLoader(WithConfigFile("/nonexistent/minikv.yaml"))
	if err := loader.Load(cfg); err == nil {
		t.Fatal("Load with missing file succeeded, want error")
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minikv.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \"127.0.0.1:7000\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MINIKV_SERVER_ADDR", "127.0.0.1:7001")

	cfg := config.Default()
	loader := NewLoader(WithConfigFile(path))
	if err := loader.Load(cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7001" {
		t.Errorf("Server.Addr = %q, want env override 127.0.0.1:7001", cfg.Server.Addr)
	}
}

func TestLoader_LoadMap(t *testing.T) {
	loader := NewLoader()
	if err := loader.LoadMap(map[string]any{"log.level": "warn"}); err != nil {
		t.Fatalf("LoadMap: %v", err)
	}
	if got := loader.Get("log.level"); got != "warn" {
		t.Errorf("Get(log.level) = %v, want warn", got)
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minikv.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 4)
	w.OnChange(func(p string) { changed <- p })

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.StartAsync()

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "minikv.yaml" {
			t.Errorf("changed path = %q, want minikv.yaml", p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within 5s")
	}
}
