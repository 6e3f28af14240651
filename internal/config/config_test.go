package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundlescope.yaml")
	data := `
browser:
  headless: true
analysis:
  vendor_patterns: ["/thirdparty/"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Browser.Headless {
		t.Error("headless not parsed")
	}
	if cfg.Browser.LoadTimeout != 60*time.Second {
		t.Errorf("LoadTimeout = %v, want default 60s", cfg.Browser.LoadTimeout)
	}
	if cfg.HTTP.Addr != ":8087" {
		t.Errorf("Addr = %q, want default :8087", cfg.HTTP.Addr)
	}
	if len(cfg.Analysis.VendorPatterns) != 1 || cfg.Analysis.VendorPatterns[0] != "/thirdparty/" {
		t.Errorf("VendorPatterns = %v", cfg.Analysis.VendorPatterns)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Browser.Headless {
		t.Error("default config should be headless")
	}
	if cfg.Observability.BufferSize != 256 {
		t.Errorf("BufferSize = %d", cfg.Observability.BufferSize)
	}
}
