package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.TokenValidityWindow != 7*24*time.Hour {
		t.Errorf("expected 7 day window, got %v", cfg.TokenValidityWindow)
	}
	if cfg.TokenSweepInterval != time.Hour {
		t.Errorf("expected 1h sweep interval, got %v", cfg.TokenSweepInterval)
	}
	if cfg.TokenLength != 32 {
		t.Errorf("expected token length 32, got %d", cfg.TokenLength)
	}
	if cfg.EndpointAddr == "" || cfg.DatabaseDSN == "" {
		t.Error("endpoint and DSN defaults must not be empty")
	}
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"hoaxify", "-a", ":8080", "-w", "24", "-i", "30", "-l", "48"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.EndpointAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.EndpointAddr)
	}
	if cfg.TokenValidityWindow != 24*time.Hour {
		t.Errorf("expected 24h window, got %v", cfg.TokenValidityWindow)
	}
	if cfg.TokenSweepInterval != 30*time.Minute {
		t.Errorf("expected 30m interval, got %v", cfg.TokenSweepInterval)
	}
	if cfg.TokenLength != 48 {
		t.Errorf("expected length 48, got %d", cfg.TokenLength)
	}
}

func TestParseFlags_IgnoresForeignFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"hoaxify", "-test.v", "-a", ":8080"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	if cfg.EndpointAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.EndpointAddr)
	}
}

func TestParseJson(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "conf*.json")
	if err != nil {
		t.Fatal(err)
	}
	content := `{
		"endpoint_addr": ":9090",
		"token_validity_window": "48h",
		"token_sweep_interval": "15m",
		"smtp_host": "mail.example.com",
		"smtp_port": 587
	}`
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"hoaxify", "-c", f.Name()}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	if cfg.EndpointAddr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.EndpointAddr)
	}
	if cfg.TokenValidityWindow != 48*time.Hour {
		t.Errorf("expected 48h, got %v", cfg.TokenValidityWindow)
	}
	if cfg.TokenSweepInterval != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.TokenSweepInterval)
	}
	if cfg.SMTPHost != "mail.example.com" || cfg.SMTPPort != 587 {
		t.Errorf("smtp overlay not applied: %s:%d", cfg.SMTPHost, cfg.SMTPPort)
	}
	// untouched fields keep their defaults
	if cfg.TokenLength != 32 {
		t.Errorf("expected default token length, got %d", cfg.TokenLength)
	}
}
