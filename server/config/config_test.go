package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExampleINI(t *testing.T) {
	path := filepath.Join("..", "..", "config_example.ini")
	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("ServerURL") == "" {
		t.Fatal("expected ServerURL to be present")
	}
	if conf.GetInt("Port") != 3000 {
		t.Fatalf("expected Port=3000, got %d", conf.GetInt("Port"))
	}
	if !conf.GetBool("SearchEnabledLocal") {
		t.Fatal("expected SearchEnabledLocal to default on")
	}
}

func TestDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("ServerURL = http://example.com\n"); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpFile.Close()

	conf, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if conf.GetString("ServerURL") != "http://example.com" {
		t.Errorf("expected explicit value to win, got %s", conf.GetString("ServerURL"))
	}
	if conf.GetString("MusicDirectory") != "./music" {
		t.Errorf("expected MusicDirectory default, got %s", conf.GetString("MusicDirectory"))
	}
	if conf.GetString("LyricsDirectory") != "./lyrics" {
		t.Errorf("expected LyricsDirectory default, got %s", conf.GetString("LyricsDirectory"))
	}
	if conf.GetInt("HTTPTimeoutSec") != 8 {
		t.Errorf("expected HTTPTimeoutSec default, got %d", conf.GetInt("HTTPTimeoutSec"))
	}
	if conf.GetInt("ScanConcurrency") != 4 {
		t.Errorf("expected ScanConcurrency default, got %d", conf.GetInt("ScanConcurrency"))
	}
	if conf.GetFloat64("RateLimitPerSecond") != 0 {
		t.Errorf("expected rate limiting off by default, got %f", conf.GetFloat64("RateLimitPerSecond"))
	}
}

func TestProviderSections(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	configContent := `ServerURL = http://localhost:3000

[providers.qq]
endpoint = https://qq.api
key = secret-key
enabled = true

[providers.migu]
enabled = false
`

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpFile.Close()

	conf, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	qqCfg, ok := conf.GetProviderConfig("qq")
	if !ok {
		t.Fatal("expected qq provider config to exist")
	}
	if qqCfg["endpoint"] != "https://qq.api" {
		t.Errorf("expected endpoint=https://qq.api, got %v", qqCfg["endpoint"])
	}

	if conf.GetProviderString("qq", "key") != "secret-key" {
		t.Errorf("GetProviderString failed")
	}
	if !conf.GetProviderBool("qq", "enabled") {
		t.Errorf("GetProviderBool failed for qq.enabled")
	}
	if conf.GetProviderBool("migu", "enabled") {
		t.Errorf("GetProviderBool should return false for migu.enabled")
	}

	names := conf.ProviderNames()
	if len(names) != 2 || names[0] != "migu" || names[1] != "qq" {
		t.Errorf("expected sorted provider names, got %v", names)
	}
}

func TestProviderConfigNotFound(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "test_config_*.ini")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("ServerURL = http://localhost:3000"); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tmpFile.Close()

	conf, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if _, ok := conf.GetProviderConfig("nonexistent"); ok {
		t.Error("expected nonexistent provider to not be found")
	}
	if conf.GetProviderString("nonexistent", "key") != "" {
		t.Error("expected empty string for nonexistent provider")
	}
	if conf.GetProviderInt("nonexistent", "key") != 0 {
		t.Error("expected 0 for nonexistent provider")
	}
	if conf.GetProviderBool("nonexistent", "key") {
		t.Error("expected false for nonexistent provider")
	}
}
