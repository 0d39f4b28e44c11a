package config

import "testing"

type testEnv struct {
	Addr  string `env:"TEST_ADDR"`
	Count int    `env:"TEST_COUNT"`
}

func TestParseEnv(t *testing.T) {
	t.Setenv("TEST_ADDR", "localhost:9000")
	t.Setenv("TEST_COUNT", "3")

	var cfg testEnv
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("ParseEnv() error = %v", err)
	}
	if cfg.Addr != "localhost:9000" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "localhost:9000")
	}
	if cfg.Count != 3 {
		t.Fatalf("Count = %d, want 3", cfg.Count)
	}
}

func TestParseEnvInvalidValue(t *testing.T) {
	t.Setenv("TEST_COUNT", "not-a-number")

	var cfg testEnv
	if err := ParseEnv(&cfg); err == nil {
		t.Fatal("ParseEnv() error = nil, want parse failure")
	}
}

func TestParseEnvPrefixed(t *testing.T) {
	t.Setenv("WAZAP_TEST_ADDR", "localhost:9001")

	var cfg testEnv
	if err := ParseEnvPrefixed("WAZAP_", &cfg); err != nil {
		t.Fatalf("ParseEnvPrefixed() error = %v", err)
	}
	if cfg.Addr != "localhost:9001" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "localhost:9001")
	}
}
