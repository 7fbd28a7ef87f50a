package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	FileEnv, "NAME", "LOG_LEVEL", "LOG_FORMAT",
	"POW_COST", "POW_METER", "POW_HASH", "POW_SOLVE_TIMEOUT",
	"ARGON2_TIME", "ARGON2_MEMORY", "ARGON2_THREADS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "puzzle" {
		t.Errorf("Name = %q, want puzzle", cfg.Name)
	}
	if cfg.Pow.Cost != 20 || cfg.Pow.Meter != 100000000 {
		t.Errorf("Pow = %+v, want cost 20 and meter 100000000", cfg.Pow)
	}
	if cfg.Pow.Hash != HashBlake3 {
		t.Errorf("Hash = %q, want %q", cfg.Pow.Hash, HashBlake3)
	}
	if cfg.Pow.SolveTimeout != time.Minute {
		t.Errorf("SolveTimeout = %v, want 1m", cfg.Pow.SolveTimeout)
	}
	if cfg.Pow.Argon2 != (Argon2{Time: 1, Memory: 8192, Threads: 1}) {
		t.Errorf("Argon2 = %+v", cfg.Pow.Argon2)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("POW_COST", "12")
	t.Setenv("POW_METER", "1000")
	t.Setenv("POW_HASH", "argon2id")
	t.Setenv("POW_SOLVE_TIMEOUT", "5s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pow.Cost != 12 || cfg.Pow.Meter != 1000 || cfg.Pow.Hash != HashArgon2id || cfg.Pow.SolveTimeout != 5*time.Second {
		t.Fatalf("unexpected pow config: %+v", cfg.Pow)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "puzzle.yaml")
	body := "name: issuer\npow:\n  cost: 16\n  meter: 5000\n  argon2:\n    memory: 64\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(FileEnv, path)
	t.Setenv("POW_METER", "7000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "issuer" {
		t.Errorf("Name = %q, want issuer", cfg.Name)
	}
	if cfg.Pow.Cost != 16 {
		t.Errorf("Cost = %d, want 16", cfg.Pow.Cost)
	}
	if cfg.Pow.Meter != 7000 {
		t.Errorf("Meter = %d, want the environment's 7000", cfg.Pow.Meter)
	}
	if cfg.Pow.Argon2.Memory != 64 || cfg.Pow.Argon2.Time != 1 {
		t.Errorf("Argon2 = %+v", cfg.Pow.Argon2)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("POW_HASH", "sha1")
	if _, err := LoadConfig(); !errors.Is(err, ErrUnknownHash) {
		t.Fatalf("expected ErrUnknownHash, got %v", err)
	}

	clearEnv(t)
	t.Setenv("POW_COST", "twenty")
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "failed to load configuration") {
		t.Fatalf("expected load error, got %v", err)
	}

	clearEnv(t)
	t.Setenv(FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestUsage(t *testing.T) {
	usage := Usage()
	for _, key := range []string{"POW_COST", "POW_METER", "POW_HASH", "LOG_LEVEL"} {
		if !strings.Contains(usage, key) {
			t.Errorf("usage does not mention %s", key)
		}
	}
}
