package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"

	"in3go/internal/testutil"
)

func TestLoadDefaultFromRepoRoot(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(".."); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(".."); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Client.DefaultChain != "mainnet" {
		t.Fatalf("expected default_chain mainnet, got %s", cfg.Client.DefaultChain)
	}
	if cfg.Cache.Capacity != 256 {
		t.Fatalf("expected cache capacity 256, got %d", cfg.Cache.Capacity)
	}
	if cfg.Server.ListenAddr != ":8545" {
		t.Fatalf("expected listen addr :8545, got %s", cfg.Server.ListenAddr)
	}
}

func TestLoadSandboxOverridesDefaultChain(t *testing.T) {
	sb, err := testutil.NewSandbox()
	if err != nil {
		t.Fatal(err)
	}
	defer sb.Cleanup()

	if err := os.Mkdir(sb.Path("config"), 0o700); err != nil {
		t.Fatal(err)
	}
	data := []byte("client:\n  default_chain: kovan\ncache:\n  capacity: 64\n")
	if err := sb.WriteFile("config/default.yaml", data, 0o600); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	viper.Reset()

	if err := os.Chdir(sb.Root); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Client.DefaultChain != "kovan" {
		t.Fatalf("expected sandbox override kovan, got %s", cfg.Client.DefaultChain)
	}
	if cfg.Cache.Capacity != 64 {
		t.Fatalf("expected sandbox override capacity 64, got %d", cfg.Cache.Capacity)
	}
}

func TestLoadFromEnvDefaultsWhenUnset(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	viper.Reset()
	os.Unsetenv("IN3GO_ENV")

	if err := os.Chdir(".."); err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(".."); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("expected default logging level info, got %s", cfg.Logging.Level)
	}
}
