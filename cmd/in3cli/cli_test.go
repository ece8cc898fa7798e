package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestChainsCommandRuns(t *testing.T) {
	cmd := newChainsCmd()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
}

func TestConfigureCommandAppliesDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"chainId":"kovan"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newConfigureCmd()
	if err := cmd.RunE(cmd, []string{path}); err != nil {
		t.Fatal(err)
	}
}

func TestConfigureCommandRejectsMissingFile(t *testing.T) {
	cmd := newConfigureCmd()
	if err := cmd.RunE(cmd, []string{"/nonexistent/config.json"}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestServeCommandRegistersFlags(t *testing.T) {
	cmd := newServeCmd()
	if cmd.Flags().Lookup("chain") == nil {
		t.Fatal("expected --chain flag registered")
	}
	if cmd.Flags().Lookup("addr") == nil {
		t.Fatal("expected --addr flag registered")
	}
	if cmd.Flags().Lookup("transport") == nil {
		t.Fatal("expected --transport flag registered")
	}
}

func TestCallCommandRegistersFlags(t *testing.T) {
	cmd := newCallCmd()
	if cmd.Flags().Lookup("timeout-ms") == nil {
		t.Fatal("expected --timeout-ms flag registered")
	}
}
