package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToolsCommandReportsAvailability(t *testing.T) {
	stubDir := t.TempDir()
	stub := filepath.Join(stubDir, "chdman")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", stubDir)

	configPath, _ := setupCLIConfig(t)
	out, _, err := runCLI(t, configPath, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	requireContains(t, out, "chdman:")
	requireContains(t, out, "[OK] "+stub)
	requireContains(t, out, "maxcso:")
	requireContains(t, out, `[WARN] binary "maxcso" not found`)
}
