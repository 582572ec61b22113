package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rawconv.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	root := t.TempDir()
	cfgPath := writeConfigFile(t, "depth = 2\njpeg_quality = 60\n")

	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"--config", cfgPath, "--quality", "88", "--raw-ext", "NEF"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	var flags flagValues
	flags.configPath = cfgPath
	flags.quality = 88
	flags.rawExt = "NEF"

	cfg, err := resolveConfig(cmd, &flags, []string{root})
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Root != filepath.Clean(root) {
		t.Errorf("Root = %q, want %q", cfg.Root, root)
	}
	if cfg.Depth != 2 {
		t.Errorf("Depth = %d, want 2 from file", cfg.Depth)
	}
	if cfg.JPEGQuality != 88 {
		t.Errorf("JPEGQuality = %d, want 88 from flag", cfg.JPEGQuality)
	}
	if cfg.RawExt != ".nef" {
		t.Errorf("RawExt = %q, want .nef", cfg.RawExt)
	}
}

func TestRoot_RequiresRoot(t *testing.T) {
	_, err := execute(t, "--config", writeConfigFile(t, ""))
	if err == nil || !strings.Contains(err.Error(), "root directory is required") {
		t.Errorf("err = %v, want missing root error", err)
	}
}

func TestRoot_MissingDcraw(t *testing.T) {
	root := t.TempDir()
	_, err := execute(t, "--config", writeConfigFile(t, ""), "--dcraw", "no-such-dcraw-binary-xyz", root)
	if err == nil || !strings.Contains(err.Error(), "dcraw not found") {
		t.Errorf("err = %v, want dcraw preflight error", err)
	}
}

func TestRoot_TooManyArgs(t *testing.T) {
	if _, err := execute(t, "a", "b"); err == nil {
		t.Error("expected error for two positional args")
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--config", writeConfigFile(t, "depth = 3\n"))
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	if !strings.Contains(out, "depth = 3") {
		t.Errorf("output missing depth:\n%s", out)
	}
	if !strings.Contains(out, "raw_ext = '.dng'") {
		t.Errorf("output missing default raw_ext:\n%s", out)
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.Contains(out, "rawconv dev") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestConfigCommand_AppliesFlagOverrides(t *testing.T) {
	cfgPath := writeConfigFile(t, "[logging]\nlevel = 'warn'\n")

	out, err := execute(t, "config", "--config", cfgPath, "--log-level", "debug", "--log-format", "json", "--color", "never")
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}
	for _, want := range []string{"level = 'debug'", "format = 'json'", "color = 'never'"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "level = 'warn'") {
		t.Errorf("file value not overridden by flag:\n%s", out)
	}
}
