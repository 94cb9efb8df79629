package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandExists(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if rootCmd.Use != "dorkgen" {
		t.Errorf("expected Use to be 'dorkgen', got %q", rootCmd.Use)
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd should not be nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %q", versionCmd.Use)
	}

	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "version" {
			found = true
			break
		}
	}
	if !found {
		t.Error("version subcommand not registered on rootCmd")
	}
}

func TestVersionCommand_Output(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "dorkgen dev") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestConfigFlag_Default(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("config")
	if f == nil {
		t.Fatal("config flag missing")
	}
	if f.DefValue != "dorkgen.yaml" {
		t.Errorf("config default = %q, want %q", f.DefValue, "dorkgen.yaml")
	}
	if f := rootCmd.PersistentFlags().ShorthandLookup("c"); f == nil || f.Name != "config" {
		t.Error("-c should be the shorthand for --config")
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"scan"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for unexpected positional argument")
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dorkgen.yaml")
	if err := os.WriteFile(path, []byte("generation:\n  batch_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"--config", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected validation error for batch_size 0")
	}
}

func TestRootCommand_RunsSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dorkgen.yaml")
	cfg := "storage:\n  db_path: " + filepath.Join(dir, "db", "dorks.db") + "\n" +
		"log:\n  dir: " + filepath.Join(dir, "logs") + "\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	rootCmd.SetArgs([]string{"-c", path})
	rootCmd.SetIn(strings.NewReader("13\n"))
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetIn(nil); rootCmd.SetOut(nil) })

	if err := Execute(); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Thank You for using the Google Dorks Generator") {
		t.Errorf("session did not run to exit, output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "db", "dorks.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "google_dorks.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
