package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "beehiiv-mcp" {
		t.Errorf("Expected Use to be 'beehiiv-mcp', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}

	if rootCmd.RunE == nil {
		t.Error("Expected the root command to serve when run without a subcommand")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "beehiiv-mcp version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	expected := "beehiiv-mcp version 1.0.0\n"
	if output := buf.String(); output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("9.9.9")

	var buf bytes.Buffer
	versionCmd := newVersionCmd()
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	if output := buf.String(); output != "beehiiv-mcp version 9.9.9\n" {
		t.Errorf("Unexpected version output %q", output)
	}
}

func TestSubcommands(t *testing.T) {
	expectedCommands := []string{"version", "serve"}
	foundCommands := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "debug", "log-level", "transport", "addr"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestServeFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("BEEHIIV_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  transport: stdio\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"serve", "--config", configPath})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		serveConfigPath = ""
	})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Expected serve to fail without an API key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("Expected the error to mention the API key, got %v", err)
	}
}
