package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level flag variables.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupHome points the config and data directories at a temp dir and
// returns a database path inside it.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(debugEnv, "")
	return filepath.Join(home, "test.db")
}

// run executes pomo with args against db, feeding input to prompts.
func run(t *testing.T, db, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetIn(strings.NewReader(input))
	defer rootCmd.SetIn(nil)

	stdout, _, err := executeCmd(rootCmd, append([]string{"--db", db}, args...)...)
	if cerr := cleanupServices(); cerr != nil && err == nil {
		err = cerr
	}
	return stdout, err
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, db string, args ...string) string {
	t.Helper()
	out, err := run(t, db, "", args...)
	if err != nil {
		t.Fatalf("pomo %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestRootCmd_Use(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}
	if rootCmd.Use != "pomo" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "pomo")
	}
}

func TestRootCmd_Help(t *testing.T) {
	resetFlags(rootCmd)
	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	if !strings.Contains(stdout, "pomo") {
		t.Error("help output should contain 'pomo'")
	}
	for _, name := range []string{"start", "task", "metrics", "settings"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("help output should list %q", name)
		}
	}
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "json", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{
		"start", "pause", "toggle", "reset", "skip", "mode", "status", "sessions",
		"task", "settings", "metrics", "export", "theme", "sound", "autostart",
		"notify", "ambient", "mcp", "wipe",
	}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("subcommand %q is not registered", name)
		}
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"12", 11, false},
		{"0", -1, true},
		{"-3", -1, true},
		{"two", -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePosition(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePosition(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parsePosition(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOnOff(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"yes", true, false},
		{"true", true, false},
		{"off", false, false},
		{"no", false, false},
		{"false", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOnOff(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOnOff(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseOnOff(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	if got := pluralize(1, "task", "tasks"); got != "task" {
		t.Errorf("pluralize(1) = %q", got)
	}
	if got := pluralize(0, "task", "tasks"); got != "tasks" {
		t.Errorf("pluralize(0) = %q", got)
	}
}
