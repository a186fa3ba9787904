package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/cardscan/internal/config"
	"github.com/ironsheep/cardscan/internal/logging"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"yaml", OutputFormatYAML, false},
		{"json", OutputFormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputTo(t *testing.T) {
	data := map[string]interface{}{"name": "リオネル・メッシ", "team": nil}

	var js bytes.Buffer
	if err := OutputTo(&js, OutputFormatJSON, data); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(js.String(), "\n  \"name\"") {
		t.Errorf("json output not indented: %q", js.String())
	}

	var y bytes.Buffer
	if err := OutputTo(&y, OutputFormatYAML, data); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var decoded map[string]interface{}
	if err := yaml.Unmarshal(y.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if decoded["name"] != "リオネル・メッシ" || decoded["team"] != nil {
		t.Errorf("yaml decoded = %v", decoded)
	}

	if err := OutputTo(&y, OutputFormat("xml"), data); err == nil {
		t.Error("expected error for unknown format")
	}
}

// execute runs the root command with args against an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		cfgFile, outputFormat, logLevel = "", "yaml", ""
		current = app{}
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "cardscan "+Version) {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "-o", "json")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	var cfg struct {
		Stats struct {
			Region struct {
				Threshold int `json:"threshold"`
			} `json:"region"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("config output is not JSON: %v\n%s", err, out)
	}
	if cfg.Stats.Region.Threshold != 110 {
		t.Errorf("stats threshold = %d, want 110", cfg.Stats.Region.Threshold)
	}
}

func TestRootCommand_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"output format", []string{"config", "-o", "xml"}},
		{"log level", []string{"config", "--log-level", "loud"}},
		{"missing config file", []string{"config", "--config", "/nonexistent/cardscan.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestProbeCommand_Args(t *testing.T) {
	if _, err := execute(t, "probe", "/nonexistent.png", "1"); err == nil {
		t.Error("expected error")
	}
}

func TestReloadOnSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardscan.yaml")
	writeConfig := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	writeConfig("stats:\n  region:\n    threshold: 100\n")

	configs, err := config.NewManager(path, logging.Discard())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	applied := make(chan int, 1)
	configs.OnChange(func(cfg *config.Config) {
		applied <- cfg.Stats.Region.Threshold
	})

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reloadOnSignal(ctx, sig, configs, logging.Discard())
	}()

	writeConfig("stats:\n  region:\n    threshold: 120\n")
	sig <- os.Interrupt
	select {
	case got := <-applied:
		if got != 120 {
			t.Errorf("threshold after reload = %d, want 120", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("signal did not reload the config")
	}

	writeConfig("stats: [\n")
	sig <- os.Interrupt
	// The loop only takes the second signal once the first reload returned.
	sig <- os.Interrupt
	if got := configs.Get().Stats.Region.Threshold; got != 120 {
		t.Errorf("rejected reload replaced the config: threshold %d", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloadOnSignal did not stop on cancel")
	}
}
