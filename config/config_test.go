package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"myhttpd/queue"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil, "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 8080 || cfg.Threads != 4 || cfg.QueueTime != 60 {
		t.Errorf("defaults = port %d threads %d queue_time %d", cfg.Port, cfg.Threads, cfg.QueueTime)
	}
	if cfg.Policy() != queue.FCFS {
		t.Errorf("policy = %v, want FCFS", cfg.Policy())
	}
	if cfg.SchedulerDelay() != 60*time.Second || cfg.WorkerStartDelay() != 5*time.Second {
		t.Errorf("delays = %v / %v", cfg.SchedulerDelay(), cfg.WorkerStartDelay())
	}
	if cfg.LogFile != "" || cfg.Root != "" {
		t.Errorf("optional keys should be empty: log %q root %q", cfg.LogFile, cfg.Root)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	fs, cli, err := ParseArgs("myhttpd", []string{"-p", "9090", "-s", "sjf", "-n", "8", "-t", "0", "-l", "access.log", "-r", "/srv/www"})
	if err != nil {
		t.Fatal(err)
	}
	if cli.Help {
		t.Error("help should not be set")
	}

	cfg, err := LoadConfig(fs, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 || cfg.Threads != 8 || cfg.QueueTime != 0 {
		t.Errorf("got port %d threads %d queue_time %d", cfg.Port, cfg.Threads, cfg.QueueTime)
	}
	if cfg.Policy() != queue.SJF {
		t.Errorf("policy = %v, want SJF", cfg.Policy())
	}
	if cfg.LogFile != "access.log" || cfg.Root != "/srv/www" {
		t.Errorf("log %q root %q", cfg.LogFile, cfg.Root)
	}
}

func TestDebugForcesOneWorker(t *testing.T) {
	fs, _, err := ParseArgs("myhttpd", []string{"-d", "-n", "10"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(fs, "")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || cfg.Threads != 1 {
		t.Errorf("debug %v threads %d, want true 1", cfg.Debug, cfg.Threads)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "myhttpd.yaml")
	content := "port: 7070\nsched: SJF\nthreads: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MYHTTPD_THREADS", "6")

	fs, _, err := ParseArgs("myhttpd", []string{"-p", "6060"})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(fs, path)
	if err != nil {
		t.Fatal(err)
	}
	// flag > env > file
	if cfg.Port != 6060 {
		t.Errorf("port = %d, want 6060 from flag", cfg.Port)
	}
	if cfg.Threads != 6 {
		t.Errorf("threads = %d, want 6 from env", cfg.Threads)
	}
	if cfg.Policy() != queue.SJF {
		t.Errorf("policy = %v, want SJF from file", cfg.Policy())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(nil, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestConfigValidation(t *testing.T) {
	valid := Config{Port: 8080, Threads: 4, Sched: "FCFS", QueueTime: 60}

	testCases := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"ephemeral port", func(c *Config) { c.Port = 0 }, false},
		{"port too large", func(c *Config) { c.Port = 99999 }, true},
		{"no workers", func(c *Config) { c.Threads = 0 }, true},
		{"unknown policy", func(c *Config) { c.Sched = "round-robin" }, true},
		{"negative delay", func(c *Config) { c.QueueTime = -1 }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := valid
			tc.mutate(&c)
			err := c.Validate()
			if tc.expectErr && err == nil {
				t.Error("expected an error")
			}
			if !tc.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAddress(t *testing.T) {
	c := &Config{Port: 9000}
	if c.Address() != ":9000" {
		t.Errorf("Address = %q", c.Address())
	}
}
