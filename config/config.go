package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"myhttpd/queue"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("threads", 4)
	v.SetDefault("sched", "FCFS")
	v.SetDefault("queue_time", 60)
	v.SetDefault("worker_delay", 5)
	v.SetDefault("root", "")
	v.SetDefault("log_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("home_root", "/home")
	v.SetDefault("user_dir", "myhttpd")
	v.SetDefault("monitor_interval", 500)
	v.SetDefault("otlp_endpoint", "")
}

// LoadConfig merges defaults, the optional config file, MYHTTPD_* environment
// variables and the flags that were set on the command line, in increasing
// order of precedence.
func LoadConfig(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("myhttpd")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("error binding flags: %w", err)
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if configuration.Debug {
		configuration.Threads = 1
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", c.Threads)
	}
	if _, err := queue.ParsePolicy(c.Sched); err != nil {
		return err
	}
	if c.QueueTime < 0 || c.WorkerDelay < 0 {
		return errors.New("startup delays must not be negative")
	}
	if c.MonitorInterval < 0 {
		return errors.New("monitor_interval must not be negative")
	}
	return nil
}

// Policy returns the scheduling policy. Validate has already accepted it.
func (c *Config) Policy() queue.Policy {
	p, _ := queue.ParsePolicy(c.Sched)
	return p
}

func (c *Config) SchedulerDelay() time.Duration {
	return time.Duration(c.QueueTime) * time.Second
}

func (c *Config) WorkerStartDelay() time.Duration {
	return time.Duration(c.WorkerDelay) * time.Second
}

func (c *Config) Monitor() time.Duration {
	return time.Duration(c.MonitorInterval) * time.Millisecond
}

// Address is the listen address on all interfaces.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
