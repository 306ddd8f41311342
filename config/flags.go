package config

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// CliConfig holds the flags that are not configuration keys.
type CliConfig struct {
	ConfigFile string
	Help       bool
}

// NewFlagSet declares the command line. Flag names match configuration keys
// so they can be bound with viper.BindPFlags.
func NewFlagSet(name string) (*pflag.FlagSet, *CliConfig) {
	cli := &CliConfig{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to a YAML config file")
	fs.BoolVarP(&cli.Help, "help", "h", false, "Print usage summary and exit")

	fs.BoolP("debug", "d", false, "Debugging mode: one worker, debug logging")
	fs.StringP("log_file", "l", "", "Log all requests to the given file")
	fs.IntP("port", "p", 8080, "Port to listen on")
	fs.StringP("root", "r", "", "Root directory of the server")
	fs.IntP("queue_time", "t", 60, "Seconds to queue requests before the scheduler starts")
	fs.IntP("threads", "n", 4, "Number of worker threads")
	fs.StringP("sched", "s", "FCFS", "Scheduling policy: FCFS or SJF")
	return fs, cli
}

// ParseArgs parses args (without the program name).
func ParseArgs(name string, args []string) (*pflag.FlagSet, *CliConfig, error) {
	fs, cli := NewFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return fs, cli, nil
}

// Usage writes the usage summary.
func Usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage Summary: %s [-d] [-h] [-l file] [-p port] [-r rootdir] [-t secs] [-n threads] [-s FCFS|SJF]\n", fs.Name())
	fmt.Fprint(w, fs.FlagUsages())
}
