package config

// Config holds the server configuration. It is read-only once the pipeline
// is running.
type Config struct {
	Port            int    `mapstructure:"port"`
	Threads         int    `mapstructure:"threads"`
	Sched           string `mapstructure:"sched"`
	QueueTime       int    `mapstructure:"queue_time"`   // seconds before the scheduler starts
	WorkerDelay     int    `mapstructure:"worker_delay"` // seconds between scheduler and workers
	Root            string `mapstructure:"root"`
	LogFile         string `mapstructure:"log_file"`
	Debug           bool   `mapstructure:"debug"`
	HomeRoot        string `mapstructure:"home_root"`
	UserDir         string `mapstructure:"user_dir"`
	MonitorInterval int    `mapstructure:"monitor_interval"` // milliseconds
	OTLPEndpoint    string `mapstructure:"otlp_endpoint"`
}
