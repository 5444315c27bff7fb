package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyzerConfig holds the settings for experiment discovery and parsing.
type AnalyzerConfig struct {
	// DumpGlobs are the glob patterns used to locate experiment dump
	// directories, relative to RootDir.
	DumpGlobs   []string `yaml:"dump_globs"`
	RootDir     string   `yaml:"root_dir"`
	NetperfFile string   `yaml:"netperf_file"`
	MonitorGlob string   `yaml:"monitor_glob"`
	CaptureGlob string   `yaml:"capture_glob"`
}

// GobConfig holds the settings for the gob writer.
type GobConfig struct {
	RootPath string `yaml:"root_path"`
}

// ClickHouseConfig holds the connection settings for ClickHouse.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// WriterDef defines a single result writer from the config file.
type WriterDef struct {
	Type       string           `yaml:"type"`
	Enabled    bool             `yaml:"enabled"`
	Gob        GobConfig        `yaml:"gob"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// PublisherConfig holds the settings for the NATS result publisher.
type PublisherConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// APIConfig holds the settings for the HTTP API server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// AlerterRule defines a single alerting rule evaluated after a batch run.
type AlerterRule struct {
	Name      string  `yaml:"name"`
	Metric    string  `yaml:"metric"`
	Operator  string  `yaml:"operator"`
	Threshold float64 `yaml:"threshold"`
}

// AlerterConfig holds the settings for the batch alerter.
type AlerterConfig struct {
	Enabled bool          `yaml:"enabled"`
	Rules   []AlerterRule `yaml:"rules"`
}

// SMTPConfig holds the settings for the email notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Writers   []WriterDef     `yaml:"writers"`
	Publisher PublisherConfig `yaml:"publisher"`
	API       APIConfig       `yaml:"api"`
	Alerter   AlerterConfig   `yaml:"alerter"`
	SMTP      SMTPConfig      `yaml:"smtp"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in the discovery settings that almost never change.
// Defaults are built per call so configs loaded twice never share slices.
func (c *Config) applyDefaults() {
	if len(c.Analyzer.DumpGlobs) == 0 {
		c.Analyzer.DumpGlobs = []string{"*mptcp*dump*", "nest/*mptcp*dump*"}
	}
	if c.Analyzer.RootDir == "" {
		c.Analyzer.RootDir = "."
	}
	if c.Analyzer.NetperfFile == "" {
		c.Analyzer.NetperfFile = "netperf.json"
	}
	if c.Analyzer.MonitorGlob == "" {
		c.Analyzer.MonitorGlob = "mptcp_monitor*.log"
	}
	if c.Analyzer.CaptureGlob == "" {
		c.Analyzer.CaptureGlob = "*.pcap"
	}
}
