package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestDir     string

	// Runner settings
	ServerURL      string
	ProgressURL    string
	Headless       bool
	RequestTimeout time.Duration

	// Discovery settings
	SpecExtensions []string
	PathsToIgnore  []string

	// Storage and diagnostics
	SelectionsFile string
	LogLevel       string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath   string
	TestDir       string
	ServerURL     string
	ProgressURL   string
	Headed        bool
	Cloud         bool
	NameFilter    string
	Select        []string
	All           bool
	Selection     string
	SaveSelection string
	Interactive   bool
	OpenResults   bool
	TestCases     bool
	ReportOutput  string
	OpenReport    bool
	LogLevel      string
}

// HasSelection reports whether any flag selects tests
func (f Flags) HasSelection() bool {
	return f.All || f.Selection != "" || len(f.Select) > 0
}

// fileConfig is the shape of pwr.yaml. Absent keys keep the current value.
type fileConfig struct {
	TestDir        *string  `yaml:"testDir"`
	ServerURL      *string  `yaml:"serverUrl"`
	ProgressURL    *string  `yaml:"progressUrl"`
	Headless       *bool    `yaml:"headless"`
	RequestTimeout *string  `yaml:"requestTimeout"`
	SpecExtensions []string `yaml:"specExtensions"`
	Ignore         []string `yaml:"ignore"`
	SelectionsFile *string  `yaml:"selectionsFile"`
	LogLevel       *string  `yaml:"logLevel"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestDir:        DefaultTestDir,
		ServerURL:      DefaultServerURL,
		ProgressURL:    DefaultProgressURL,
		Headless:       DefaultHeadless,
		RequestTimeout: DefaultRequestTimeout,
		SelectionsFile: DefaultSelectionsFile,
		LogLevel:       DefaultLogLevel,
	}
	cfg.SpecExtensions = append([]string(nil), DefaultSpecExtensions...)
	cfg.PathsToIgnore = append([]string(nil), DefaultPathsToIgnore...)
	return cfg
}

// Load creates a config for the project at projectPath: defaults, then
// pwr.yaml, then .env and the process environment.
func Load(projectPath string) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}
	if err := cfg.LoadFile(filepath.Join(cfg.ProjectPath, DefaultConfigFile)); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(filepath.Join(cfg.ProjectPath, DefaultEnvFile)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile applies a YAML config file. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.TestDir, fc.TestDir)
	setString(&c.ServerURL, fc.ServerURL)
	setString(&c.ProgressURL, fc.ProgressURL)
	setString(&c.SelectionsFile, fc.SelectionsFile)
	setString(&c.LogLevel, fc.LogLevel)
	if fc.Headless != nil {
		c.Headless = *fc.Headless
	}
	if fc.RequestTimeout != nil {
		timeout, err := time.ParseDuration(*fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parse requestTimeout: %w", err)
		}
		c.RequestTimeout = timeout
	}
	if len(fc.SpecExtensions) > 0 {
		c.SpecExtensions = fc.SpecExtensions
	}
	c.PathsToIgnore = append(c.PathsToIgnore, fc.Ignore...)
	return nil
}

// LoadEnv applies the PWR_* variables. Values already set in the process
// environment win over the ones in the .env file at envPath, which may be
// missing.
func (c *Config) LoadEnv(envPath string) error {
	fileEnv, err := godotenv.Read(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read env file: %w", err)
	}
	lookup := func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileEnv[key]
		return value, ok
	}

	if value, ok := lookup(EnvServerURL); ok && value != "" {
		c.ServerURL = value
	}
	if value, ok := lookup(EnvProgressURL); ok && value != "" {
		c.ProgressURL = value
	}
	if value, ok := lookup(EnvTestDir); ok && value != "" {
		c.TestDir = value
	}
	if value, ok := lookup(EnvLogLevel); ok && value != "" {
		c.LogLevel = value
	}
	if value, ok := lookup(EnvHeadless); ok && value != "" {
		headless, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvHeadless, err)
		}
		c.Headless = headless
	}
	return nil
}

// ApplyFlags copies the flags into the config, overriding every layer below
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.TestDir != "" {
		c.TestDir = flags.TestDir
	}
	if flags.ServerURL != "" {
		c.ServerURL = flags.ServerURL
	}
	if flags.ProgressURL != "" {
		c.ProgressURL = flags.ProgressURL
	}
	if flags.Headed {
		c.Headless = false
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// GetTestPath returns the directory tests are discovered in
func (c *Config) GetTestPath() string {
	if filepath.IsAbs(c.TestDir) {
		return c.TestDir
	}
	return filepath.Join(c.ProjectPath, c.TestDir)
}

// GetSelectionsPath returns the absolute path of the saved selections file
func (c *Config) GetSelectionsPath() string {
	p := c.SelectionsFile
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.ProjectPath, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetReportPath returns where the HTML report is written. A relative
// --output is taken from the working directory, the default lives in the
// project.
func (c *Config) GetReportPath() string {
	p := c.Flags.ReportOutput
	if p == "" {
		p = filepath.Join(c.ProjectPath, DefaultReportFile)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func setString(dst *string, value *string) {
	if value != nil && *value != "" {
		*dst = *value
	}
}
