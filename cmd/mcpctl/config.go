package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"model-control-plane/pkg/mcp"
)

const (
	envServer    = "MCPCTL_SERVER"
	envWorkspace = "MCPCTL_WORKSPACE"
	envOutput    = "MCPCTL_OUTPUT"

	defaultServer  = "http://localhost:8080"
	defaultTimeout = 30 * time.Second

	configFileName = ".mcpctl.yaml"
)

// fileConfig maps the ~/.mcpctl.yaml keys.
type fileConfig struct {
	Server    string `yaml:"server"`
	Workspace string `yaml:"workspace"`
	Output    string `yaml:"output"`
	Timeout   string `yaml:"timeout"`
}

// settings are the resolved connection parameters for one invocation.
// Precedence: flags over environment over config file over defaults.
type settings struct {
	Server    string
	Workspace string
	Output    string
	Timeout   time.Duration
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// loadFileConfig reads a config file. A missing file is not an error.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = defaultConfigPath()
	}
	var cfg fileConfig
	if path != "" {
		var err error
		cfg, err = loadFileConfig(path)
		if err != nil {
			return settings{}, err
		}
	}

	s := settings{
		Server:  defaultServer,
		Output:  outputTable,
		Timeout: defaultTimeout,
	}
	if cfg.Server != "" {
		s.Server = cfg.Server
	}
	if cfg.Workspace != "" {
		s.Workspace = cfg.Workspace
	}
	if cfg.Output != "" {
		s.Output = cfg.Output
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return settings{}, fmt.Errorf("config timeout %q: %w", cfg.Timeout, err)
		}
		s.Timeout = d
	}

	if v := os.Getenv(envServer); v != "" {
		s.Server = v
	}
	if v := os.Getenv(envWorkspace); v != "" {
		s.Workspace = v
	}
	if v := os.Getenv(envOutput); v != "" {
		s.Output = v
	}

	if cmd.Flags().Changed("server") {
		s.Server, _ = cmd.Flags().GetString("server")
	}
	if cmd.Flags().Changed("workspace") {
		s.Workspace, _ = cmd.Flags().GetString("workspace")
	}
	if cmd.Flags().Changed("output") {
		s.Output, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("timeout") {
		s.Timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	switch s.Output {
	case outputTable, outputJSON, outputYAML:
	default:
		return settings{}, fmt.Errorf("unknown output format %q (want table, json or yaml)", s.Output)
	}
	return s, nil
}

// newClient resolves settings and builds the API client for a command.
func newClient(cmd *cobra.Command) (*mcp.Client, settings, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, settings{}, err
	}
	opts := []mcp.Option{mcp.WithTimeout(s.Timeout)}
	if s.Workspace != "" {
		opts = append(opts, mcp.WithWorkspace(s.Workspace))
	}
	client, err := mcp.New(s.Server, opts...)
	if err != nil {
		return nil, settings{}, err
	}
	return client, s, nil
}

// parseKeyValues turns key=value arguments into metadata entries.
// Values that parse as numbers or booleans keep their type.
func parseKeyValues(args []string) (map[string]any, error) {
	entries := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid entry %q (want key=value)", arg)
		}
		entries[key] = coerceValue(value)
	}
	return entries, nil
}

func coerceValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
