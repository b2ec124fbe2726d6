package gimbal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds server-level runtime configuration.
type Config struct {
	Host string
	Port int

	// RootDir is the workspace root (default ~/.gimbal). Projects, logs,
	// history, and tool server binaries all live under it.
	RootDir string

	// RuntimeCommand is the agent runtime executable (default "claude").
	RuntimeCommand string
	// RuntimeArgs are extra arguments appended to every runtime invocation.
	RuntimeArgs []string

	// MCPBinDir overrides where tool server binaries are looked up.
	MCPBinDir string

	// StaticPath is the directory for static file serving with SPA fallback.
	StaticPath string
}

// fileConfig is the optional gimbal.yaml structure.
type fileConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	RootDir string `yaml:"root_dir"`
	Runtime struct {
		Command string   `yaml:"command"`
		Args    []string `yaml:"args"`
	} `yaml:"runtime"`
	MCPBinDir  string `yaml:"mcp_bin_dir"`
	StaticPath string `yaml:"static_path"`
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// and environment variables, in increasing precedence. Pass an empty path to
// skip the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Host:           "0.0.0.0",
		Port:           8000,
		RootDir:        defaultRootDir(),
		RuntimeCommand: "claude",
		StaticPath:     "static",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		if fc.Host != "" {
			cfg.Host = fc.Host
		}
		if fc.Port != 0 {
			cfg.Port = fc.Port
		}
		if fc.RootDir != "" {
			cfg.RootDir = fc.RootDir
		}
		if fc.Runtime.Command != "" {
			cfg.RuntimeCommand = fc.Runtime.Command
		}
		if len(fc.Runtime.Args) > 0 {
			cfg.RuntimeArgs = fc.Runtime.Args
		}
		if fc.MCPBinDir != "" {
			cfg.MCPBinDir = fc.MCPBinDir
		}
		if fc.StaticPath != "" {
			cfg.StaticPath = fc.StaticPath
		}
	}

	cfg.Host = envOr("HOST", cfg.Host)
	cfg.Port = envIntOr("PORT", cfg.Port)
	cfg.RootDir = envOr("GIMBAL_HOME", cfg.RootDir)
	cfg.RuntimeCommand = envOr("GIMBAL_RUNTIME", cfg.RuntimeCommand)
	cfg.MCPBinDir = envOr("GIMBAL_MCP_BIN", cfg.MCPBinDir)

	return cfg, nil
}

// ResolvedMCPBinDir returns the tool server binary directory, defaulting to
// <root>/mcp/bin. Resolved late so a RootDir override carries through.
func (c *Config) ResolvedMCPBinDir() string {
	if c.MCPBinDir != "" {
		return c.MCPBinDir
	}
	return filepath.Join(c.RootDir, "mcp", "bin")
}

// ProjectsDir is where project directories are created.
func (c *Config) ProjectsDir() string { return filepath.Join(c.RootDir, "projects") }

// ProjectsFile is the project metadata store.
func (c *Config) ProjectsFile() string { return filepath.Join(c.RootDir, "projects.json") }

// LogsDir holds the per-project debug transcripts.
func (c *Config) LogsDir() string { return filepath.Join(c.RootDir, "logs") }

// HistoryDir holds the per-project conversation history.
func (c *Config) HistoryDir() string { return filepath.Join(c.RootDir, "history") }

func defaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gimbal"
	}
	return filepath.Join(home, ".gimbal")
}

// envOr returns the environment variable or a default value.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envIntOr returns the environment variable as int or a default value.
func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return def
	}
	return n
}
