package mcp

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ServerSpec names a tool server executable and its launch arguments. The
// agent runtime launches the process itself; the bridge only describes it.
type ServerSpec struct {
	Name    string   `json:"-"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Bridge supplies the per-query tool server descriptors: a filesystem server
// scoped to the project root and an HTTP fetch server.
type Bridge struct {
	binDir string
}

// NewBridge creates a bridge that launches tool servers from binDir. An empty
// binDir falls back to searching next to the running executable and PATH.
func NewBridge(binDir string) *Bridge {
	return &Bridge{binDir: binDir}
}

// Descriptors returns the two tool server specs for a query against the given
// project root. The filesystem server receives the root as its only argument
// and refuses access outside it at its own layer.
func (b *Bridge) Descriptors(projectPath string) []ServerSpec {
	return []ServerSpec{
		{Name: "filesystem", Command: b.findBinary("mcp-filesystem"), Args: []string{projectPath}},
		{Name: "fetch", Command: b.findBinary("mcp-fetch")},
	}
}

// findBinary locates a tool server executable.
// Search order: configured bin dir → next to the server executable → PATH.
func (b *Bridge) findBinary(name string) string {
	if b.binDir != "" {
		candidate := filepath.Join(b.binDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if ex, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(ex), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if p, err := exec.LookPath(name); err == nil {
		return p
	}

	// Last resort: bare name, resolved by the runtime's own PATH lookup.
	return name
}

// ClientConfig renders the specs in the agent runtime's --mcp-config format:
// {"mcpServers": {"<name>": {"command": ..., "args": [...]}}}.
func ClientConfig(specs []ServerSpec) (string, error) {
	servers := make(map[string]ServerSpec, len(specs))
	for _, spec := range specs {
		servers[spec.Name] = spec
	}
	data, err := json.Marshal(map[string]any{"mcpServers": servers})
	if err != nil {
		return "", fmt.Errorf("marshal mcp config: %w", err)
	}
	return string(data), nil
}
