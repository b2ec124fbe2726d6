package gimbal

import (
	"os"
	"path/filepath"
)

// workspaceReadme is written once into a fresh workspace root so the agent
// (and curious users) can see what the directory is for.
const workspaceReadme = `# Gimbal Workspace

This directory is a managed workspace where the hosted agent can read and
write files through scoped tool servers.

## Structure

- projects/<name>/   one directory per project
    - CLAUDE.md      project-specific context (optional)
    - downloads/     raw files fetched from the web
    - scripts/       processing scripts
    - data/          processed/final data
- logs/              per-project raw query transcripts (debugging)
- history/           per-project conversation history (UI replay)
- mcp/bin/           tool server binaries

The agent can only access files within a project's directory. To work with
files elsewhere, copy them into a project first.
`

// EnsureWorkspace creates the workspace directory structure and drops the
// workspace readme if it doesn't exist yet.
func EnsureWorkspace(cfg *Config) error {
	dirs := []string{
		cfg.ProjectsDir(),
		cfg.LogsDir(),
		cfg.HistoryDir(),
		cfg.ResolvedMCPBinDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	readme := filepath.Join(cfg.RootDir, "CLAUDE.md")
	if _, err := os.Stat(readme); os.IsNotExist(err) {
		if err := os.WriteFile(readme, []byte(workspaceReadme), 0o644); err != nil {
			return err
		}
	}
	return nil
}
