package runtime

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"gimbal/mcp"
)

// CLIRuntime drives the hosted agent through its command-line interface,
// reading the query's event stream as newline-delimited JSON from stdout.
type CLIRuntime struct {
	// Command is the runtime executable, "claude" by default.
	Command string
	// ExtraArgs are appended to every invocation (e.g. --model overrides).
	ExtraArgs []string
}

// NewCLIRuntime creates a runtime client for the given executable.
func NewCLIRuntime(command string) *CLIRuntime {
	if command == "" {
		command = "claude"
	}
	return &CLIRuntime{Command: command}
}

// Run launches one runtime invocation and forwards each stdout event in
// order. It returns after the process exits; a non-zero exit propagates as
// an error carrying the stderr tail.
func (r *CLIRuntime) Run(ctx context.Context, inv Invocation, events chan<- Event) error {
	args := []string{
		"-p", inv.Prompt,
		"--output-format", "stream-json",
		"--verbose",
		"--dangerously-skip-permissions",
	}
	if inv.SystemPrompt != "" {
		args = append(args, "--append-system-prompt", inv.SystemPrompt)
	}
	if inv.ResumeToken != "" {
		args = append(args, "--resume", inv.ResumeToken)
	}
	if len(inv.ToolServers) > 0 {
		cfg, err := mcp.ClientConfig(inv.ToolServers)
		if err != nil {
			return err
		}
		args = append(args, "--mcp-config", cfg)
	}
	args = append(args, r.ExtraArgs...)

	cmd := exec.CommandContext(ctx, r.Command, args...)
	cmd.Dir = inv.WorkDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("agent runtime: %w", err)
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("agent runtime: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := ParseEvent(line)
		if err != nil {
			log.Printf("runtime: skipping unparseable event line: %v", err)
			continue
		}
		if events != nil {
			select {
			case events <- ev:
			case <-ctx.Done():
				if err := cmd.Wait(); err != nil {
					log.Printf("runtime: process exit after cancellation: %v", err)
				}
				return ctx.Err()
			}
		}
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("agent runtime: %w%s", err, stderrTail(stderr.String()))
	}
	if scanErr != nil {
		return fmt.Errorf("agent runtime: read event stream: %w", scanErr)
	}
	return nil
}

// stderrTail formats the last few stderr lines for error context.
func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, " | ")
}
