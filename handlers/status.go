package handlers

import "strings"

// Tool server name prefixes assigned by the agent runtime to bridge tools.
const (
	fsToolPrefix    = "mcp__filesystem__"
	fetchToolPrefix = "mcp__fetch__"
)

// statusForTool maps a tool name to the short progress phrase streamed to
// the client while the tool runs.
func statusForTool(name string) string {
	if strings.HasPrefix(name, fsToolPrefix) {
		op := strings.TrimPrefix(name, fsToolPrefix)
		switch {
		case strings.Contains(op, "read"):
			return "Reading file..."
		case strings.Contains(op, "write"):
			return "Writing file..."
		case strings.Contains(op, "list"):
			return "Listing files..."
		case strings.Contains(op, "create"):
			return "Creating directory..."
		default:
			return "Performing a file operation..."
		}
	}
	if strings.HasPrefix(name, fetchToolPrefix) {
		return "Fetching data..."
	}

	switch name {
	case "WebSearch":
		return "Searching the web..."
	case "WebFetch":
		return "Fetching web page..."
	case "Read":
		return "Reading file..."
	case "Write":
		return "Writing file..."
	case "Bash":
		return "Running command..."
	}
	return "Using `" + name + "`..."
}
