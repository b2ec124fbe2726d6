// Package runtime is the client side of the external agent runtime: the
// hosted LLM agent process that executes one query at a time and reports
// progress as an ordered stream of JSON events.
package runtime

import (
	"context"

	"gimbal/mcp"
)

// Invocation carries everything a single query needs.
type Invocation struct {
	// Prompt is the user's message for this turn.
	Prompt string
	// WorkDir is the project root the runtime runs inside.
	WorkDir string
	// SystemPrompt is appended to the runtime's base system prompt.
	SystemPrompt string
	// ResumeToken continues a prior conversation when non-empty.
	ResumeToken string
	// ToolServers are launched by the runtime for the duration of the query.
	ToolServers []mcp.ServerSpec
}

// Runtime executes one query, sending every event it produces to events in
// order. The stream is finite: Run returns only after the runtime terminates
// it. Run never closes the channel; the caller owns it.
type Runtime interface {
	Run(ctx context.Context, inv Invocation, events chan<- Event) error
}
