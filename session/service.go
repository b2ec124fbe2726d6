package session

import (
	"context"

	"gimbal/mcp"
	"gimbal/project"
	"gimbal/prompt"
	"gimbal/runtime"
	"gimbal/store"
)

// Service orchestrates one query end to end: per-project serialization,
// resume token lookup, prompt composition, the runtime run, token update,
// and best-effort persistence. Both the batch and streaming transports call
// it; only the streaming one passes an event channel.
type Service struct {
	runner   *Runner
	registry *Registry
	bridge   *mcp.Bridge
	store    *store.Store
}

// NewService wires the query orchestrator.
func NewService(runner *Runner, registry *Registry, bridge *mcp.Bridge, st *store.Store) *Service {
	return &Service{runner: runner, registry: registry, bridge: bridge, store: st}
}

// QueryResult is the terminal outcome of a successful query.
type QueryResult struct {
	// Events is the full raw event list, already persisted to the transcript.
	Events []runtime.Event
	// Response is the derived answer persisted to the history.
	Response string
}

// Query runs one prompt against the project's conversation. When out is
// non-nil every runtime event is forwarded to it in order; out is closed
// before Query returns, on success and on failure alike.
//
// The project lock is held for the whole read-token → run → write-token
// sequence, so two queries against the same project run one after the other.
// Persistence happens before Query returns: a caller emitting terminal
// events afterwards observes the stores already written.
func (s *Service) Query(ctx context.Context, proj project.Project, userPrompt string, out chan<- runtime.Event) (*QueryResult, error) {
	if out != nil {
		defer close(out)
	}

	unlock := s.registry.Lock(proj.ID)
	defer unlock()

	token, _ := s.registry.Token(proj.ID)
	systemPrompt := prompt.Build(proj.ID, proj.Name, proj.Path, project.Instructions(proj))

	inv := runtime.Invocation{
		Prompt:       userPrompt,
		WorkDir:      proj.Path,
		SystemPrompt: systemPrompt,
		ResumeToken:  token,
		ToolServers:  s.bridge.Descriptors(proj.Path),
	}

	res, err := s.runner.Run(ctx, inv, out)
	if err != nil {
		return nil, err
	}

	// A turn without a token leaves the existing binding untouched:
	// continuity for that turn is lost but the query still succeeded.
	if res.ResumeToken != "" {
		s.registry.SetToken(proj.ID, res.ResumeToken)
	}

	response := deriveResponse(res.Events)
	s.store.AppendTranscript(proj.Name, userPrompt, res.Events)
	s.store.AppendHistory(proj.ID, userPrompt, response)

	return &QueryResult{Events: res.Events, Response: response}, nil
}

// deriveResponse extracts the answer payload from the terminal result event.
// The last result event wins; no result event yields an empty response.
func deriveResponse(events []runtime.Event) string {
	response := ""
	for _, ev := range events {
		if text, ok := ev.ResponseText(); ok {
			response = text
		}
	}
	return response
}
