package runtime

import (
	"encoding/json"
	"errors"
)

// Event is one message from the agent runtime's stream. Raw always holds the
// verbatim bytes as produced by the runtime; the decoded fields cover only
// the shapes the orchestrator recognizes. Everything else passes through
// untouched.
type Event struct {
	Type      string
	Raw       json.RawMessage
	Assistant *AssistantEvent // decoded when Type == "assistant"
	Result    *ResultEvent    // decoded when Type == "result"
}

// AssistantEvent is an assistant turn; its content blocks may describe tool
// invocations.
type AssistantEvent struct {
	Message struct {
		Content []ContentBlock `json:"content"`
	} `json:"message"`
}

// ContentBlock is a single block inside an assistant message.
type ContentBlock struct {
	Type string `json:"type"` // "text", "tool_use", ...
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// ResultEvent is the terminal event of a query. Result is the opaque answer
// payload; SessionID, when present, is the resume token for the next turn.
type ResultEvent struct {
	Subtype   string          `json:"subtype"`
	Result    json.RawMessage `json:"result"`
	SessionID string          `json:"session_id"`
	IsError   bool            `json:"is_error"`
}

// ParseEvent decodes one stream line into an Event, keeping the raw bytes
// verbatim. Unrecognized types decode into a passthrough event.
func ParseEvent(line []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return Event{}, err
	}

	ev := Event{Type: head.Type, Raw: append(json.RawMessage(nil), line...)}
	switch head.Type {
	case "assistant":
		var a AssistantEvent
		if err := json.Unmarshal(line, &a); err == nil {
			ev.Assistant = &a
		}
	case "result":
		var r ResultEvent
		if err := json.Unmarshal(line, &r); err == nil {
			ev.Result = &r
		}
	}
	return ev, nil
}

// ToolUse returns the tool name of the first tool_use content block, if the
// event is an assistant turn that invokes a tool. One name per event: later
// blocks in the same turn are ignored.
func (e Event) ToolUse() (string, bool) {
	if e.Assistant == nil {
		return "", false
	}
	for _, block := range e.Assistant.Message.Content {
		if block.Type == "tool_use" {
			return block.Name, true
		}
	}
	return "", false
}

// ResponseText derives the user-facing answer from a terminal result event:
// a string payload is returned verbatim, anything else is returned in its
// JSON-serialized form.
func (e Event) ResponseText() (string, bool) {
	if e.Result == nil || len(e.Result.Result) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(e.Result.Result, &s); err == nil {
		return s, true
	}
	return string(e.Result.Result), true
}

// MarshalJSON emits the verbatim runtime bytes, so persisted events reproduce
// the stream exactly.
func (e Event) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return nil, errors.New("event has no raw payload")
	}
	return e.Raw, nil
}

// UnmarshalJSON re-parses a persisted event.
func (e *Event) UnmarshalJSON(data []byte) error {
	ev, err := ParseEvent(data)
	if err != nil {
		return err
	}
	*e = ev
	return nil
}
