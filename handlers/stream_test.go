package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

// parseFrames decodes the data lines of an SSE body into frames.
func parseFrames(t *testing.T, body string) []frame {
	t.Helper()
	var frames []frame
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var f frame
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &f); err != nil {
			t.Fatalf("bad frame %q: %v", line, err)
		}
		frames = append(frames, f)
	}
	return frames
}

func frameTypes(frames []frame) []string {
	types := make([]string, len(frames))
	for i, f := range frames {
		types[i] = f.Type
	}
	return types
}

func TestStream_Success(t *testing.T) {
	mux, deps := newTestMux(t, &fakeRuntime{script: []string{
		`{"type":"system","subtype":"init"}`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"mcp__filesystem__read_file"}]}}`,
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"mcp__fetch__fetch"}]}}`,
		resultLine,
	}})
	p, _ := deps.Projects.Create("demo")

	w := doJSON(t, mux, http.MethodPost, "/projects/"+p.ID+"/query/stream", `{"prompt":"go"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}

	frames := parseFrames(t, w.Body.String())
	got := frameTypes(frames)
	want := []string{"status", "status", "result", "done"}
	if len(got) != len(want) {
		t.Fatalf("expected frames %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected frames %v, got %v", want, got)
		}
	}

	if frames[0].Data != "Reading file..." {
		t.Errorf("unexpected first status %v", frames[0].Data)
	}
	if frames[1].Data != "Fetching data..." {
		t.Errorf("unexpected second status %v", frames[1].Data)
	}

	// The result frame carries the full raw event list.
	events, ok := frames[2].Data.([]any)
	if !ok {
		t.Fatalf("expected event list in result frame, got %T", frames[2].Data)
	}
	if len(events) != 4 {
		t.Errorf("expected 4 events in result, got %d", len(events))
	}
}

func TestStream_Error(t *testing.T) {
	mux, deps := newTestMux(t, &fakeRuntime{
		script: []string{
			`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"mcp__filesystem__write_file"}]}}`,
			`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"WebSearch"}]}}`,
		},
		err: errors.New("runtime exploded"),
	})
	p, _ := deps.Projects.Create("demo")

	w := doJSON(t, mux, http.MethodPost, "/projects/"+p.ID+"/query/stream", `{"prompt":"go"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("headers were already committed, expected 200, got %d", w.Code)
	}

	frames := parseFrames(t, w.Body.String())
	got := frameTypes(frames)
	// Status frames for progress made, then a single error and no done.
	want := []string{"status", "status", "error"}
	if len(got) != len(want) {
		t.Fatalf("expected frames %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected frames %v, got %v", want, got)
		}
	}
	if !strings.Contains(frames[2].Data.(string), "runtime exploded") {
		t.Errorf("unexpected error payload %v", frames[2].Data)
	}
}

func TestStream_ValidationBeforeHeaders(t *testing.T) {
	mux, deps := newTestMux(t, &fakeRuntime{})
	p, _ := deps.Projects.Create("demo")

	t.Run("missing prompt", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/projects/"+p.ID+"/query/stream", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		w := doJSON(t, mux, http.MethodPost, "/projects/nope/query/stream", `{"prompt":"hi"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestStatusForTool(t *testing.T) {
	cases := map[string]string{
		"mcp__filesystem__read_file":        "Reading file...",
		"mcp__filesystem__write_file":       "Writing file...",
		"mcp__filesystem__list_directory":   "Listing files...",
		"mcp__filesystem__create_directory": "Creating directory...",
		"mcp__filesystem__move_file":        "Performing a file operation...",
		"mcp__fetch__fetch":                 "Fetching data...",
		"WebSearch":                         "Searching the web...",
		"Bash":                              "Running command...",
		"SomethingNew":                      "Using `SomethingNew`...",
	}
	for name, want := range cases {
		if got := statusForTool(name); got != want {
			t.Errorf("statusForTool(%q) = %q, want %q", name, got, want)
		}
	}
}
