package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gimbal/runtime"
	"gimbal/session"
	"gimbal/sse"
)

// frame is one streamed protocol event. The wire form is a single
// "data: {...}" line per frame.
type frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// outcome carries the query's terminal result out of the worker goroutine.
type outcome struct {
	res *session.QueryResult
	err error
}

// stream runs a query and pushes status/result/error/done frames over SSE.
// A stream ends with exactly one terminal sequence: result followed by done
// on success, or a single error frame — and no done — on failure, so the
// client can tell a clean end from a failed one.
func (h *projectHandler) stream(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Validate before SSE headers are sent (NewWriter commits 200).
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Prompt == "" {
		writeJSONError(w, http.StatusBadRequest, "missing field: prompt")
		return
	}
	p, ok := h.resolveProject(w, projectID)
	if !ok {
		return
	}

	sw := sse.NewWriter(w)
	if sw == nil {
		writeJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	events := make(chan runtime.Event, 64)
	done := make(chan outcome, 1)
	go func() {
		res, err := h.deps.Sessions.Query(r.Context(), p, req.Prompt, events)
		done <- outcome{res, err}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for events != nil {
		select {
		case ev, open := <-events:
			if !open {
				events = nil
				continue
			}
			if name, used := ev.ToolUse(); used {
				sw.Send(frame{Type: "status", Data: statusForTool(name)})
			}
		case <-ticker.C:
			sw.Comment("keep-alive")
		}
	}

	oc := <-done
	if oc.err != nil {
		sw.Send(frame{Type: "error", Data: oc.err.Error()})
		return
	}
	sw.Send(frame{Type: "result", Data: eventList(oc.res.Events)})
	sw.Send(frame{Type: "done"})
}

func eventList(events []runtime.Event) []runtime.Event {
	if events == nil {
		return []runtime.Event{}
	}
	return events
}
