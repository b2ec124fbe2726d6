package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"gimbal/runtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Same policy as the CORS middleware: the API is open to any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamWS is the WebSocket variant of the query stream. The client sends
// one JSON message {"prompt": ...} after connecting, then receives the same
// {type, data} frames as the SSE transport, one JSON text message each.
func (h *projectHandler) streamWS(w http.ResponseWriter, r *http.Request, projectID string) {
	p, ok := h.resolveProject(w, projectID)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		return
	}
	defer conn.Close()

	var req queryRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(frame{Type: "error", Data: "invalid JSON: " + err.Error()})
		return
	}
	if req.Prompt == "" {
		conn.WriteJSON(frame{Type: "error", Data: "missing field: prompt"})
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
				if err := conn.WriteJSON(frame{Type: "status", Data: statusForTool(name)}); err != nil {
					log.Printf("handlers: ws write for %s: %v", projectID, err)
				}
			}
		case <-ticker.C:
			conn.WriteMessage(websocket.PingMessage, nil)
		}
	}

	oc := <-done
	if oc.err != nil {
		if err := conn.WriteJSON(frame{Type: "error", Data: oc.err.Error()}); err != nil {
			log.Printf("handlers: ws write for %s: %v", projectID, err)
		}
		return
	}
	if err := conn.WriteJSON(frame{Type: "result", Data: eventList(oc.res.Events)}); err != nil {
		log.Printf("handlers: ws write for %s: %v", projectID, err)
	}
	if err := conn.WriteJSON(frame{Type: "done"}); err != nil {
		log.Printf("handlers: ws write for %s: %v", projectID, err)
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}
