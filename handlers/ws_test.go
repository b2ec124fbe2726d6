package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

func TestStreamWS(t *testing.T) {
	mux, deps := newTestMux(t, &fakeRuntime{script: []string{
		`{"type":"assistant","message":{"content":[{"type":"tool_use","name":"mcp__filesystem__read_file"}]}}`,
		resultLine,
	}})
	p, _ := deps.Projects.Create("demo")

	srv := httptest.NewServer(mux)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/projects/" + p.ID + "/query/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"prompt": "go"}); err != nil {
		t.Fatal(err)
	}

	var types []string
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			break
		}
		types = append(types, f.Type)
		if f.Type == "done" || f.Type == "error" {
			break
		}
	}

	want := []string{"status", "result", "done"}
	if len(types) != len(want) {
		t.Fatalf("expected frames %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected frames %v, got %v", want, types)
		}
	}
}

func TestStreamWS_UnknownProject(t *testing.T) {
	mux, _ := newTestMux(t, &fakeRuntime{})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/projects/nope/query/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown project")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake response, got %+v", resp)
	}
}
