// Package mcp holds the Model Context Protocol plumbing shared by the tool
// bridge and the stdio tool servers under cmd/.
//
// The agent runtime launches each tool server as a local subprocess and talks
// JSON-RPC 2.0 over its stdin/stdout, one message per line. Server implements
// the minimal method set the runtime needs: initialize, tools/list,
// tools/call, and ping.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
)

// Handler executes one tool call. A returned error becomes a tool-level error
// result (isError: true), never a protocol failure, so the calling agent can
// react to it as normal tool output.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Server is a single-connection MCP server speaking newline-delimited
// JSON-RPC over a reader/writer pair (stdin/stdout in the cmd binaries).
type Server struct {
	info     ServerInfo
	tools    []Tool
	handlers map[string]Handler
}

// NewServer creates a server with no tools registered.
func NewServer(name, version string) *Server {
	return &Server{
		info:     ServerInfo{Name: name, Version: version},
		handlers: make(map[string]Handler),
	}
}

// Register adds a tool and its handler.
func (s *Server) Register(t Tool, h Handler) {
	s.tools = append(s.tools, t)
	s.handlers[t.Name] = h
}

// Serve reads requests from r until EOF, writing one response line per
// request to w. Notifications are consumed without a response.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if err := enc.Encode(newErrorResponse(nil, codeParseError, "invalid JSON: "+err.Error())); err != nil {
				return err
			}
			continue
		}

		resp := s.dispatch(ctx, &req)
		if resp == nil {
			continue // notification
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	if req.IsNotification() {
		// notifications/initialized, notifications/cancelled, etc.
		return nil
	}

	switch req.Method {
	case "initialize":
		result := InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    json.RawMessage(`{"tools":{}}`),
			ServerInfo:      s.info,
		}
		return s.success(req.ID, result)

	case "ping":
		return s.success(req.ID, struct{}{})

	case "tools/list":
		tools := s.tools
		if tools == nil {
			tools = []Tool{}
		}
		return s.success(req.ID, ToolsListResult{Tools: tools})

	case "tools/call":
		var params ToolsCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return newErrorResponse(req.ID, codeInvalidParams, "invalid params: "+err.Error())
		}
		h, ok := s.handlers[params.Name]
		if !ok {
			return newErrorResponse(req.ID, codeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
		}
		text, err := h(ctx, params.Arguments)
		result := ToolsCallResult{Content: []ContentItem{{Type: "text", Text: text}}}
		if err != nil {
			result.Content = []ContentItem{{Type: "text", Text: err.Error()}}
			result.IsError = true
		}
		return s.success(req.ID, result)

	default:
		return newErrorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (s *Server) success(id json.RawMessage, result any) *Response {
	resp, err := newSuccessResponse(id, result)
	if err != nil {
		log.Printf("mcp: marshal result: %v", err)
		return newErrorResponse(id, codeParseError, "failed to marshal result")
	}
	return resp
}
