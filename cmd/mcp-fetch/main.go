// mcp-fetch is a minimal HTTP fetch tool server. It exposes a single tool
// that retrieves a URL and returns the response body as text.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"gimbal/mcp"
)

const version = "0.1.0"

// Response bodies are capped so a runaway download cannot blow out the
// JSON-RPC message size.
const maxBodyBytes = 4 << 20

var client = &http.Client{Timeout: 30 * time.Second}

func main() {
	log.SetFlags(0)
	log.SetPrefix("mcp-fetch: ")

	srv := mcp.NewServer("fetch", version)
	srv.Register(mcp.Tool{
		Name:        "fetch",
		Description: "Fetch a URL over HTTP(S) and return the response body as text.",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"url":{"type":"string"}},"required":["url"]}`),
	}, fetch)

	if err := srv.Serve(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func fetch(ctx context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	if !strings.HasPrefix(args.URL, "http://") && !strings.HasPrefix(args.URL, "https://") {
		return "", fmt.Errorf("unsupported URL scheme: %s", args.URL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %v", err)
	}
	req.Header.Set("User-Agent", "gimbal-fetch/"+version)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading response: %v", err)
	}
	return string(body), nil
}
