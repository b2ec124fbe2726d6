// mcp-filesystem is the scoped filesystem tool server. It is launched by the
// agent runtime with one or more allowed directories as arguments and refuses
// any access outside them.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gimbal/mcp"
)

const version = "0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("mcp-filesystem: ")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: mcp-filesystem <allowed_directory> [additional_directories...]")
		os.Exit(2)
	}

	var allowed []string
	for _, arg := range os.Args[1:] {
		dir, err := filepath.Abs(arg)
		if err != nil {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			log.Printf("warning: %s is not a directory, skipping", arg)
			continue
		}
		allowed = append(allowed, dir)
	}
	if len(allowed) == 0 {
		log.Fatal("no valid directories provided")
	}

	fs := &fsServer{allowed: allowed}
	srv := mcp.NewServer("filesystem", version)
	registerTools(srv, fs)

	log.Printf("serving with allowed directories: %v", allowed)
	if err := srv.Serve(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

type fsServer struct {
	allowed []string
}

// resolve validates a path against the allowed roots, following the same
// containment rule at each layer: resolve to absolute, then require it to
// sit under one of the roots.
func (s *fsServer) resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %v", path, err)
	}
	abs = filepath.Clean(abs)
	for _, root := range s.allowed {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("path not allowed: %s (allowed directories: %v)", abs, s.allowed)
}
