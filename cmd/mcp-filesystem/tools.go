package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gimbal/mcp"
)

func schema(s string) json.RawMessage { return json.RawMessage(s) }

const pathSchema = `{"type":"object","properties":{"path":{"type":"string"}},"required":["path"]}`

func registerTools(srv *mcp.Server, fs *fsServer) {
	srv.Register(mcp.Tool{
		Name:        "read_file",
		Description: "Read the contents of a file.",
		InputSchema: schema(pathSchema),
	}, fs.readFile)

	srv.Register(mcp.Tool{
		Name:        "write_file",
		Description: "Write content to a file. Creates the file if it doesn't exist, overwrites if it does.",
		InputSchema: schema(`{"type":"object","properties":{"path":{"type":"string"},"content":{"type":"string"}},"required":["path","content"]}`),
	}, fs.writeFile)

	srv.Register(mcp.Tool{
		Name:        "list_directory",
		Description: "List contents of a directory.",
		InputSchema: schema(pathSchema),
	}, fs.listDirectory)

	srv.Register(mcp.Tool{
		Name:        "create_directory",
		Description: "Create a directory (and any necessary parent directories).",
		InputSchema: schema(pathSchema),
	}, fs.createDirectory)

	srv.Register(mcp.Tool{
		Name:        "delete_file",
		Description: "Delete a file.",
		InputSchema: schema(pathSchema),
	}, fs.deleteFile)

	srv.Register(mcp.Tool{
		Name:        "move_file",
		Description: "Move or rename a file or directory.",
		InputSchema: schema(`{"type":"object","properties":{"source":{"type":"string"},"destination":{"type":"string"}},"required":["source","destination"]}`),
	}, fs.moveFile)
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *fsServer) readFile(_ context.Context, raw json.RawMessage) (string, error) {
	var args pathArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	path, err := s.resolve(args.Path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file not found: %s", args.Path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file: %s", args.Path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *fsServer) writeFile(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	path, err := s.resolve(args.Path)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	// Atomic write: temp file in the target directory, then rename.
	tmp, err := os.CreateTemp(dir, ".mcp-tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	tmpName := tmp.Name()
	_, werr := tmp.WriteString(args.Content)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(tmpName, 0o644)
	}
	if werr == nil {
		werr = os.Rename(tmpName, path)
	}
	if werr != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write: %v", werr)
	}
	return fmt.Sprintf("Successfully wrote %d characters to %s", len(args.Content), args.Path), nil
}

func (s *fsServer) listDirectory(_ context.Context, raw json.RawMessage) (string, error) {
	var args pathArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	path, err := s.resolve(args.Path)
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("directory not found: %s", args.Path)
		}
		return "", fmt.Errorf("not a directory: %s", args.Path)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var lines []string
	for _, entry := range entries {
		if entry.IsDir() {
			lines = append(lines, fmt.Sprintf("[DIR]  %s/", entry.Name()))
			continue
		}
		size := int64(0)
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}
		lines = append(lines, fmt.Sprintf("[FILE] %s (%d bytes)", entry.Name(), size))
	}
	if len(lines) == 0 {
		return "(empty directory)", nil
	}
	return strings.Join(lines, "\n"), nil
}

func (s *fsServer) createDirectory(_ context.Context, raw json.RawMessage) (string, error) {
	var args pathArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	path, err := s.resolve(args.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return "Successfully created directory: " + args.Path, nil
}

func (s *fsServer) deleteFile(_ context.Context, raw json.RawMessage) (string, error) {
	var args pathArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	path, err := s.resolve(args.Path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file not found: %s", args.Path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("not a file (use delete on files only): %s", args.Path)
	}
	if err := os.Remove(path); err != nil {
		return "", err
	}
	return "Successfully deleted: " + args.Path, nil
}

func (s *fsServer) moveFile(_ context.Context, raw json.RawMessage) (string, error) {
	var args struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %v", err)
	}
	src, err := s.resolve(args.Source)
	if err != nil {
		return "", err
	}
	dst, err := s.resolve(args.Destination)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("source not found: %s", args.Source)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully moved %s to %s", args.Source, args.Destination), nil
}
