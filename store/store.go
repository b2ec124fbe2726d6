// Package store persists the two per-project query logs: the full raw event
// transcript (debugging) and the derived conversation history (UI replay).
// Both are append-only newline-delimited JSON; neither is ever rewritten or
// compacted here. Appends are best-effort — a storage fault must never fail
// the query that triggered it.
package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gimbal/runtime"
)

// TranscriptRecord is one completed query with its verbatim event stream.
type TranscriptRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Prompt    string          `json:"prompt"`
	RawEvents []runtime.Event `json:"raw_events"`
}

// HistoryEntry is one (prompt, response) turn replayed on page reload.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
}

// Store writes transcripts under logsDir (one file per project name) and
// history under historyDir (one file per project ID).
type Store struct {
	logsDir    string
	historyDir string
}

// New creates a store rooted at the given directories.
func New(logsDir, historyDir string) *Store {
	return &Store{logsDir: logsDir, historyDir: historyDir}
}

// AppendTranscript adds one record to the project's debug transcript.
// Failures are logged and swallowed.
func (s *Store) AppendTranscript(projectName, prompt string, rawEvents []runtime.Event) {
	rec := TranscriptRecord{
		Timestamp: time.Now().UTC(),
		Prompt:    prompt,
		RawEvents: rawEvents,
	}
	if err := appendLine(filepath.Join(s.logsDir, safeFileName(projectName)+".jsonl"), rec); err != nil {
		log.Printf("store: transcript append for %q: %v", projectName, err)
	}
}

// AppendHistory adds one derived (prompt, response) entry to the project's
// conversation history. Failures are logged and swallowed.
func (s *Store) AppendHistory(projectID, prompt, response string) {
	entry := HistoryEntry{
		Timestamp: time.Now().UTC(),
		Prompt:    prompt,
		Response:  response,
	}
	if err := appendLine(filepath.Join(s.historyDir, projectID+".jsonl"), entry); err != nil {
		log.Printf("store: history append for %s: %v", projectID, err)
	}
}

// LoadHistory returns the project's history entries in insertion order. A
// missing file is the expected state for a never-queried project and yields
// an empty list. Unparseable lines are skipped with a log line.
func (s *Store) LoadHistory(projectID string) ([]HistoryEntry, error) {
	f, err := os.Open(filepath.Join(s.historyDir, projectID+".jsonl"))
	if os.IsNotExist(err) {
		return []HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	entries := []HistoryEntry{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry HistoryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			log.Printf("store: skipping malformed history line for %s: %v", projectID, err)
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return entries, nil
}

// safeFileName maps a project name to a file-safe form. Transcripts are
// keyed by display name, which is user input; path separators and anything
// else unsafe must not reach the filesystem.
func safeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "project"
	}
	return b.String()
}

// appendLine appends one JSON record and a newline, creating the directory
// and file as needed. Single-line O_APPEND writes keep interleaved appends
// whole without explicit locking.
func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
