// Package project is the project metadata store: named directories under the
// workspace, identified by opaque UUIDs. The orchestrator core treats
// projects as immutable input per query.
package project

import "time"

// Project is a named container bound to a root directory. It is the unit of
// isolation for agent file access and conversation state.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}

// InstructionFile is the per-project instruction filename read (best-effort)
// into the system prompt.
const InstructionFile = "CLAUDE.md"
