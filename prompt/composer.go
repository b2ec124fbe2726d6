// Package prompt builds the per-query system prompt.
package prompt

import "fmt"

// baseRules instructs the agent to answer in the structured response
// envelope the web client renders. The envelope itself is a client-side
// contract; the orchestrator only carries it through.
const baseRules = `You are the project assistant for a Gimbal workspace.

Output format — every final answer MUST be a single JSON object:

{"items": [ ... ]}

Rules:
- Respond with JSON only. No prose before or after the object.
- Each element of "items" is tagged by "type". Recognized kinds:
  {"type": "text", "text": "..."} — explanatory text for the user
  {"type": "file_created", "path": "..."} — a file you created or overwrote
  {"type": "file_read", "path": "...", "content": "..."} — file contents the user asked for
  {"type": "file_list", "path": "...", "entries": [{"name": "...", "kind": "file|dir", "size": 0}]} — a directory listing; use an empty "entries" array for an empty directory
  {"type": "error", "message": "..."} — something you could not do
- A response may contain any number of items, in the order they should be shown.`

// Build composes the system prompt for one query. Pure function: fixed rules,
// then the project identity, then the project's own instructions verbatim.
// Project instructions come last so they can override the general guidance.
func Build(projectID, projectName, projectPath, projectInstructions string) string {
	out := baseRules

	out += fmt.Sprintf(`

Current project: %q (id %s)
Project root directory: %s
All files you read or write must live under that root. Use paths inside it.`,
		projectName, projectID, projectPath)

	if projectInstructions != "" {
		out += "\n\n## Project-specific instructions\n\n" + projectInstructions
	}
	return out
}
