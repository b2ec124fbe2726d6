// Package handlers exposes the project and query HTTP surface.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"gimbal/project"
	"gimbal/session"
	"gimbal/store"
)

// Deps holds shared dependencies injected into handlers.
type Deps struct {
	Projects *project.Store
	Sessions *session.Service
	Store    *store.Store
}

// RegisterRoutes registers all /projects/ routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, deps *Deps) {
	h := &projectHandler{deps: deps}

	mux.HandleFunc("/projects/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/projects")
		path = strings.TrimPrefix(path, "/")

		// /projects/ (list or create)
		if path == "" {
			switch r.Method {
			case http.MethodGet:
				h.listProjects(w, r)
			case http.MethodPost:
				h.createProject(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		// /projects/{id}/...
		parts := strings.SplitN(path, "/", 2)
		projectID := parts[0]
		sub := ""
		if len(parts) > 1 {
			sub = parts[1]
		}

		switch sub {
		case "":
			if r.Method != http.MethodGet {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h.getProject(w, r, projectID)
		case "query":
			h.query(w, r, projectID)
		case "query/stream":
			h.stream(w, r, projectID)
		case "query/ws":
			h.streamWS(w, r, projectID)
		case "history":
			h.history(w, r, projectID)
		default:
			http.NotFound(w, r)
		}
	})
}

type projectHandler struct {
	deps *Deps
}

// resolveProject looks up a project, writing a 404 on absence. The bool
// reports whether the caller may proceed.
func (h *projectHandler) resolveProject(w http.ResponseWriter, id string) (project.Project, bool) {
	p, ok, err := h.deps.Projects.Get(id)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return project.Project{}, false
	}
	if !ok {
		writeJSONError(w, http.StatusNotFound, "project not found: "+id)
		return project.Project{}, false
	}
	return p, true
}

// --- Project CRUD (thin) ---

func (h *projectHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.deps.Projects.List()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *projectHandler) createProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Name == "" {
		writeJSONError(w, http.StatusBadRequest, "missing field: name")
		return
	}

	p, err := h.deps.Projects.Create(req.Name)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *projectHandler) getProject(w http.ResponseWriter, r *http.Request, projectID string) {
	p, ok := h.resolveProject(w, projectID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- Batch query ---

type queryRequest struct {
	Prompt string `json:"prompt"`
}

func (h *projectHandler) query(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

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

	res, err := h.deps.Sessions.Query(r.Context(), p, req.Prompt, nil)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": res.Events})
}

// --- History ---

func (h *projectHandler) history(w http.ResponseWriter, r *http.Request, projectID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Project existence is checked before the history lookup: an unknown
	// project is a 404, not an empty list.
	if _, ok := h.resolveProject(w, projectID); !ok {
		return
	}

	entries, err := h.deps.Store.LoadHistory(projectID)
	if err != nil {
		log.Printf("handlers: history load for %s: %v", projectID, err)
		entries = []store.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
