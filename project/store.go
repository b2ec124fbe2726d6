package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// projectSkeleton is the directory layout created inside each new project.
var projectSkeleton = []string{"downloads", "scripts", "data"}

// Store persists project metadata in a single JSON file keyed by project ID
// and owns the project directories under projectsDir.
type Store struct {
	mu          sync.Mutex
	file        string
	projectsDir string
}

// NewStore creates a store backed by the given metadata file. Project
// directories are created under projectsDir.
func NewStore(file, projectsDir string) *Store {
	return &Store{file: file, projectsDir: projectsDir}
}

// Get returns the project with the given ID.
func (s *Store) Get(id string) (Project, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load()
	if err != nil {
		return Project{}, false, err
	}
	p, ok := projects[id]
	return p, ok, nil
}

// List returns all projects, oldest first.
func (s *Store) List() ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Create registers a new project and creates its directory skeleton.
func (s *Store) Create(name string) (Project, error) {
	dirName := sanitizeName(name)
	if dirName == "" {
		return Project{}, fmt.Errorf("invalid project name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load()
	if err != nil {
		return Project{}, err
	}
	// Uniqueness is enforced on the sanitized directory name, not the display
	// name: two names that collapse to the same directory would otherwise
	// share one root and break per-project file isolation.
	for _, p := range projects {
		if p.Name == name || filepath.Base(p.Path) == dirName {
			return Project{}, fmt.Errorf("project %q already exists", name)
		}
	}

	path := filepath.Join(s.projectsDir, dirName)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Project{}, fmt.Errorf("create project directory: %w", err)
	}
	for _, sub := range projectSkeleton {
		if err := os.MkdirAll(filepath.Join(path, sub), 0o755); err != nil {
			return Project{}, fmt.Errorf("create project directory: %w", err)
		}
	}

	p := Project{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		CreatedAt: time.Now().UTC(),
	}
	projects[p.ID] = p
	if err := s.save(projects); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Instructions reads the project's instruction file. Absence is not an
// error; the contents, if present, go verbatim into the system prompt.
func Instructions(p Project) string {
	data, err := os.ReadFile(filepath.Join(p.Path, InstructionFile))
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *Store) load() (map[string]Project, error) {
	data, err := os.ReadFile(s.file)
	if os.IsNotExist(err) {
		return map[string]Project{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read project store: %w", err)
	}
	var projects map[string]Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("parse project store: %w", err)
	}
	if projects == nil {
		projects = map[string]Project{}
	}
	return projects, nil
}

// save rewrites the metadata file atomically (temp file + rename).
func (s *Store) save(projects map[string]Project) error {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project store: %w", err)
	}

	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write project store: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".projects-*")
	if err != nil {
		return fmt.Errorf("write project store: %w", err)
	}
	tmpName := tmp.Name()
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write project store: %w", err)
	}
	if err := os.Rename(tmpName, s.file); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write project store: %w", err)
	}
	return nil
}

// sanitizeName maps a display name to a directory-safe form.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
