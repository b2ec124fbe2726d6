package project

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "projects.json"), filepath.Join(dir, "projects"))
}

func TestStore_Create(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Create("My Project")
	if err != nil {
		t.Fatal(err)
	}
	if p.ID == "" {
		t.Error("expected a generated id")
	}
	if p.Name != "My Project" {
		t.Errorf("display name must be kept verbatim, got %q", p.Name)
	}
	if filepath.Base(p.Path) != "my-project" {
		t.Errorf("expected sanitized directory name, got %s", p.Path)
	}

	// Skeleton directories exist.
	for _, sub := range []string{"downloads", "scripts", "data"} {
		if info, err := os.Stat(filepath.Join(p.Path, sub)); err != nil || !info.IsDir() {
			t.Errorf("missing skeleton directory %s", sub)
		}
	}
}

func TestStore_CreateDuplicateName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Create("demo"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create("demo"); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestStore_CreateCollidingDirName(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Create("My Project")
	if err != nil {
		t.Fatal(err)
	}

	// Distinct display names that sanitize to the same directory must be
	// rejected, or two projects would share one root.
	if _, err := s.Create("my project"); err == nil {
		t.Fatal("expected error for colliding directory name")
	}
	if _, err := s.Create("MY-PROJECT"); err == nil {
		t.Fatal("expected error for colliding directory name")
	}

	list, _ := s.List()
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("expected only the first project to exist, got %d", len(list))
	}
}

func TestStore_CreateInvalidName(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"", "   ", "!!!"} {
		if _, err := s.Create(name); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestStore_GetAndList(t *testing.T) {
	s := newTestStore(t)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("expected absent project, got ok=%v err=%v", ok, err)
	}

	a, _ := s.Create("alpha")
	b, _ := s.Create("beta")

	got, ok, err := s.Get(a.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Name != "alpha" {
		t.Errorf("unexpected project %+v", got)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Error("expected oldest-first ordering")
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "projects.json")
	projectsDir := filepath.Join(dir, "projects")

	s1 := NewStore(file, projectsDir)
	p, err := s1.Create("demo")
	if err != nil {
		t.Fatal(err)
	}

	s2 := NewStore(file, projectsDir)
	got, ok, err := s2.Get(p.ID)
	if err != nil || !ok {
		t.Fatalf("expected persisted project, ok=%v err=%v", ok, err)
	}
	if got.Path != p.Path {
		t.Errorf("expected path %s, got %s", p.Path, got.Path)
	}
}

func TestInstructions(t *testing.T) {
	dir := t.TempDir()
	p := Project{Path: dir}

	if got := Instructions(p); got != "" {
		t.Fatalf("expected empty instructions for missing file, got %q", got)
	}

	os.WriteFile(filepath.Join(dir, InstructionFile), []byte("be brief"), 0o644)
	if got := Instructions(p); got != "be brief" {
		t.Fatalf("expected file contents, got %q", got)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"My Project":  "my-project",
		"data_2":      "data_2",
		"  trimmed  ": "trimmed",
		"Weird!@#":    "weird",
	}
	for in, want := range cases {
		if got := sanitizeName(in); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
