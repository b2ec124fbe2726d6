package prompt

import (
	"strings"
	"testing"
)

func TestBuild(t *testing.T) {
	t.Run("contains project identity", func(t *testing.T) {
		out := Build("id-123", "demo", "/tmp/demo", "")
		if !strings.Contains(out, `"demo"`) {
			t.Errorf("expected project name in prompt, got:\n%s", out)
		}
		if !strings.Contains(out, "id-123") {
			t.Error("expected project id in prompt")
		}
		if !strings.Contains(out, "/tmp/demo") {
			t.Error("expected project path in prompt")
		}
	})

	t.Run("rules come first", func(t *testing.T) {
		out := Build("id", "p", "/p", "")
		if !strings.HasPrefix(out, baseRules) {
			t.Error("expected prompt to start with the base rules")
		}
	})

	t.Run("instructions last", func(t *testing.T) {
		out := Build("id", "p", "/p", "Always answer in French.")
		idx := strings.Index(out, "## Project-specific instructions")
		if idx < 0 {
			t.Fatal("expected instructions section")
		}
		if !strings.HasSuffix(out, "Always answer in French.") {
			t.Error("expected instructions verbatim at the end")
		}
		if idx < strings.Index(out, "/p") {
			t.Error("expected instructions after the project identity block")
		}
	})

	t.Run("no instructions section when empty", func(t *testing.T) {
		out := Build("id", "p", "/p", "")
		if strings.Contains(out, "Project-specific instructions") {
			t.Error("unexpected instructions section for empty instructions")
		}
	})

	t.Run("pure function", func(t *testing.T) {
		a := Build("id", "p", "/p", "x")
		b := Build("id", "p", "/p", "x")
		if a != b {
			t.Error("expected identical output for identical input")
		}
	})
}
