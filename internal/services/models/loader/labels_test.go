package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/herowiki/internal/services/models/entity"
)

func TestParseLabels(t *testing.T) {
	t.Parallel()

	labels, err := ParseLabels([]byte(`
heroes:
  aria:
    winter_2023: Winter Wonderland
bosses:
  ignis:
    phase1: Smoldering Form
    phase2: Ashen Form
`))
	if err != nil {
		t.Fatalf("ParseLabels: %v", err)
	}
	if got := labels.For(entity.Ref{Kind: entity.KindHero, ID: "aria"})["winter_2023"]; got != "Winter Wonderland" {
		t.Fatalf("hero label = %q", got)
	}
	if got := labels.For(entity.Ref{Kind: entity.KindBoss, ID: "ignis"})["phase2"]; got != "Ashen Form" {
		t.Fatalf("boss label = %q", got)
	}
	if labels.For(entity.Ref{Kind: entity.KindBoss, ID: "aria"}) != nil {
		t.Fatal("hero labels must not leak into bosses")
	}
	if labels.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", labels.Len())
	}
}

func TestParseLabelsEmptyAndInvalid(t *testing.T) {
	t.Parallel()

	labels, err := ParseLabels(nil)
	if err != nil {
		t.Fatalf("ParseLabels(nil): %v", err)
	}
	if labels.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", labels.Len())
	}

	if _, err := ParseLabels([]byte("boss:\n  ignis: {}\n")); err == nil {
		t.Fatal("expected unknown section error")
	}
	if _, err := ParseLabels([]byte("heroes: [aria]\n")); err == nil {
		t.Fatal("expected shape error")
	}
}

func TestLoadLabels(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if labels, err := LoadLabels(""); err != nil || labels.Len() != 0 {
		t.Fatalf("LoadLabels(blank) = %+v, %v", labels, err)
	}
	if labels, err := LoadLabels(filepath.Join(dir, "missing.yaml")); err != nil || labels.Len() != 0 {
		t.Fatalf("LoadLabels(missing) = %+v, %v", labels, err)
	}

	path := filepath.Join(dir, "labels.yaml")
	if err := os.WriteFile(path, []byte("heroes:\n  aria:\n    default: Classic\n"), 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	labels, err := LoadLabels(path)
	if err != nil {
		t.Fatalf("LoadLabels: %v", err)
	}
	if labels.Heroes["aria"]["default"] != "Classic" {
		t.Fatalf("labels = %+v", labels)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("heroes: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write labels: %v", err)
	}
	if _, err := LoadLabels(bad); err == nil {
		t.Fatal("expected malformed labels error")
	}
}
