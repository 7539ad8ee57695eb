package staticactivity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"famiverse/internal/app/ports"
)

func TestProvider_Summary(t *testing.T) {
	root := t.TempDir()
	payload := `{"categories":{"sports":12,"art":3},"dominant_category":"sports"}`
	if err := os.WriteFile(filepath.Join(root, "u1.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	p := Provider{Root: root}
	summary, err := p.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if summary.DominantCategory != "sports" {
		t.Fatalf("unexpected dominant category %q", summary.DominantCategory)
	}
	if summary.Categories["art"] != 3 {
		t.Fatalf("unexpected categories %v", summary.Categories)
	}
}

func TestProvider_SummaryDerivesDominant(t *testing.T) {
	root := t.TempDir()
	payload := `{"categories":{"music":5,"tech":9}}`
	if err := os.WriteFile(filepath.Join(root, "u1.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	p := Provider{Root: root}
	summary, err := p.Summary(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if summary.DominantCategory != "tech" {
		t.Fatalf("expected tech dominant, got %q", summary.DominantCategory)
	}
}

func TestProvider_SummaryMissingUser(t *testing.T) {
	p := Provider{Root: t.TempDir()}
	if _, err := p.Summary(context.Background(), "ghost"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProvider_SummaryRejectsPathTraversal(t *testing.T) {
	p := Provider{Root: t.TempDir()}
	if _, err := p.Summary(context.Background(), "../outside"); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}
