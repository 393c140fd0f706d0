package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/xai-saliency-mcp/internal/dataset"
)

func TestEvaluateCmd(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	root := filepath.Join(dir, "dataset")
	overlays := filepath.Join(dir, "overlays")
	for _, id := range []string{"080", "090"} {
		savePNG(t, filepath.Join(root, "HGG", "P1", "jpg", "t1ce-"+id+".png"), brainSlice())
		savePNG(t, filepath.Join(overlays, "lime", "P1-t1ce-"+id+".png"),
			fill(240, 240, color.NRGBA{R: 150, G: 200, B: 50, A: 255}))
	}
	// Outside the slice window.
	savePNG(t, filepath.Join(root, "HGG", "P1", "jpg", "t1ce-010.png"), brainSlice())

	out, err := execute(t, "evaluate", "--config", cfg,
		"--dataset", root, "--overlays", overlays,
		"--methods", "lime", "--limit", "0", "--db")
	if err != nil {
		t.Fatalf("evaluate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Lime:\n     Accuracy Score:") {
		t.Errorf("unexpected console output:\n%s", out)
	}

	results := filepath.Join(dir, "results")
	if _, err := os.Stat(filepath.Join(results, "summary.md")); err != nil {
		t.Errorf("summary.md missing: %v", err)
	}
	csvs, _ := filepath.Glob(filepath.Join(results, "lime-*.csv"))
	if len(csvs) != 1 {
		t.Fatalf("expected one lime CSV, got %v", csvs)
	}
	data, err := os.ReadFile(csvs[0])
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 3 {
		t.Errorf("CSV has %d lines, want header + 2 rows:\n%s", lines, data)
	}
	if _, err := os.Stat(filepath.Join(dir, "db", "results.db")); err != nil {
		t.Errorf("results database missing: %v", err)
	}
}

func TestEvaluateCmdRejectsBadFlags(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	if _, err := execute(t, "evaluate", "--config", cfg, "--concurrency", "0"); err == nil {
		t.Error("expected error for zero concurrency")
	}
	if _, err := execute(t, "evaluate", "--config", cfg, "--methods", "occlusion"); err == nil {
		t.Error("expected error for unknown method")
	}
	if _, err := execute(t, "evaluate", "--config", cfg, "--dataset", filepath.Join(dir, "empty")); err == nil {
		t.Error("expected error for a dataset without slices")
	}
}

func TestShapBackground(t *testing.T) {
	var rest []dataset.Sample
	for i := 0; i < 7; i++ {
		rest = append(rest, dataset.Sample{
			ID:   fmt.Sprintf("P%d-t1ce-080", i),
			Path: filepath.Join(t.TempDir(), "missing.png"),
		})
	}

	bg := shapBackground(rest)
	if len(bg) != shapBackgroundSize {
		t.Fatalf("len = %d, want %d", len(bg), shapBackgroundSize)
	}
	for i, s := range bg {
		if s.ID != rest[i].ID {
			t.Errorf("background[%d] = %s, want %s", i, s.ID, rest[i].ID)
		}
		if s.Scan != nil {
			t.Errorf("background[%d] was decoded", i)
		}
	}

	if got := shapBackground(rest[:2]); len(got) != 2 {
		t.Errorf("short pool: len = %d, want 2", len(got))
	}
	if got := shapBackground(nil); len(got) != 0 {
		t.Errorf("empty pool: len = %d", len(got))
	}
}
