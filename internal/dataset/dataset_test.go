package dataset

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func buildTree(t *testing.T) string {
	root := t.TempDir()
	for _, p := range []string{
		"HGG/Brats18_001/jpg/t1ce-069.jpg",
		"HGG/Brats18_001/jpg/t1ce-070.jpg",
		"HGG/Brats18_001/jpg/t1ce-110.jpg",
		"HGG/Brats18_001/jpg/t1ce-111.jpg",
		"LGG/Brats18_009/jpg/t1ce-085.jpg",
		"LGG/Brats18_009/jpg/notes.txt",
		"LGG/Brats18_009/jpg/cover.jpg",
		"flat-090.png",
	} {
		touch(t, filepath.Join(root, p))
	}
	return root
}

func TestDiscover(t *testing.T) {
	root := buildTree(t)
	got, err := Discover(root, Window{First: 70, Last: 110})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}

	wantIDs := []string{"Brats18_001-t1ce-070", "Brats18_001-t1ce-110", "Brats18_009-t1ce-085", "flat-090"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Discover() = %v, want %d samples", got, len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("sample %d ID = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[2].Slice != 85 {
		t.Errorf("slice = %d, want 85", got[2].Slice)
	}
}

func TestDiscoverEmpty(t *testing.T) {
	root := buildTree(t)
	if _, err := Discover(root, Window{First: 200, Last: 210}); !errors.Is(err, ErrNoSamples) {
		t.Errorf("error = %v, want ErrNoSamples", err)
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "absent"), Window{First: 0, Last: 1}); err == nil {
		t.Error("Discover() on missing root returned no error")
	}
}

func TestSelectDeterministic(t *testing.T) {
	samples := make([]Sample, 20)
	for i := range samples {
		samples[i] = Sample{ID: string(rune('a' + i))}
	}

	a := Select(samples, rand.New(rand.NewSource(3)), 5)
	b := Select(samples, rand.New(rand.NewSource(3)), 5)
	if len(a) != 5 {
		t.Fatalf("len = %d, want 5", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed gave different order: %v vs %v", a, b)
		}
	}
	if samples[0].ID != "a" || samples[19].ID != "t" {
		t.Error("Select modified its input")
	}
}

func TestSelectNoLimit(t *testing.T) {
	samples := []Sample{{ID: "x"}, {ID: "y"}}
	if got := Select(samples, nil, 0); len(got) != 2 || got[0].ID != "x" {
		t.Errorf("Select() = %v", got)
	}
}

func TestLoad(t *testing.T) {
	root := buildTree(t)
	got, rest, err := Load(root, Window{First: 70, Last: 110}, 3, 2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	all, err := Discover(root, Window{First: 70, Last: 110})
	if err != nil {
		t.Fatal(err)
	}
	if len(got)+len(rest) != len(all) {
		t.Errorf("selected %d + rest %d != %d discovered", len(got), len(rest), len(all))
	}
	seen := make(map[string]bool)
	for _, s := range got {
		seen[s.ID] = true
	}
	for _, s := range rest {
		if seen[s.ID] {
			t.Errorf("%s is both selected and in rest", s.ID)
		}
	}

	again, _, err := Load(root, Window{First: 70, Last: 110}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range got {
		if got[i] != again[i] {
			t.Errorf("same seed gave a different selection: %v vs %v", got, again)
			break
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{First: 70, Last: 110}
	for n, want := range map[int]bool{69: false, 70: true, 90: true, 110: true, 111: false} {
		if w.Contains(n) != want {
			t.Errorf("Contains(%d) = %v", n, !want)
		}
	}
}
