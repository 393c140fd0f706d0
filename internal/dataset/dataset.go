// Package dataset enumerates the MRI slices used in an evaluation run.
//
// The expected layout is BraTS-style:
//
//	<root>/<grade>/<patient>/jpg/<name>-NNN.jpg
//
// where NNN is the slice number. Only slices inside the configured window
// are used since slices near the top and bottom of a volume rarely show
// tumour tissue. Files placed directly in any directory are also accepted
// as long as their name carries a slice number.
package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoSamples is returned when a dataset root holds no usable slices.
var ErrNoSamples = errors.New("no samples found")

// Sample is one MRI slice on disk.
type Sample struct {
	// ID is unique within a dataset: <patient>-<file stem>, or just the
	// stem for files outside a patient's jpg directory.
	ID    string `json:"id"`
	Path  string `json:"path"`
	Slice int    `json:"slice"`
}

// Window is an inclusive slice number range.
type Window struct {
	First, Last int
}

// Contains reports whether slice n lies in the window.
func (w Window) Contains(n int) bool {
	return n >= w.First && n <= w.Last
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Discover walks root and returns every slice inside w, sorted by ID.
func Discover(root string, w Window) ([]Sample, error) {
	var samples []Sample
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		s, ok := parseSample(path)
		if !ok || !w.Contains(s.Slice) {
			return nil
		}
		samples = append(samples, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan dataset %s: %w", root, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w in %s (slices %d-%d)", ErrNoSamples, root, w.First, w.Last)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].ID < samples[j].ID
	})
	return samples, nil
}

// parseSample extracts the ID and slice number from a file path.
func parseSample(path string) (Sample, bool) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	dash := strings.LastIndexByte(stem, '-')
	if dash < 0 || dash == len(stem)-1 {
		return Sample{}, false
	}
	n, err := strconv.Atoi(stem[dash+1:])
	if err != nil || n < 0 {
		return Sample{}, false
	}

	id := stem
	dir := filepath.Dir(path)
	if strings.EqualFold(filepath.Base(dir), "jpg") {
		if patient := filepath.Base(filepath.Dir(dir)); patient != "." && patient != string(filepath.Separator) {
			id = patient + "-" + stem
		}
	}
	return Sample{ID: id, Path: path, Slice: n}, true
}

// Select shuffles samples with rng and keeps at most limit of them. A limit
// of 0 or less keeps all. The input slice is not modified.
func Select(samples []Sample, rng *rand.Rand, limit int) []Sample {
	out := append([]Sample(nil), samples...)
	if rng != nil {
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Load discovers samples under root, shuffles them with seed and returns
// up to limit of them. rest holds the remaining shuffled samples, which
// callers may use as a background set disjoint from the selection.
func Load(root string, w Window, seed int64, limit int) (selected, rest []Sample, err error) {
	samples, err := Discover(root, w)
	if err != nil {
		return nil, nil, err
	}
	shuffled := Select(samples, rand.New(rand.NewSource(seed)), 0)
	n := len(shuffled)
	if limit > 0 && limit < n {
		n = limit
	}
	return shuffled[:n:n], shuffled[n:], nil
}
