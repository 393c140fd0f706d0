package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ironsheep/xai-saliency-mcp/internal/detection"
	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// AppName is used for XDG directory paths.
const AppName = "xai-saliency"

// Defaults for the evaluation pipeline.
const (
	DefaultFirstSlice = 70
	DefaultLastSlice  = 110
	DefaultLimit      = 100
	DefaultSeed       = 3
	DefaultLogLevel   = "info"
)

// DatasetConfig selects the scans to evaluate.
type DatasetConfig struct {
	// Root is the dataset root holding <grade>/<patient>/jpg/*.jpg.
	Root string `yaml:"root"`

	// FirstSlice and LastSlice bound the slice numbers used (inclusive).
	// Slices outside the window rarely show tumour tissue.
	FirstSlice int `yaml:"first_slice"`
	LastSlice  int `yaml:"last_slice"`

	// Limit caps the number of samples after shuffling; 0 means all.
	Limit int `yaml:"limit"`

	// Seed drives the shuffle so runs are reproducible.
	Seed int64 `yaml:"seed"`
}

// OutputConfig controls where results are written.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	CSV      bool   `yaml:"csv"`
	Markdown bool   `yaml:"markdown"`

	// Database enables the SQLite results history in DBDir.
	Database bool   `yaml:"database"`
	DBDir    string `yaml:"db_dir"`
}

// Config is the full evaluator configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`

	// OverlaysDir holds pre-rendered explanations as <method>/<id>.png.
	OverlaysDir string `yaml:"overlays_dir"`

	// Methods lists the explanation methods to evaluate by name.
	Methods []string `yaml:"methods"`

	Detector       detection.HoughParams `yaml:"detector"`
	WhiteThreshold uint8                 `yaml:"white_threshold"`

	// ImageSize is the edge length scans are prepared to.
	ImageSize int `yaml:"image_size"`

	Concurrency    int          `yaml:"concurrency"`
	Output         OutputConfig `yaml:"output"`
	HighlightColor string       `yaml:"highlight_color"`
	LogLevel       string       `yaml:"log_level"`
}

// Default returns a configuration with every field set.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Root:       "dataset",
			FirstSlice: DefaultFirstSlice,
			LastSlice:  DefaultLastSlice,
			Limit:      DefaultLimit,
			Seed:       DefaultSeed,
		},
		OverlaysDir:    "overlays",
		Methods:        []string{"lime", "shap", "gradcam"},
		Detector:       detection.DefaultHoughParams(),
		WhiteThreshold: detection.DefaultWhiteThreshold,
		ImageSize:      imaging.DefaultScanSize,
		Concurrency:    4,
		Output: OutputConfig{
			Dir:      "results",
			CSV:      true,
			Markdown: true,
			Database: false,
			DBDir:    XDGDataDir(),
		},
		HighlightColor: imaging.DefaultHighlightColor,
		LogLevel:       DefaultLogLevel,
	}
}

// XDGDataDir returns the data directory, e.g. ~/.local/share/xai-saliency.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the config directory, e.g. ~/.config/xai-saliency.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// ParsedMethods converts Methods to saliency methods, dropping duplicates.
func (c *Config) ParsedMethods() ([]saliency.Method, error) {
	seen := make(map[saliency.Method]bool)
	var out []saliency.Method
	for _, name := range c.Methods {
		m, err := saliency.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// Locator builds a tumour locator from the detector settings.
func (c *Config) Locator() *detection.Locator {
	return detection.NewLocator(detection.NewDetector(c.Detector), detection.NewReducer(c.WhiteThreshold))
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Dataset.FirstSlice < 0 || c.Dataset.FirstSlice > c.Dataset.LastSlice {
		return ErrInvalidSliceWindow
	}
	if c.ImageSize <= 0 {
		return ErrInvalidImageSize
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	d := c.Detector
	switch {
	case d.DP <= 0:
		return fmt.Errorf("%w: dp must be positive", ErrInvalidDetector)
	case d.MinRadius < 0 || d.MaxRadius < d.MinRadius:
		return fmt.Errorf("%w: radius window [%d, %d]", ErrInvalidDetector, d.MinRadius, d.MaxRadius)
	case d.BlurSize <= 0:
		return fmt.Errorf("%w: blur size must be positive", ErrInvalidDetector)
	}

	if len(c.Methods) == 0 {
		return ErrNoMethods
	}
	if _, err := c.ParsedMethods(); err != nil {
		return err
	}
	if _, err := imaging.ParseHexColor(c.HighlightColor); err != nil {
		return fmt.Errorf("highlight color: %w", err)
	}
	return nil
}
