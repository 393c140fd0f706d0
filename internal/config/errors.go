package config

import "errors"

// Validation and loading errors. Validate returns the first problem found.
var (
	// ErrConfigNotFound is returned when an explicitly requested file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidSliceWindow is returned when the slice window is empty or negative.
	ErrInvalidSliceWindow = errors.New("invalid slice window: first slice must be >= 0 and <= last slice")

	// ErrInvalidImageSize is returned when the prepared scan size is not positive.
	ErrInvalidImageSize = errors.New("invalid image size: must be positive")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidDetector is returned for detector parameters that cannot work.
	ErrInvalidDetector = errors.New("invalid detector parameters")

	// ErrNoMethods is returned when no explanation method is selected.
	ErrNoMethods = errors.New("no explanation methods selected")
)
