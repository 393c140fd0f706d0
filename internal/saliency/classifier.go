package saliency

import (
	"errors"
	"fmt"
)

// ErrInvalidPixelFormat is returned when a pixel does not have exactly three
// components. Callers must strip alpha before classifying.
var ErrInvalidPixelFormat = errors.New("invalid pixel format")

// Class is the saliency class of a single explanation pixel.
type Class int

const (
	// Neutral pixels have R == G == B and carry no directional signal.
	Neutral Class = iota
	// Positive pixels support the "tumour present" decision.
	Positive
	// Negative pixels oppose it.
	Negative
)

func (c Class) String() string {
	switch c {
	case Neutral:
		return "neutral"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// positiveRule reports whether a non-neutral pixel supports the decision.
type positiveRule func(r, g, b uint8) bool

// positiveRules holds one predicate per method. A new explanation method
// only needs a new entry here.
var positiveRules = map[Method]positiveRule{
	// Green dominant.
	LIME: func(r, g, b uint8) bool { return g > r && g > b },
	// Red dominant.
	SHAP: func(r, g, b uint8) bool { return r > b && r > g },
	// Warm side of viridis: yellow-green with a strong red channel.
	GradCAM: func(r, g, b uint8) bool { return r > b && g > b && r >= 160 && g <= 160 },
}

func checkFormat(components []uint8) error {
	if len(components) != 3 {
		return fmt.Errorf("%w: got %d components, want 3", ErrInvalidPixelFormat, len(components))
	}
	return nil
}

// IsNeutral reports whether all three components are equal.
func IsNeutral(components []uint8) (bool, error) {
	if err := checkFormat(components); err != nil {
		return false, err
	}
	return components[0] == components[1] && components[1] == components[2], nil
}

// Classify assigns a class to an RGB pixel for the given method.
//
// Neutrality is checked first and is the same for every method. A pixel
// with four components is rejected, never silently truncated.
func Classify(components []uint8, m Method) (Class, error) {
	rule, ok := positiveRules[m]
	if !ok {
		return Neutral, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	neutral, err := IsNeutral(components)
	if err != nil {
		return Neutral, err
	}
	if neutral {
		return Neutral, nil
	}
	if rule(components[0], components[1], components[2]) {
		return Positive, nil
	}
	return Negative, nil
}
