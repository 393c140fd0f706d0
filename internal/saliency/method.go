package saliency

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned for an explanation method name or value
// outside the supported set.
var ErrUnknownMethod = errors.New("unknown explanation method")

// Method identifies the explanation technique that produced a saliency
// image. The tag travels with the image; it is never inferred from the
// producer's type name.
type Method int

const (
	// LIME marks supporting superpixels green.
	LIME Method = iota
	// SHAP marks supporting pixels red.
	SHAP
	// GradCAM renders activation strength with the viridis colormap.
	GradCAM
)

// Methods lists every supported method in a stable order.
func Methods() []Method {
	return []Method{LIME, SHAP, GradCAM}
}

var methodNames = map[Method]string{
	LIME:    "lime",
	SHAP:    "shap",
	GradCAM: "gradcam",
}

var methodDisplayNames = map[Method]string{
	LIME:    "LIME",
	SHAP:    "SHAP",
	GradCAM: "Grad-CAM",
}

// String returns the canonical lower-case identifier.
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// DisplayName returns the human readable name, e.g. "Grad-CAM".
func (m Method) DisplayName() string {
	if name, ok := methodDisplayNames[m]; ok {
		return name
	}
	return m.String()
}

// Valid reports whether m is one of Methods.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

// ParseMethod converts a method identifier to a Method. Matching ignores
// case and surrounding whitespace; "grad-cam" and "grad_cam" are accepted
// as aliases for "gradcam".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lime":
		return LIME, nil
	case "shap":
		return SHAP, nil
	case "gradcam", "grad-cam", "grad_cam":
		return GradCAM, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
