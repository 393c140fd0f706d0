// Package saliency scores how well an explanation image highlights the
// tumour region of the scan it explains.
//
// Each pixel of an explanation is classified as positive, negative or
// neutral according to the colour rule of the explanation method that
// produced it (LIME, SHAP or Grad-CAM). Counting classes over the whole
// image and over the located tumour region yields confusion counts, from
// which precision, recall, accuracy and F1 are derived.
//
// # Errors
//
// Classification rejects pixels that are not exactly three components with
// ErrInvalidPixelFormat; alpha must be stripped first. Divisions by zero in
// score formulas are not errors and produce 0.
//
// # Thread Safety
//
// All functions are pure. An Analyser computes its results once in
// NewAnalyser and is read-only afterwards.
package saliency
