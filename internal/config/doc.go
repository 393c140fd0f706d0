// Package config loads and validates the evaluator configuration.
//
// Configuration is read from a YAML file. When no path is given the file is
// looked up at $XDG_CONFIG_HOME/xai-saliency/config.yaml; a missing default
// file is not an error and yields Default(). Values present in the file
// override the defaults field by field, and CLI flags override the file.
package config
