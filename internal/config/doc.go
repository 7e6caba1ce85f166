// Package config provides configuration structures and utilities for webcorpus.
// It defines the main configuration options for crawling, seed file loading,
// per-host overrides, and report generation preferences.
package config
