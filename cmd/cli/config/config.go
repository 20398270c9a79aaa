package config

import (
	"os"
	"path/filepath"
)

const (
	defaultAPIURL    = "http://localhost:8080"
	defaultStateFile = ".blog_cli.json"
)

// APIURL returns the base URL for the blog API.
// It can be overridden with the BLOG_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("BLOG_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// StatePath returns the file that keeps the CLI's cookies between runs.
// It can be overridden with the BLOG_CLI_STATE environment variable.
func StatePath() string {
	if v := os.Getenv("BLOG_CLI_STATE"); v != "" {
		return v
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return defaultStateFile
	}
	return filepath.Join(dir, defaultStateFile)
}
