// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project bootstraps and enumerates review project directories.
// A project is a directory under the projects root holding the input
// citation files, the results store, and a project.yaml with metadata.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/kevinchung58/LatteReview/pkg/types"
)

const configFile = "project.yaml"

// Subdirectories created for every project.
var projectDirs = []string{"data", "results"}

var (
	invalidChars = regexp.MustCompile(`[^a-zA-Z0-9_\-\s]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Sanitize derives a filesystem-safe project ID from a display name:
// disallowed characters are dropped and whitespace runs become
// underscores. Returns "" when nothing survives.
func Sanitize(name string) string {
	name = strings.TrimSpace(name)
	name = invalidChars.ReplaceAllString(name, "")
	return whitespace.ReplaceAllString(name, "_")
}

// Create builds the directory structure for a new project under root
// and writes its project.yaml. It refuses names that sanitize to
// nothing and IDs that already exist.
func Create(root, name string) (types.ProjectConfig, error) {
	id := Sanitize(name)
	if id == "" {
		return types.ProjectConfig{}, fmt.Errorf("invalid project name %q", name)
	}

	dir := filepath.Join(root, id)
	if _, err := os.Stat(dir); err == nil {
		return types.ProjectConfig{}, fmt.Errorf("project %q already exists", id)
	}

	for _, sub := range projectDirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return types.ProjectConfig{}, fmt.Errorf("creating project directory: %w", err)
		}
	}

	cfg := types.ProjectConfig{
		Name:      name,
		ID:        id,
		CreatedAt: time.Now().UTC(),
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return types.ProjectConfig{}, fmt.Errorf("marshaling project config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0o644); err != nil {
		return types.ProjectConfig{}, fmt.Errorf("writing project config: %w", err)
	}

	return cfg, nil
}

// Load reads one project's metadata by ID.
func Load(root, id string) (types.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(root, id, configFile))
	if err != nil {
		return types.ProjectConfig{}, fmt.Errorf("reading project config: %w", err)
	}
	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.ProjectConfig{}, fmt.Errorf("parsing project config: %w", err)
	}
	return cfg, nil
}

// List enumerates the projects under root, sorted by display name.
// Directories without a parseable project.yaml are listed under their
// directory name so a damaged config never hides a project.
func List(root string) ([]types.ProjectConfig, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects root: %w", err)
	}

	var projects []types.ProjectConfig
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfg, err := Load(root, entry.Name())
		if err != nil {
			cfg = types.ProjectConfig{Name: entry.Name(), ID: entry.Name()}
		}
		projects = append(projects, cfg)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// DataDir returns the project's input-data directory.
func DataDir(root, id string) string {
	return filepath.Join(root, id, "data")
}

// ResultsDir returns the project's results directory.
func ResultsDir(root, id string) string {
	return filepath.Join(root, id, "results")
}
