// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "DiabetesReview", "DiabetesReview"},
		{"spaces to underscores", "My  Review   2024", "My_Review_2024"},
		{"strips punctuation", "ML/AI: screening!", "MLAI_screening"},
		{"trims whitespace", "  padded  ", "padded"},
		{"nothing survives", "///???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestCreateBuildsStructure(t *testing.T) {
	root := t.TempDir()

	cfg, err := Create(root, "Diabetes Screening 2024")
	require.NoError(t, err)
	assert.Equal(t, "Diabetes Screening 2024", cfg.Name)
	assert.Equal(t, "Diabetes_Screening_2024", cfg.ID)
	assert.False(t, cfg.CreatedAt.IsZero())

	for _, sub := range []string{"data", "results"} {
		info, err := os.Stat(filepath.Join(root, cfg.ID, sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	loaded, err := Load(root, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.Name, loaded.Name)
	assert.Equal(t, cfg.ID, loaded.ID)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	root := t.TempDir()

	_, err := Create(root, "Same Project")
	require.NoError(t, err)

	_, err = Create(root, "Same   Project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateRejectsEmptyName(t *testing.T) {
	_, err := Create(t.TempDir(), "///")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid project name")
}

func TestListSortsByName(t *testing.T) {
	root := t.TempDir()

	_, err := Create(root, "Zebra Review")
	require.NoError(t, err)
	_, err = Create(root, "Aardvark Review")
	require.NoError(t, err)

	projects, err := List(root)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Aardvark Review", projects[0].Name)
	assert.Equal(t, "Zebra Review", projects[1].Name)
}

func TestListToleratesDamagedConfig(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "orphan"), 0o755))

	projects, err := List(root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "orphan", projects[0].ID)
	assert.Equal(t, "orphan", projects[0].Name)
}

func TestListMissingRoot(t *testing.T) {
	projects, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, projects)
}
