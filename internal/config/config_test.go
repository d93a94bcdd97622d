// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// setupTestConfig sets TFBOOT_CFG_FILE to point to a test config file.
// Returns cleanup function that should be deferred.
func setupTestConfig(t *testing.T, testdataFile string) (cleanup func()) {
	t.Helper()

	configPath := filepath.Join("testdata", testdataFile)
	absPath, err := filepath.Abs(configPath)
	assert.NoError(t, err, "failed to get absolute path for test config")

	t.Setenv("TFBOOT_CFG_FILE", absPath)

	// Reset the global Config to force reload
	Config = Type{}

	return func() {
		Config = Type{}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		testFile  string
		namespace []string
		checkFunc func(*testing.T, Type)
	}{
		{
			name:     "simple string values",
			testFile: "simple.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.NotEmpty(t, cfg.Source)
				assert.Equal(t, "us-east-1", cfg.Data["region"])
				assert.Equal(t, "acme-tfstate", cfg.Data["bucket-prefix"])
			},
		},
		{
			name:      "namespace is recorded",
			testFile:  "namespaced.yaml",
			namespace: []string{"up"},
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "up", cfg.Namespace)
			},
		},
		{
			name:     "mixed types",
			testFile: "mixed-types.yaml",
			checkFunc: func(t *testing.T, cfg Type) {
				assert.Equal(t, "test-project", cfg.Data["name"])
				assert.Equal(t, 1, cfg.Data["version"])
				assert.Equal(t, true, cfg.Data["enabled"])
				assert.Equal(t, 30.5, cfg.Data["timeout"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			cfg, err := Load(tt.namespace...)
			assert.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Setenv("TFBOOT_CFG_FILE", "/nonexistent/path/tfboot.yaml")
	Config = Type{}
	defer func() { Config = Type{} }()

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_TFBOOT_CFG_FILE_IsDirectory(t *testing.T) {
	t.Setenv("TFBOOT_CFG_FILE", "testdata")
	Config = Type{}
	defer func() { Config = Type{} }()

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "points to a directory")
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		namespace    []string
		key          string
		defaultValue []string
		want         string
		wantErr      bool
	}{
		{
			name:     "simple string value",
			testFile: "simple.yaml",
			key:      "region",
			want:     "us-east-1",
		},
		{
			name:      "namespaced value preferred",
			testFile:  "namespaced.yaml",
			namespace: []string{"up"},
			key:       "region",
			want:      "eu-north-1",
		},
		{
			name:      "falls back to unnamespaced",
			testFile:  "namespaced.yaml",
			namespace: []string{"down"},
			key:       "table",
			want:      "terraform-locks",
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []string{"default-value"},
			want:         "default-value",
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-string value",
			testFile: "mixed-types.yaml",
			key:      "version",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			_, _ = Load(tt.namespace...)

			got, err := GetString(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		name         string
		testFile     string
		key          string
		defaultValue []int
		want         int
		wantErr      bool
	}{
		{
			name:     "int value",
			testFile: "mixed-types.yaml",
			key:      "version",
			want:     1,
		},
		{
			name:     "float value converted to int",
			testFile: "mixed-types.yaml",
			key:      "timeout",
			want:     30,
		},
		{
			name:     "padding",
			testFile: "simple.yaml",
			key:      "padding",
			want:     2,
		},
		{
			name:         "missing key with default",
			testFile:     "simple.yaml",
			key:          "missing",
			defaultValue: []int{60},
			want:         60,
		},
		{
			name:     "missing key without default",
			testFile: "simple.yaml",
			key:      "missing",
			wantErr:  true,
		},
		{
			name:     "non-int value",
			testFile: "simple.yaml",
			key:      "region",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestConfig(t, tt.testFile)
			defer cleanup()

			_, _ = Load()

			got, err := GetInt(tt.key, tt.defaultValue...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_GetWithNamespace(t *testing.T) {
	cleanup := setupTestConfig(t, "namespaced.yaml")
	defer cleanup()
	_, _ = Load()

	Config.Namespace = "up"

	val, err := Config.get("region")
	assert.NoError(t, err)
	assert.Equal(t, "eu-north-1", val)

	val, err = Config.get("table")
	assert.NoError(t, err)
	assert.Equal(t, "team-locks", val)

	Config.Namespace = "down"
	val, err = Config.get("region")
	assert.NoError(t, err)
	assert.Equal(t, "us-west-2", val)

	// Not set under "down", falls back to the top level.
	val, err = Config.get("table")
	assert.NoError(t, err)
	assert.Equal(t, "terraform-locks", val)

	_, err = Config.get("nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no valid path found")
}
