// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fragment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeek(t *testing.T) {
	tests := []struct {
		name     string
		tfstate  string
		expected string
	}{
		{
			name:     "s3 backend",
			tfstate:  `{"version": 3, "backend": {"type": "s3", "config": {}}}`,
			expected: "s3",
		},
		{
			name:     "other backend",
			tfstate:  `{"version": 3, "backend": {"type": "gcs"}}`,
			expected: "gcs",
		},
		{
			name:     "no backend key",
			tfstate:  `{"version": 3}`,
			expected: "",
		},
		{
			name:     "garbage",
			tfstate:  "not json at all",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootDir := t.TempDir()
			require.NoError(t, os.MkdirAll(filepath.Join(rootDir, ".terraform"), 0o755))
			require.NoError(t, os.WriteFile(
				filepath.Join(rootDir, ".terraform", "terraform.tfstate"),
				[]byte(tt.tfstate), 0o644))

			assert.Equal(t, tt.expected, Peek(rootDir))
		})
	}
}

func TestPeekUninitializedWorkspace(t *testing.T) {
	assert.Equal(t, "", Peek(t.TempDir()))
}
