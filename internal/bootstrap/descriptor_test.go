// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketName(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		accountID string
		region    string
		expected  string
	}{
		{
			name:      "defaults",
			prefix:    "terraform-state",
			accountID: "123456789012",
			region:    "eu-north-1",
			expected:  "terraform-state-123456789012-eu-north-1",
		},
		{
			name:      "custom prefix",
			prefix:    "acme-tfstate",
			accountID: "999999999999",
			region:    "us-east-1",
			expected:  "acme-tfstate-999999999999-us-east-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BucketName(tt.prefix, tt.accountID, tt.region)
			assert.Equal(t, tt.expected, got)

			// Same inputs, same name. Nothing random or time-based.
			assert.Equal(t, got, BucketName(tt.prefix, tt.accountID, tt.region))
		})
	}
}

func TestStateKey(t *testing.T) {
	assert.Equal(t, "eks-cluster/terraform.tfstate", StateKey)
}
