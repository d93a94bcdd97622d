// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fragment

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/tfboot/tfboot/internal/log"
)

// Peek returns the backend type the workspace was last initialized with, read
// from .terraform/terraform.tfstate, or "" when the workspace has never been
// initialized. Setup uses it to warn before switching an initialized
// workspace to a different backend.
func Peek(rootDir string) string {
	raw, err := os.ReadFile(filepath.Join(rootDir, ".terraform", "terraform.tfstate"))
	if err != nil {
		return ""
	}

	typ := gjson.GetBytes(raw, "backend.type").String()
	log.Debugf("peeked backend type: type=%s", typ)
	return typ
}
