// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfboot/tfboot/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the resolved root directory (where the
// backend.tf fragment lives), and the starting working directory.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	RootDir     string
	StartingDir string
}
