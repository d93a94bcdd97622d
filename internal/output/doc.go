// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output renders command results as a text table, JSON, or YAML
// according to the common output flags.
package output
