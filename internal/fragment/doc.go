// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fragment generates and parses the backend.tf configuration
// fragment. The fragment has exactly two shapes: remote (an active s3
// backend block) or local (the block commented out). Its content must always
// reflect the currently intended backend, so writes replace the whole file.
package fragment
