// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config loads the optional tfboot.yaml file from the user config
// directory and exposes typed getters over dotted key paths, with optional
// per-command namespacing.
package config
