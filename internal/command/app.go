// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {

	sd, _ := os.Getwd()

	// The arg[1] immediately following the binary (arg[0]) is the tfboot
	// subcommand and also represents the namespace key to be used when
	// retrieving config values. arg[1] could be -h/--help, so ignore it if it
	// appears to be a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	// allow short if-style local cfg; no actual outer cfg
	cfg, _ := config.Load(ns) //nolint
	m := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		RootDir:     sd,
		StartingDir: sd,
	}

	// The arg immediately following the command is the RootDir positional for
	// every command except 'completion', which takes a plain positional (bash
	// or zsh). main() inserts the CWD when none was supplied.
	if ns != "completion" && len(args) > 2 && !strings.HasPrefix(args[2], "-") {
		rd := args[2]
		if !filepath.IsAbs(rd) {
			rd = filepath.Join(sd, rd)
		}
		if fi, err := os.Stat(rd); err != nil || !fi.IsDir() {
			return nil, fmt.Errorf("failed to resolve rootDir (%s): not a directory", args[2])
		}
		m.RootDir = rd
	}

	app := &cli.Command{
		Name:  "tfboot",
		Usage: "Terraform backend bootstrap",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "tfboot version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		upCommandBuilder(m),
		downCommandBuilder(m),
		stCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}

// GetMeta returns the Meta carried in the command's metadata.
func GetMeta(cmd *cli.Command) meta.Meta {
	return cmd.Metadata["meta"].(meta.Meta)
}
