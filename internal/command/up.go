// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	awsx "github.com/tfboot/tfboot/internal/aws"
	"github.com/tfboot/tfboot/internal/bootstrap"
	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/fragment"
	"github.com/tfboot/tfboot/internal/meta"
	"github.com/tfboot/tfboot/internal/output"
)

// upCommandAction is the action handler for the "up" subcommand. It converges
// the state bucket and lock table and writes the backend.tf fragment.
func upCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "up"

	// An initialized workspace pointing somewhere else deserves a heads-up
	// before we rewrite its fragment.
	if typ := fragment.Peek(m.RootDir); typ != "" && typ != "s3" {
		log.Warnf("workspace is initialized with a %s backend; a state migration will be needed after this", typ)
	}

	region := cmd.String("region")
	cfgOpts := []awsx.Option{awsx.WithRegion(region)}
	if profile := cmd.String("profile"); profile != "" {
		cfgOpts = append(cfgOpts, awsx.WithProfile(profile))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	p, err := bootstrap.New(
		bootstrap.FromConfig(cfg),
		bootstrap.WithNames(cmd.String("bucket-prefix"), region, cmd.String("table")),
	)
	if err != nil {
		return err
	}

	desc, err := p.Ensure(ctx)
	if err != nil {
		return err
	}

	if err := fragment.WriteRemote(fragment.Path(m.RootDir), desc); err != nil {
		return err
	}

	rows := []map[string]interface{}{{
		"bucket": desc.Bucket,
		"table":  desc.Table,
		"region": desc.Region,
		"key":    desc.Key,
	}}
	output.Spit(rows, []string{"bucket", "table", "region", "key"}, cmd, os.Stdout)

	return nil
}

// upCommandBuilder constructs the cli.Command for "up", wiring metadata,
// flags, and action/validator handlers.
func upCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "up",
		Usage:     "create the remote state backend",
		UsageText: "tfboot up [RootDir] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			NewBucketPrefixFlag("up", m.Config.Source),
			NewProfileFlag("up", m.Config.Source),
			NewRegionFlag("us-east-1", "up", m.Config.Source),
			NewTableFlag("up", m.Config.Source),
		}, NewGlobalFlags("up")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: upCommandAction,
	}
}
