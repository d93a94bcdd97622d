// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	awsx "github.com/tfboot/tfboot/internal/aws"
	"github.com/tfboot/tfboot/internal/bootstrap"
	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/confirm"
	"github.com/tfboot/tfboot/internal/fragment"
	"github.com/tfboot/tfboot/internal/meta"
)

// confirmTeardown is swapped out by tests; a decline must return before any
// AWS client exists.
var confirmTeardown = confirm.Destroy

// downCommandAction is the action handler for the "down" subcommand. It
// destroys the resources the on-disk fragment names and rewrites the fragment
// to the local-state template. The fragment is the only source of names:
// nothing is re-derived, so a fragment that no longer matches reality is a
// hard error before anything is touched.
func downCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "down"

	fragPath := fragment.Path(m.RootDir)
	desc, err := fragment.Parse(fragPath)
	if err != nil {
		return fmt.Errorf("cannot determine what to destroy: %w", err)
	}

	if !cmd.Bool("force") {
		ok, err := confirmTeardown(desc.Bucket, desc.Table)
		if err != nil {
			return err
		}
		if !ok {
			// Declined is cancelled, not failed.
			fmt.Println("Teardown cancelled.")
			return nil
		}
	}

	region := desc.Region
	if r := cmd.String("region"); r != "" {
		region = r
	}
	cfgOpts := []awsx.Option{awsx.WithRegion(region)}
	if profile := cmd.String("profile"); profile != "" {
		cfgOpts = append(cfgOpts, awsx.WithProfile(profile))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	p, err := bootstrap.New(bootstrap.FromConfig(cfg))
	if err != nil {
		return err
	}

	res, err := p.Teardown(ctx, desc)
	if err != nil {
		return err
	}

	if err := fragment.WriteLocal(fragPath); err != nil {
		return err
	}

	fmt.Printf("Removed %s objects (%s) from bucket %s; table %s deleted.\n",
		humanize.Comma(res.ObjectsDeleted),
		humanize.Bytes(uint64(res.BytesDeleted)),
		desc.Bucket,
		desc.Table)

	return nil
}

// downCommandBuilder constructs the cli.Command for "down", wiring metadata,
// flags, and action/validator handlers.
func downCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "down",
		Usage:     "destroy the remote state backend",
		UsageText: "tfboot down [RootDir] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "skip the interactive confirmation",
				HideDefault: true,
			},
			NewProfileFlag("down", m.Config.Source),
			NewRegionFlag("", "down", m.Config.Source),
		}, NewGlobalFlags("down")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: downCommandAction,
	}
}
