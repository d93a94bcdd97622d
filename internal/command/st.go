// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	awsx "github.com/tfboot/tfboot/internal/aws"
	"github.com/tfboot/tfboot/internal/bootstrap"
	"github.com/tfboot/tfboot/internal/config"
	"github.com/tfboot/tfboot/internal/fragment"
	"github.com/tfboot/tfboot/internal/meta"
	"github.com/tfboot/tfboot/internal/output"
)

// stColumns fixes the column order for the status table.
var stColumns = []string{
	"bucket", "bucket_exists", "versioning", "encryption", "public_access_block",
	"objects", "stored", "table", "table_exists", "table_status", "region",
}

// stCommandAction is the action handler for the "st" subcommand. It probes
// the resources the fragment names and reports their live configuration.
func stCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "st"

	desc, err := fragment.Parse(fragment.Path(m.RootDir))
	if err != nil {
		fmt.Println("No active s3 backend block; state is local. Run 'tfboot up' to create one.")
		return nil
	}

	cfgOpts := []awsx.Option{awsx.WithRegion(desc.Region)}
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

	report, err := p.Status(ctx, desc)
	if err != nil {
		return err
	}

	rows := []map[string]interface{}{{
		"bucket":              report.Bucket,
		"bucket_exists":       report.BucketExists,
		"versioning":          report.Versioning,
		"encryption":          report.Encryption,
		"public_access_block": report.PublicAccessBlocked,
		"objects":             report.Objects,
		"stored":              humanize.Bytes(uint64(report.StoredBytes)),
		"table":               report.Table,
		"table_exists":        report.TableExists,
		"table_status":        report.TableStatus,
		"region":              report.Region,
	}}
	output.Spit(rows, stColumns, cmd, os.Stdout)

	return nil
}

// stCommandBuilder constructs the cli.Command for "st", wiring metadata,
// flags, and action/validator handlers.
func stCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "st",
		Usage:     "report backend resource status",
		UsageText: "tfboot st [RootDir] [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			NewProfileFlag("st", m.Config.Source),
		}, NewGlobalFlags("st")...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, cmd)
		},
		Action: stCommandAction,
	}
}
