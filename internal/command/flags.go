// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Value:   "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	}

	return
}

// NewBucketPrefixFlag constructs the bucket-prefix flag, optionally
// namespaced to a command and config file. params[1] is the config file.
func NewBucketPrefixFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "bucket-prefix",
		Usage: "prefix the state bucket name is derived from",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFBOOT_BUCKET_PREFIX"),
		),
		Value: "terraform-state",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewProfileFlag constructs the profile flag. Empty means the ambient AWS
// credential chain (AWS_PROFILE, shared config, env, IMDS).
func NewProfileFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "profile",
		Usage: "AWS shared config profile. Overrides the ambient chain",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFBOOT_PROFILE"),
		),
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewRegionFlag constructs the region flag with the given default value,
// optionally namespaced to a command and config file. params[1] is the
// config file. Teardown passes an empty default so the fragment's recorded
// region wins unless explicitly overridden.
func NewRegionFlag(value string, params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:    "region",
		Aliases: []string{"r"},
		Usage:   "region the backend resources live in",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFBOOT_REGION"),
			cli.EnvVar("AWS_REGION"),
		),
		Value:       value,
		HideDefault: value == "",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NewTableFlag constructs the lock table name flag.
func NewTableFlag(params ...string) (flag *cli.StringFlag) {
	flag = &cli.StringFlag{
		Name:  "table",
		Usage: "name of the state lock table",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("TFBOOT_TABLE"),
		),
		Value: "terraform-locks",
	}

	if len(params) == 2 {
		flag = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], flag)
	}

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config
// file sources to the given flag's Sources chain. A missing config file
// leaves the flag untouched.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	if path == "" {
		return flag
	}

	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
