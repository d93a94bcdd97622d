// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tfboot/tfboot/internal/command"
	"github.com/tfboot/tfboot/internal/log"
	"github.com/tfboot/tfboot/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processRootDir inserts the CWD as the RootDir positional when the command
// takes one and none was supplied. The completion command takes a plain
// positional (bash/zsh) and is left alone.
func processRootDir(args []string) []string {
	if len(args) < 2 || args[1] == "completion" {
		return args
	}

	cwd, _ := os.Getwd()
	if len(args) == 2 {
		return append(args, cwd)
	}
	if args[2] != cwd && !isExistingDir(args[2]) {
		args = append(args[:2], append([]string{cwd}, args[2:]...)...)
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
// Any failure exits 1; a declined confirmation is not a failure.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 1
	}

	return 0
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip arg processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processRootDir(args)
	}

	return initAndRunApp(args)
}

// isExistingDir checks if the given path exists and is a directory.
func isExistingDir(path string) bool {
	if fi, err := os.Stat(path); err == nil {
		return fi.IsDir()
	}
	return false
}
