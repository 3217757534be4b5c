// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command cargo-osiris is the cargo flavor of the osiris platform tooling.
//
// It carries the operations that need the application build tree, which is
// resolved by querying `cargo metadata`. Install it on PATH and cargo picks
// it up as the external sub-command `cargo osiris`.
package main

import (
	"context"
	"os"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/logging"
	"go.chromium.org/luci/common/logging/gologger"

	"osiris/cmdsupport/cmdlib"
	"osiris/libs/execs"
)

type commonFlags struct {
	subcommands.CommandRunBase
	verbose      bool
	manifestPath string
}

func (c *commonFlags) commonFlagVars() {
	c.Flags.BoolVar(&c.verbose, "verbose", false, "Log more.")
	c.Flags.StringVar(&c.manifestPath, "manifest", cmdlib.DefaultManifestPath,
		"Path to the platform manifest relative to the working directory.")
}

func (c *commonFlags) ModifyContext(ctx context.Context) context.Context {
	if c.verbose {
		ctx = logging.SetLevel(ctx, logging.Debug)
	}
	return ctx
}

// fixArgs drops the leading "osiris" cargo passes when this binary runs as
// the external sub-command `cargo osiris`.
func fixArgs(args []string) []string {
	if len(args) > 0 && args[0] == "osiris" {
		return args[1:]
	}
	return args
}

func main() {
	application := &cli.Application{
		Name:  "cargo-osiris",
		Title: "Osiris Platform Tooling for Cargo",
		Context: func(ctx context.Context) context.Context {
			goLoggerCfg := gologger.LoggerConfig{Out: os.Stderr}
			goLoggerCfg.Format = "[%{level:.1s} %{time:2006-01-02 15:04:05}] %{message}"
			ctx = goLoggerCfg.Use(ctx)

			ctx = logging.SetLevel(ctx, logging.Info)
			ctx = execs.UseReal(ctx)
			return ctx
		},
		Commands: []*subcommands.Command{
			subcommands.CmdHelp,
			cmdBuild,
			cmdEmerge,
		},
	}
	os.Exit(subcommands.Run(application, fixArgs(os.Args[1:])))
}
