// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command osiris-platform manages the platform integration of applications.
//
// Its main input is the `osiris-platform.toml` manifest, which specifies
// parameters of an application and its platform integration. The tool reads
// the manifest and provides utilities to debug, build, modify, or augment the
// platform integration of the application.
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

func main() {
	application := &cli.Application{
		Name:  "osiris-platform",
		Title: "Osiris Platform Tooling",
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
			cmdEmerge,
			cmdValidate,
			cmdPlatforms,
			cmdDoctor,
		},
	}
	os.Exit(subcommands.Run(application, nil))
}
