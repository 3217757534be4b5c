// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"

	"osiris/cmdsupport/cmdlib"
	"osiris/libs/cargo"
	"osiris/libs/ops/build"
)

type buildRun struct {
	commonFlags
	platform string
	clean    bool
}

var cmdBuild = &subcommands.Command{
	UsageLine: "build -platform <id> [options]",
	ShortDesc: "Build artifacts for the specified platform.",
	LongDesc: `Assembles the distributable artifacts of the selected platform.

If no persistent platform integration exists, an ephemeral one is emerged
into the cargo target directory and built instead. Build output is stored
under <target>/osiris/build/<id>.`,
	CommandRun: func() subcommands.CommandRun {
		c := &buildRun{}
		c.commonFlagVars()
		c.Flags.StringVar(&c.platform, "platform", "", "ID of the target platform to operate on. (required)")
		c.Flags.BoolVar(&c.clean, "clean", false, "Remove the platform build directory before building.")
		return c
	},
}

func (c *buildRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if c.platform == "" {
		cmdlib.PrintError(a, cmdlib.NewUsageError(c.Flags, "no platform specified (-platform)"))
		return 2
	}

	m, p, err := cmdlib.LoadManifest(c.manifestPath, c.platform)
	if err != nil {
		errors.Log(ctx, err)
		return 1
	}

	app, err := m.ViewApplication()
	if err != nil {
		errors.Log(ctx, err)
		return 1
	}

	metadata, err := cargo.Query(ctx, m.AbsPath(app.Path))
	if err != nil {
		errors.Log(ctx, err)
		return 1
	}

	artifacts, err := build.Build(ctx, build.Params{
		Manifest: m,
		Metadata: metadata,
		Platform: p,
		Clean:    c.clean,
	})
	if err != nil {
		errors.Log(ctx, errors.Annotate(err, "cannot build platform integration").Err())
		return 1
	}

	for _, artifact := range artifacts {
		fmt.Fprintln(a.GetOut(), artifact)
	}
	return 0
}
