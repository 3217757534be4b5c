// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"osiris/cmdsupport/cmdlib"
	"osiris/libs/ops/emerge"
)

type emergeRun struct {
	commonFlags
	platform string
	update   bool
}

var cmdEmerge = &subcommands.Command{
	UsageLine: "emerge -platform <id> [options]",
	ShortDesc: "Create a persisting platform integration.",
	LongDesc: `Writes the platform integration of the selected platform to disk.

The integration is written to the platform directory configured in the
manifest (default: ./platform/<id>, next to the manifest). Emerging fails if
the directory already exists, unless -update is given, in which case stale
files are refreshed in place and leftovers are removed.`,
	CommandRun: func() subcommands.CommandRun {
		c := &emergeRun{}
		c.commonFlagVars()
		c.Flags.StringVar(&c.platform, "platform", "", "ID of the target platform to operate on. (required)")
		c.Flags.BoolVar(&c.update, "update", false, "Allow updating existing platform integration.")
		return c
	},
}

func (c *emergeRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
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

	err = emerge.Emerge(ctx, emerge.Params{
		Manifest: m,
		Platform: p,
		Update:   c.update,
	})
	switch {
	case errors.Is(err, emerge.ErrAlreadyEmerged):
		errors.Log(ctx, errors.Annotate(err, "pass -update to refresh it").Err())
		return 1
	case err != nil:
		errors.Log(ctx, errors.Annotate(err, "cannot emerge platform integration").Err())
		return 1
	}

	logging.Infof(ctx, "Emerged platform %q", c.platform)
	return 0
}
