// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/maruel/subcommands"
	"github.com/mitchellh/go-homedir"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"

	"osiris/libs/doctor"
	"osiris/libs/manifest"
)

type doctorRun struct {
	commonFlags
}

var cmdDoctor = &subcommands.Command{
	UsageLine: "doctor [options]",
	ShortDesc: "Check the host toolchain.",
	LongDesc: `Verifies the tools needed to build platform integration.

Checks that gradle and cargo are installed and recent enough, and that the
Android SDK paths configured in the manifest exist.`,
	CommandRun: func() subcommands.CommandRun {
		c := &doctorRun{}
		c.commonFlagVars()
		return c
	},
}

func (c *doctorRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	healthy := true

	if v, err := doctor.CheckGradle(ctx); err != nil {
		errors.Log(ctx, err)
		healthy = false
	} else {
		fmt.Fprintf(a.GetOut(), "gradle %s\n", v)
	}

	if v, err := doctor.CheckCargo(ctx); err != nil {
		errors.Log(ctx, err)
		healthy = false
	} else {
		fmt.Fprintf(a.GetOut(), "%s\n", strings.TrimSpace(v))
	}

	// SDK paths are optional, but when configured they should exist.
	if m, err := manifest.ParseFile(c.manifestPath); err == nil {
		for _, p := range m.Raw.Platforms {
			if p.Android == nil || p.Android.SDKPath == nil {
				continue
			}
			sdk, err := homedir.Expand(*p.Android.SDKPath)
			if err != nil {
				sdk = *p.Android.SDKPath
			}
			if _, err := os.Stat(sdk); err != nil {
				errors.Log(ctx, errors.Reason("platform %q: sdk-path %q is not accessible", p.ID, sdk).Err())
				healthy = false
			} else {
				fmt.Fprintf(a.GetOut(), "platform %s: sdk at %s\n", p.ID, sdk)
			}
		}
	}

	if !healthy {
		return 1
	}
	return 0
}
