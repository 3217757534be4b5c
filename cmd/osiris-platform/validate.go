// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"

	"osiris/libs/manifest"
)

type validateRun struct {
	commonFlags
}

var cmdValidate = &subcommands.Command{
	UsageLine: "validate [options]",
	ShortDesc: "Verify the platform manifest.",
	LongDesc: `Parses the platform manifest and reports what it declares.

The manifest is checked for syntactic and semantic validity, including the
format version gate and the identifier and quoting rules of all configured
values.`,
	CommandRun: func() subcommands.CommandRun {
		c := &validateRun{}
		c.commonFlagVars()
		return c
	},
}

func (c *validateRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)

	m, err := manifest.ParseFile(c.manifestPath)
	if err != nil {
		errors.Log(ctx, err)
		return 1
	}

	fmt.Fprintf(a.GetOut(), "%s is a valid version %d manifest\n", c.manifestPath, m.Raw.Version)
	if app, err := m.ViewApplication(); err == nil {
		fmt.Fprintf(a.GetOut(), "application: %s (%q)\n", app.ID, app.Name)
	}
	for _, p := range m.Raw.Platforms {
		kind := "unconfigured"
		if p.Android != nil {
			kind = "android"
		}
		fmt.Fprintf(a.GetOut(), "platform: %s (%s) at %s\n", p.ID, kind, p.IntegrationPath())
	}
	return 0
}
