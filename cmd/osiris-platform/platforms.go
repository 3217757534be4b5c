// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/maruel/subcommands"

	"osiris/libs/platform"
)

type platformsRun struct {
	subcommands.CommandRunBase
}

var cmdPlatforms = &subcommands.Command{
	UsageLine: "platforms",
	ShortDesc: "List supported target platforms.",
	LongDesc:  "Lists the platform identifiers an integration backend exists for.",
	CommandRun: func() subcommands.CommandRun {
		return &platformsRun{}
	},
}

func (c *platformsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	for _, id := range platform.IDs() {
		fmt.Fprintln(a.GetOut(), id)
	}
	return 0
}
