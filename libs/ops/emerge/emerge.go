// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package emerge stores platform integration persistently on disk. Unlike
// just-in-time integration at build time, this allows adjusting the platform
// integration to specific needs and retaining modifications across builds.
package emerge

import (
	"context"
	"os"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"osiris/libs/manifest"
)

// ErrAlreadyEmerged is returned when the platform integration is already
// present and updating was not allowed by the caller.
var ErrAlreadyEmerged = errors.New("platform integration already present")

// Params are the inputs of Emerge.
type Params struct {
	Manifest *manifest.Manifest
	// Platform is the manifest entry to emerge.
	Platform *manifest.Platform
	// PathOverride replaces the platform directory from the manifest as
	// the integration root. Used to emerge into ephemeral build
	// directories.
	PathOverride string
	// Update allows updating an existing platform integration. Old files
	// are rewritten to match the new integration and stale leftovers are
	// deleted.
	Update bool
}

// Emerge writes the platform integration for the specified platform to
// persistent storage, sourcing the manifest for integration parameters.
//
// Emerge fails with ErrAlreadyEmerged if the platform directory already
// exists, unless updating is allowed.
func Emerge(ctx context.Context, params Params) error {
	dir := params.PathOverride
	if dir == "" {
		dir = params.Manifest.AbsPath(params.Platform.IntegrationPath())
	}

	// If the path points to something other than a directory, fail. If it
	// is an existing directory and updates are not allowed, fail. Create
	// it otherwise and continue.
	switch info, err := os.Stat(dir); {
	case err == nil && !info.IsDir():
		return errors.Reason("platform path %q is not a directory", dir).Err()
	case err == nil && !params.Update:
		return errors.Annotate(ErrAlreadyEmerged, "platform directory %q", dir).Err()
	case err != nil && !os.IsNotExist(err):
		return errors.Annotate(err, "cannot access platform directory %q", dir).Err()
	case err != nil:
		if err := ensureDir(dir); err != nil {
			return err
		}
	}

	if params.Platform.Android != nil {
		logging.Debugf(ctx, "Emerging android integration of platform %q into %s", params.Platform.ID, dir)
		return emergeAndroid(ctx, params.Manifest, params.Platform.Android, dir)
	}

	// Platform entries without a recognized configuration emerge nothing.
	logging.Debugf(ctx, "Platform %q has no configuration to emerge", params.Platform.ID)
	return nil
}
