// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package doctor checks the host for the tools the platform integration
// needs.
package doctor

import (
	"context"
	"regexp"

	"github.com/hashicorp/go-version"
	"go.chromium.org/luci/common/errors"

	"osiris/libs/execs"
)

// MinGradleVersion is the oldest Gradle release the emerged integration is
// known to build with.
const MinGradleVersion = "7.0"

var gradleVersionRegexp = regexp.MustCompile(`Gradle (\d+(?:\.\d+)+)`)

// CheckGradle verifies that gradle is installed and recent enough, returning
// the detected version.
func CheckGradle(ctx context.Context) (string, error) {
	out, err := execs.RunOutput(ctx, "gradle", "--version")
	if err != nil {
		return "", errors.Annotate(err, "gradle is not available").Err()
	}
	match := gradleVersionRegexp.FindStringSubmatch(out)
	if match == nil {
		return "", errors.Reason("cannot parse gradle version from %q", out).Err()
	}

	detected, err := version.NewVersion(match[1])
	if err != nil {
		return "", errors.Annotate(err, "cannot parse gradle version %q", match[1]).Err()
	}
	minimum := version.Must(version.NewVersion(MinGradleVersion))
	if detected.LessThan(minimum) {
		return match[1], errors.Reason("gradle %s is too old, need at least %s", match[1], MinGradleVersion).Err()
	}
	return match[1], nil
}

// CheckCargo verifies that cargo is installed, returning its version line.
func CheckCargo(ctx context.Context) (string, error) {
	out, err := execs.RunOutput(ctx, "cargo", "--version")
	if err != nil {
		return "", errors.Annotate(err, "cargo is not available").Err()
	}
	return out, nil
}
