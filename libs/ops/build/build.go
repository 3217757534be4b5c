// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package build runs a full build of the platform integration, assembling
// all application artifacts ready for distribution.
package build

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar"
	"github.com/danjacques/gofslock/fslock"
	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
	"go.chromium.org/luci/common/system/filesystem"

	"osiris/libs/cargo"
	"osiris/libs/execs"
	"osiris/libs/manifest"
	"osiris/libs/ops/emerge"
)

// lockHeldDelay is how long to sleep between attempts to take the build
// directory lock.
const lockHeldDelay = 5 * time.Second

// Params are the inputs of Build.
type Params struct {
	Manifest *manifest.Manifest
	// Metadata locates the build tree of the application. Ephemeral
	// platform integration and all build artifacts are stored beneath its
	// target directory.
	Metadata *cargo.Metadata
	// Platform is the manifest entry to build.
	Platform *manifest.Platform
	// Clean removes the platform build directory before building.
	Clean bool
}

// Build performs a full build of the platform integration of the specified
// platform. If no persistent platform integration is located in the platform
// directory, an ephemeral integration is emerged into the build tree and
// built instead.
//
// The build directory of the platform is guarded by a file lock, so
// concurrent builds of the same platform serialize. Returns the paths of the
// assembled distributable artifacts.
func Build(ctx context.Context, params Params) ([]string, error) {
	m, p := params.Manifest, params.Platform

	// Use the persistent integration from `./platform/<id>/` if present.
	platformDir := m.AbsPath(p.IntegrationPath())
	persistent := true
	switch info, err := os.Stat(platformDir); {
	case err == nil && !info.IsDir():
		return nil, errors.Reason("platform path %q is not a directory", platformDir).Err()
	case err != nil && !os.IsNotExist(err):
		return nil, errors.Annotate(err, "cannot access platform directory %q", platformDir).Err()
	case err != nil:
		persistent = false
	}

	// Without persistent integration, emerge an ephemeral one into
	// `<target>/osiris/platform/<id>/`.
	if !persistent {
		platformDir = filepath.Join(params.Metadata.TargetDirectory, "osiris", "platform", p.ID)
		logging.Debugf(ctx, "Emerging ephemeral integration of platform %q into %s", p.ID, platformDir)
		err := emerge.Emerge(ctx, emerge.Params{
			Manifest:     m,
			Platform:     p,
			PathOverride: platformDir,
			Update:       true,
		})
		if err != nil {
			return nil, err
		}
	}

	// All output artifacts go to `<target>/osiris/build/<id>/`. The
	// directory is reused across builds to speed them up, unless a clean
	// build is requested.
	buildDir := filepath.Join(params.Metadata.TargetDirectory, "osiris", "build", p.ID)
	if params.Clean {
		logging.Infof(ctx, "Removing build directory %s", buildDir)
		if err := filesystem.RemoveAll(buildDir); err != nil {
			return nil, errors.Annotate(err, "cannot clean build directory %q", buildDir).Err()
		}
	}
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return nil, errors.Annotate(err, "cannot create build directory %q", buildDir).Err()
	}

	if p.Android == nil {
		logging.Debugf(ctx, "Platform %q has no configuration to build", p.ID)
		return nil, nil
	}

	var artifacts []string
	blocker := func() error {
		logging.Infof(ctx, "Build directory %s is locked by another build, waiting %v", buildDir, lockHeldDelay)
		clock.Sleep(ctx, lockHeldDelay)
		return nil
	}
	err := fslock.WithBlocking(buildDir+".lock", blocker, func() error {
		var err error
		artifacts, err = buildAndroid(ctx, m, p.Android, platformDir, buildDir)
		return err
	})
	return artifacts, err
}

func buildAndroid(ctx context.Context, m *manifest.Manifest, android *manifest.Android, platformDir, buildDir string) ([]string, error) {
	app, err := m.ViewApplication()
	if err != nil {
		return nil, err
	}
	view, err := android.View()
	if err != nil {
		return nil, err
	}

	// Gradle makes output directories part of the project configuration,
	// so `buildDir` is overridden to keep build artifacts out of the
	// sources. All other integration parameters are handed over as
	// `osiris.android.*` project properties, matching what the emerged
	// `build.gradle` reads.
	gradleBuildDir := filepath.Join(buildDir, "gradle-build")
	args := []string{
		"build",
		"--no-scan",
		"--no-watch-fs",
		"--parallel",
		"--quiet",
		"-Dosiris.system.name=" + app.ID,
		"--project-dir", platformDir,
		"--project-cache-dir", filepath.Join(buildDir, "gradle-cache"),
	}
	props := []string{
		"buildDir=" + gradleBuildDir,
		"osiris.android.applicationId=" + view.ApplicationID,
		"osiris.android.namespace=" + view.Namespace,
		"osiris.android.compileSdk=" + strconv.FormatUint(uint64(view.CompileSDK), 10),
		"osiris.android.minSdk=" + strconv.FormatUint(uint64(view.MinSDK), 10),
		"osiris.android.targetSdk=" + strconv.FormatUint(uint64(view.TargetSDK), 10),
		"osiris.android.versionCode=" + strconv.FormatUint(uint64(view.VersionCode), 10),
		"osiris.android.versionName=" + view.VersionName,
	}
	for _, prop := range props {
		args = append(args, "--project-prop", prop)
	}

	var env []string
	if view.SDKPath != "" {
		env = append(env, "ANDROID_HOME="+view.SDKPath)
	}

	logging.Infof(ctx, "Building platform integration at %s", platformDir)
	if err := execs.RunCommandEnv(ctx, env, "gradle", args...); err != nil {
		return nil, errors.Annotate(err, "platform build failed").Err()
	}

	artifacts, err := findArtifacts(gradleBuildDir)
	if err != nil {
		return nil, err
	}
	for _, a := range artifacts {
		logging.Infof(ctx, "Assembled %s", a)
	}
	return artifacts, nil
}

// findArtifacts locates the distributable packages Gradle produced beneath
// the build directory.
func findArtifacts(gradleBuildDir string) ([]string, error) {
	matches, err := doublestar.Glob(filepath.ToSlash(filepath.Join(gradleBuildDir, "outputs", "**", "*.apk")))
	if err != nil {
		return nil, errors.Annotate(err, "cannot scan build artifacts").Err()
	}
	sort.Strings(matches)
	return matches, nil
}
