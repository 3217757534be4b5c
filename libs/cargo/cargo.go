// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cargo queries build-tree metadata of the application from cargo.
package cargo

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.chromium.org/luci/common/errors"

	"osiris/libs/execs"
)

// Metadata is the subset of `cargo metadata` output the platform tooling
// needs.
type Metadata struct {
	// TargetDirectory is the build tree of the application. Ephemeral
	// platform integration and all build artifacts are stored beneath it.
	TargetDirectory string `json:"target_directory"`
	// WorkspaceRoot is the root of the application workspace.
	WorkspaceRoot string `json:"workspace_root"`
}

// Query runs `cargo metadata` for the application rooted at appDir and
// returns the parsed metadata. When running as a cargo external sub-command,
// cargo communicates its own path via the CARGO environment variable and that
// binary is used; otherwise `cargo` is looked up in PATH.
func Query(ctx context.Context, appDir string) (*Metadata, error) {
	bin := os.Getenv("CARGO")
	if bin == "" {
		bin = "cargo"
	}

	out, err := execs.RunOutput(ctx, bin, "metadata",
		"--format-version=1",
		"--no-deps",
		"--quiet",
		"--manifest-path", filepath.Join(appDir, "Cargo.toml"),
	)
	if err != nil {
		return nil, errors.Annotate(err, "cannot query cargo metadata").Err()
	}

	var m Metadata
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		return nil, errors.Annotate(err, "cargo metadata is not valid JSON").Err()
	}
	if m.TargetDirectory == "" {
		return nil, errors.Reason("cargo metadata lacks a target directory").Err()
	}
	return &m, nil
}
