// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cmdlib carries helpers shared by the osiris command-line tools.
package cmdlib

import (
	"flag"
	"fmt"
	"io"

	"github.com/maruel/subcommands"

	"osiris/libs/manifest"
)

// DefaultManifestPath is where the platform manifest is looked up when the
// -manifest flag is not given.
const DefaultManifestPath = "./osiris-platform.toml"

// UserErrorReporter reports a detailed error message to the user.
//
// PrintError() uses a UserErrorReporter to print multi-line user error
// details along with the actual error.
type UserErrorReporter interface {
	// Report a user-friendly error through w.
	ReportUserError(w io.Writer)
}

// PrintError reports errors back to the user.
//
// Detailed error information is printed if err is a UserErrorReporter.
func PrintError(a subcommands.Application, err error) {
	if u, ok := err.(UserErrorReporter); ok {
		u.ReportUserError(a.GetErr())
	} else {
		fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
	}
}

// NewUsageError creates a new error that also reports flags usage error
// details.
func NewUsageError(flags flag.FlagSet, format string, a ...interface{}) error {
	return &usageError{
		error: fmt.Errorf(format, a...),
		flags: flags,
	}
}

type usageError struct {
	error
	flags flag.FlagSet
}

func (e *usageError) ReportUserError(w io.Writer) {
	fmt.Fprintf(w, "%s\n\nUsage:\n\n", e.error)
	e.flags.Usage()
}

// IsUsageError tells whether an error was created by NewUsageError.
func IsUsageError(err error) bool {
	_, ok := err.(*usageError)
	return ok
}

// LoadManifest parses the platform manifest at path and resolves the
// platform entry with the given ID.
func LoadManifest(path, platformID string) (*manifest.Manifest, *manifest.Platform, error) {
	m, err := manifest.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	p := m.PlatformByID(platformID)
	if p == nil {
		return nil, nil, fmt.Errorf("no platform with ID %q in %s", platformID, path)
	}
	return m, p, nil
}
