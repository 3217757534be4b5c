// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package platform enumerates the supported target platforms.
//
// The Android integration wraps the application in a Gradle project driven by
// the Android Application plugin, with all integration parameters sourced
// from the platform manifest. Further platforms (iOS, Linux, MacOS, Web,
// Windows) are reserved but not implemented yet.
package platform

import (
	"strings"

	"go.chromium.org/luci/common/errors"
)

// ID identifies a supported target platform.
type ID string

// Android is the only platform with a full integration backend.
const Android = ID("android")

// IDs returns all supported platform identifiers.
func IDs() []ID {
	return []ID{Android}
}

// String returns the canonical string form, parsable by ParseID.
func (id ID) String() string {
	return string(id)
}

// ParseID parses a platform identifier from its string representation.
// Matching is case-insensitive.
func ParseID(s string) (ID, error) {
	for _, id := range IDs() {
		if strings.EqualFold(s, string(id)) {
			return id, nil
		}
	}
	return "", errors.Reason("unknown platform %q", s).Err()
}
