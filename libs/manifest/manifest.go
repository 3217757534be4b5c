// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package manifest implements the platform manifest format. Applications use
// the manifest, a TOML file usually called `osiris-platform.toml`, to define
// their platform integration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"github.com/BurntSushi/toml"
	"go.chromium.org/luci/common/errors"
)

// Version is the manifest format version this implementation supports. Newer
// versions are explicitly defined to be incompatible, so anything else fails
// validation. Unknown fields within version 1, however, are silently ignored,
// so fields can be added without breaking older implementations.
const Version = 1

// Application is the optional `[application]` table describing the
// application itself.
type Application struct {
	// ID identifies the application. It must not change over the life of
	// the application. Only alphanumeric characters plus `-` and `_` are
	// allowed. Non-ASCII is allowed but might break external tools.
	ID *string `toml:"id"`
	// Name is the human-readable name of the application.
	Name *string `toml:"name"`
	// Path of the application root, relative to the manifest.
	Path *string `toml:"path"`
}

// Android is the `[platform.android]` table. Its options are one-to-one
// mappings of their equivalents in the Android Application SDK.
type Android struct {
	ApplicationID *string `toml:"application-id"`
	Namespace     *string `toml:"namespace"`

	CompileSDK *uint32 `toml:"compile-sdk"`
	MinSDK     *uint32 `toml:"min-sdk"`
	TargetSDK  *uint32 `toml:"target-sdk"`

	VersionCode *uint32 `toml:"version-code"`
	VersionName *string `toml:"version-name"`

	SDKPath *string `toml:"sdk-path"`
}

// Platform is a `[[platform]]` table describing one platform integration.
type Platform struct {
	// ID is the custom identifier of the platform integration.
	ID string `toml:"id"`
	// Path of the platform integration root, relative to the manifest.
	Path *string `toml:"path"`

	// Android carries the Android configuration, if this entry selects
	// the Android integration.
	Android *Android `toml:"android"`
}

// Raw is the manifest content as parsed by the TOML module. It is verified
// for syntactic correctness only; semantic validation happens when a Manifest
// is created from it.
type Raw struct {
	Version     int          `toml:"version"`
	Application *Application `toml:"application"`
	Platforms   []*Platform  `toml:"platform"`
}

// Manifest is a parsed and verified manifest.
type Manifest struct {
	Raw Raw
	// Dir is the directory containing the manifest file. Relative paths in
	// the manifest resolve against it. It is "." for manifests parsed from
	// strings.
	Dir string
}

// VersionError reports a manifest with a version this implementation does not
// support.
type VersionError struct {
	Version int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported manifest version %d (supported: %d)", e.Version, Version)
}

// KeyError reports a manifest key with an invalid value.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid manifest key %q: %s", e.Key, e.Reason)
}

// isIdentifier tells whether a string is a valid identifier: non-empty,
// consisting of only alphanumeric characters plus `-` and `_`. Any unicode
// alphanumeric character is allowed.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

// isQuotable tells whether a string contains no quotes, backslashes, or
// control characters. Such strings can be interpolated verbatim into a wide
// range of configuration languages without escaping.
func isQuotable(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) || r == '\\' || r == '\'' || r == '"' {
			return false
		}
	}
	return true
}

// hasControl tells whether a string contains control characters.
func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// ParseRaw parses a manifest into its raw representation, verifying syntax
// only. Unknown versions and semantically invalid values are accepted.
func ParseRaw(content string) (*Raw, error) {
	var raw Raw
	if _, err := toml.Decode(content, &raw); err != nil {
		return nil, errors.Annotate(err, "cannot parse manifest").Err()
	}
	return &raw, nil
}

func validate(raw *Raw) error {
	if raw.Version != Version {
		return &VersionError{Version: raw.Version}
	}

	if app := raw.Application; app != nil {
		if app.ID != nil && !isIdentifier(*app.ID) {
			return &KeyError{Key: "application.id", Reason: "not a valid identifier"}
		}
		if app.Name != nil && !isQuotable(*app.Name) {
			return &KeyError{Key: "application.name", Reason: "contains quotes, escapes, or control characters"}
		}
	}

	for _, platform := range raw.Platforms {
		android := platform.Android
		if android == nil {
			continue
		}
		if android.ApplicationID != nil && !isQuotable(*android.ApplicationID) {
			return &KeyError{Key: "platform.android.application-id", Reason: "contains quotes, escapes, or control characters"}
		}
		if android.Namespace != nil && !isQuotable(*android.Namespace) {
			return &KeyError{Key: "platform.android.namespace", Reason: "contains quotes, escapes, or control characters"}
		}
		if android.VersionName != nil && !isQuotable(*android.VersionName) {
			return &KeyError{Key: "platform.android.version-name", Reason: "contains quotes, escapes, or control characters"}
		}
		if android.SDKPath != nil && hasControl(*android.SDKPath) {
			return &KeyError{Key: "platform.android.sdk-path", Reason: "contains control characters"}
		}
	}

	return nil
}

// Parse parses and validates a manifest from its TOML representation.
func Parse(content string) (*Manifest, error) {
	raw, err := ParseRaw(content)
	if err != nil {
		return nil, err
	}
	if err := validate(raw); err != nil {
		return nil, err
	}
	return &Manifest{Raw: *raw, Dir: "."}, nil
}

// ParseFile reads and parses the manifest at the given path. The containing
// directory is recorded so relative manifest paths resolve against it.
func ParseFile(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotate(err, "cannot read manifest %q", path).Err()
	}
	m, err := Parse(string(content))
	if err != nil {
		return nil, errors.Annotate(err, "manifest %q", path).Err()
	}
	m.Dir = filepath.Dir(path)
	return m, nil
}

// PlatformByID returns the first platform entry with the given ID, or nil.
func (r *Raw) PlatformByID(id string) *Platform {
	for _, p := range r.Platforms {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// PlatformByID returns the first platform entry with the given ID, or nil.
func (m *Manifest) PlatformByID(id string) *Platform {
	return m.Raw.PlatformByID(id)
}

// AbsPath resolves a manifest-relative path against the manifest directory.
func (m *Manifest) AbsPath(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir, rel)
}

// IntegrationPath returns the configured platform path, or its default
// `platform/<id>` if missing. The result is relative to the manifest.
func (p *Platform) IntegrationPath() string {
	if p.Path != nil {
		return *p.Path
	}
	return filepath.Join("platform", p.ID)
}
