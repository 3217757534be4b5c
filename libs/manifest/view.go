// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package manifest

import (
	"fmt"

	"github.com/mitchellh/go-homedir"
	"go.chromium.org/luci/common/errors"
)

// Defaults applied by the views when the manifest leaves a key unset.
const (
	DefaultCompileSDK  = 33
	DefaultMinSDK      = 21
	DefaultVersionCode = 1
	DefaultVersionName = "0.1.0"
)

// MissingKeyError reports a manifest key that is required by an operation but
// missing from the manifest.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required manifest key %q", e.Key)
}

// ViewApplication is the resolved application configuration, with defaults
// applied and required keys enforced.
type ViewApplication struct {
	ID   string
	Name string
	Path string
}

// ViewAndroid is the resolved Android configuration of a platform entry.
type ViewAndroid struct {
	ApplicationID string
	Namespace     string

	CompileSDK uint32
	MinSDK     uint32
	TargetSDK  uint32

	VersionCode uint32
	VersionName string

	// SDKPath is the configured Android SDK location with a leading `~`
	// expanded, or empty if unset.
	SDKPath string
}

// ViewApplication resolves the application configuration. `application.id` is
// required; the name defaults to the ID and the path to the manifest
// directory itself.
func (m *Manifest) ViewApplication() (*ViewApplication, error) {
	app := m.Raw.Application
	if app == nil || app.ID == nil {
		return nil, &MissingKeyError{Key: "application.id"}
	}
	v := &ViewApplication{
		ID:   *app.ID,
		Name: *app.ID,
		Path: ".",
	}
	if app.Name != nil {
		v.Name = *app.Name
	}
	if app.Path != nil {
		v.Path = *app.Path
	}
	return v, nil
}

// View resolves the Android configuration. `application-id` is required; the
// namespace defaults to the application ID, the target SDK to the compile
// SDK.
func (a *Android) View() (*ViewAndroid, error) {
	if a.ApplicationID == nil {
		return nil, &MissingKeyError{Key: "platform.android.application-id"}
	}
	v := &ViewAndroid{
		ApplicationID: *a.ApplicationID,
		Namespace:     *a.ApplicationID,
		CompileSDK:    DefaultCompileSDK,
		MinSDK:        DefaultMinSDK,
		VersionCode:   DefaultVersionCode,
		VersionName:   DefaultVersionName,
	}
	if a.Namespace != nil {
		v.Namespace = *a.Namespace
	}
	if a.CompileSDK != nil {
		v.CompileSDK = *a.CompileSDK
	}
	v.TargetSDK = v.CompileSDK
	if a.MinSDK != nil {
		v.MinSDK = *a.MinSDK
	}
	if a.TargetSDK != nil {
		v.TargetSDK = *a.TargetSDK
	}
	if a.VersionCode != nil {
		v.VersionCode = *a.VersionCode
	}
	if a.VersionName != nil {
		v.VersionName = *a.VersionName
	}
	if a.SDKPath != nil {
		expanded, err := homedir.Expand(*a.SDKPath)
		if err != nil {
			return nil, errors.Annotate(err, "cannot expand platform.android.sdk-path").Err()
		}
		v.SDKPath = expanded
	}
	return v, nil
}
