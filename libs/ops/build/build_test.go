// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.chromium.org/luci/common/errors"

	"osiris/libs/cargo"
	"osiris/libs/execs"
	"osiris/libs/manifest"

	. "github.com/smartystreets/goconvey/convey"
)

const testManifest = `
version = 1

[application]
id = "test-app"

[[platform]]
id = "android"
[platform.android]
application-id = "com.example.test"
compile-sdk = 34
version-code = 7
version-name = "1.2.3"
`

func TestBuild(t *testing.T) {
	t.Parallel()

	Convey("Build", t, func() {
		var s execs.MockSession
		ctx := execs.UseMock(context.Background(), &s)

		dir, err := os.MkdirTemp("", "build_test")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "osiris-platform.toml")
		So(os.WriteFile(path, []byte(testManifest), 0644), ShouldBeNil)
		m, err := manifest.ParseFile(path)
		So(err, ShouldBeNil)
		platform := m.PlatformByID("android")
		So(platform, ShouldNotBeNil)

		target := filepath.Join(dir, "target")
		metadata := &cargo.Metadata{TargetDirectory: target, WorkspaceRoot: dir}
		params := Params{Manifest: m, Metadata: metadata, Platform: platform}

		buildDir := filepath.Join(target, "osiris", "build", "android")
		ephemeralDir := filepath.Join(target, "osiris", "platform", "android")

		Convey("emerges ephemeral integration and invokes gradle", func() {
			_, err := Build(ctx, params)
			So(err, ShouldBeNil)

			// The ephemeral integration was emerged into the build tree.
			_, err = os.Stat(filepath.Join(ephemeralDir, "build.gradle"))
			So(err, ShouldBeNil)

			So(s.Calls, ShouldHaveLength, 1)
			So(s.Calls[0].Executable, ShouldEqual, "gradle")
			So(s.Calls[0].Args, ShouldResemble, []string{
				"build",
				"--no-scan",
				"--no-watch-fs",
				"--parallel",
				"--quiet",
				"-Dosiris.system.name=test-app",
				"--project-dir", ephemeralDir,
				"--project-cache-dir", filepath.Join(buildDir, "gradle-cache"),
				"--project-prop", "buildDir=" + filepath.Join(buildDir, "gradle-build"),
				"--project-prop", "osiris.android.applicationId=com.example.test",
				"--project-prop", "osiris.android.namespace=com.example.test",
				"--project-prop", "osiris.android.compileSdk=34",
				"--project-prop", "osiris.android.minSdk=21",
				"--project-prop", "osiris.android.targetSdk=34",
				"--project-prop", "osiris.android.versionCode=7",
				"--project-prop", "osiris.android.versionName=1.2.3",
			})
			So(s.Calls[0].Env, ShouldResemble, []string(nil))
		})

		Convey("uses the persistent integration when present", func() {
			persistent := filepath.Join(dir, "platform", "android")
			So(os.MkdirAll(persistent, 0755), ShouldBeNil)

			_, err := Build(ctx, params)
			So(err, ShouldBeNil)

			_, err = os.Stat(ephemeralDir)
			So(os.IsNotExist(err), ShouldBeTrue)

			So(s.Calls, ShouldHaveLength, 1)
			So(s.Calls[0].Args, ShouldContain, persistent)
		})

		Convey("exports ANDROID_HOME when sdk-path is set", func() {
			sdk := "/opt/android-sdk"
			platform.Android.SDKPath = &sdk

			_, err := Build(ctx, params)
			So(err, ShouldBeNil)
			So(s.Calls, ShouldHaveLength, 1)
			So(s.Calls[0].Env, ShouldResemble, []string{"ANDROID_HOME=/opt/android-sdk"})
		})

		Convey("collects assembled artifacts", func() {
			apkDir := filepath.Join(buildDir, "gradle-build", "outputs", "apk", "release")
			So(os.MkdirAll(apkDir, 0755), ShouldBeNil)
			apk := filepath.Join(apkDir, "test-app-release.apk")
			So(os.WriteFile(apk, []byte("apk"), 0644), ShouldBeNil)

			artifacts, err := Build(ctx, params)
			So(err, ShouldBeNil)
			So(artifacts, ShouldHaveLength, 1)
			So(filepath.ToSlash(artifacts[0]), ShouldEqual, filepath.ToSlash(apk))
		})

		Convey("clean removes the build directory first", func() {
			stale := filepath.Join(buildDir, "gradle-build", "outputs", "apk")
			So(os.MkdirAll(stale, 0755), ShouldBeNil)
			So(os.WriteFile(filepath.Join(stale, "stale.apk"), []byte("old"), 0644), ShouldBeNil)

			params.Clean = true
			artifacts, err := Build(ctx, params)
			So(err, ShouldBeNil)
			So(artifacts, ShouldBeEmpty)
		})

		Convey("fails the build when gradle fails", func() {
			s.ReturnError = []error{errors.Reason("compilation failed").Err()}
			_, err := Build(ctx, params)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "platform build failed")
		})

		Convey("builds nothing for unconfigured platforms", func() {
			bare := `
version = 1

[[platform]]
id = "bare"
`
			barePath := filepath.Join(dir, "bare.toml")
			So(os.WriteFile(barePath, []byte(bare), 0644), ShouldBeNil)
			bm, err := manifest.ParseFile(barePath)
			So(err, ShouldBeNil)

			artifacts, err := Build(ctx, Params{
				Manifest: bm,
				Metadata: metadata,
				Platform: bm.PlatformByID("bare"),
			})
			So(err, ShouldBeNil)
			So(artifacts, ShouldBeEmpty)
			So(s.Calls, ShouldBeEmpty)
		})
	})
}
