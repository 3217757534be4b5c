// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cargo

import (
	"context"
	"path/filepath"
	"testing"

	"go.chromium.org/luci/common/errors"

	"osiris/libs/execs"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuery(t *testing.T) {
	t.Setenv("CARGO", "")

	Convey("Query", t, func() {
		var s execs.MockSession
		ctx := execs.UseMock(context.Background(), &s)

		Convey("parses cargo output", func() {
			s.ReturnOutput = []string{
				`{"target_directory": "/src/app/target", "workspace_root": "/src/app"}`,
			}
			m, err := Query(ctx, "/src/app")
			So(err, ShouldBeNil)
			So(m.TargetDirectory, ShouldEqual, "/src/app/target")
			So(m.WorkspaceRoot, ShouldEqual, "/src/app")

			So(s.Calls, ShouldHaveLength, 1)
			So(s.Calls[0].Executable, ShouldEqual, "cargo")
			So(s.Calls[0].Args, ShouldResemble, []string{
				"metadata",
				"--format-version=1",
				"--no-deps",
				"--quiet",
				"--manifest-path", filepath.Join("/src/app", "Cargo.toml"),
			})
		})

		Convey("fails when cargo fails", func() {
			s.ReturnError = []error{errors.Reason("no such manifest").Err()}
			_, err := Query(ctx, "/src/app")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "cannot query cargo metadata")
		})

		Convey("fails on invalid JSON", func() {
			s.ReturnOutput = []string{"not json"}
			_, err := Query(ctx, "/src/app")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not valid JSON")
		})

		Convey("fails when fields are missing", func() {
			s.ReturnOutput = []string{`{"workspace_root": "/src/app"}`}
			_, err := Query(ctx, "/src/app")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "target directory")
		})
	})
}
