// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package execs

import (
	"context"
	"testing"

	"go.chromium.org/luci/common/errors"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMockSession(t *testing.T) {
	t.Parallel()

	Convey("MockSession records calls", t, func() {
		var s MockSession
		ctx := UseMock(context.Background(), &s)

		Convey("in order, with stdin and env", func() {
			s.ReturnOutput = []string{"first", "second"}
			out, err := RunOutput(ctx, "gradle", "--version")
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "first")

			So(RunWithStdin(ctx, "input\n", "tool", "-"), ShouldBeNil)
			So(RunCommandEnv(ctx, []string{"ANDROID_HOME=/sdk"}, "gradle", "build"), ShouldBeNil)

			So(s.Calls, ShouldHaveLength, 3)
			So(s.Calls[0].Executable, ShouldEqual, "gradle")
			So(s.Calls[0].Args, ShouldResemble, []string{"--version"})
			So(s.Calls[0].Env, ShouldResemble, []string(nil))
			So(s.Calls[1].ConsumedStdin, ShouldEqual, "input\n")
			So(s.Calls[2].Env, ShouldResemble, []string{"ANDROID_HOME=/sdk"})
		})

		Convey("replaying scripted errors", func() {
			s.ReturnError = []error{errors.Reason("gradle failed").Err()}
			err := RunCommand(ctx, "gradle", "build")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "gradle failed")

			// The error queue is exhausted, further calls succeed.
			So(RunCommand(ctx, "gradle", "build"), ShouldBeNil)
			So(s.Calls, ShouldHaveLength, 2)
		})
	})

	Convey("commands fail without a session", t, func() {
		err := RunCommand(context.Background(), "true")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "no exec session")
	})
}
