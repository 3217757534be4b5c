// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/smartystreets/goconvey/convey"
)

func TestViewApplication(t *testing.T) {
	t.Parallel()

	Convey("ViewApplication", t, func() {
		Convey("requires application.id", func() {
			m, err := Parse("version = 1\n")
			So(err, ShouldBeNil)
			_, err = m.ViewApplication()
			So(err, ShouldNotBeNil)
			merr, ok := err.(*MissingKeyError)
			So(ok, ShouldBeTrue)
			So(merr.Key, ShouldEqual, "application.id")
		})

		Convey("applies defaults", func() {
			m, err := Parse("version = 1\n[application]\nid = \"test\"\n")
			So(err, ShouldBeNil)
			v, err := m.ViewApplication()
			So(err, ShouldBeNil)
			So(cmp.Diff(v, &ViewApplication{
				ID:   "test",
				Name: "test",
				Path: ".",
			}), ShouldBeEmpty)
		})

		Convey("prefers configured values", func() {
			m, err := Parse(`
version = 1

[application]
id = "test"
name = "Test App"
path = "app"
`)
			So(err, ShouldBeNil)
			v, err := m.ViewApplication()
			So(err, ShouldBeNil)
			So(v.Name, ShouldEqual, "Test App")
			So(v.Path, ShouldEqual, "app")
		})
	})
}

func TestViewAndroid(t *testing.T) {
	t.Parallel()

	parseAndroid := func(content string) *Android {
		m, err := Parse(content)
		So(err, ShouldBeNil)
		So(m.Raw.Platforms, ShouldHaveLength, 1)
		So(m.Raw.Platforms[0].Android, ShouldNotBeNil)
		return m.Raw.Platforms[0].Android
	}

	Convey("ViewAndroid", t, func() {
		Convey("requires application-id", func() {
			a := parseAndroid(`
version = 1

[[platform]]
id = "android"
[platform.android]
namespace = "com.example"
`)
			_, err := a.View()
			So(err, ShouldNotBeNil)
			merr, ok := err.(*MissingKeyError)
			So(ok, ShouldBeTrue)
			So(merr.Key, ShouldEqual, "platform.android.application-id")
		})

		Convey("applies defaults", func() {
			a := parseAndroid(`
version = 1

[[platform]]
id = "android"
[platform.android]
application-id = "com.example.app"
`)
			v, err := a.View()
			So(err, ShouldBeNil)
			So(cmp.Diff(v, &ViewAndroid{
				ApplicationID: "com.example.app",
				Namespace:     "com.example.app",
				CompileSDK:    DefaultCompileSDK,
				MinSDK:        DefaultMinSDK,
				TargetSDK:     DefaultCompileSDK,
				VersionCode:   DefaultVersionCode,
				VersionName:   DefaultVersionName,
			}), ShouldBeEmpty)
		})

		Convey("target-sdk follows configured compile-sdk", func() {
			a := parseAndroid(`
version = 1

[[platform]]
id = "android"
[platform.android]
application-id = "com.example.app"
compile-sdk = 34
`)
			v, err := a.View()
			So(err, ShouldBeNil)
			So(v.CompileSDK, ShouldEqual, 34)
			So(v.TargetSDK, ShouldEqual, 34)
		})

		Convey("prefers configured values", func() {
			a := parseAndroid(`
version = 1

[[platform]]
id = "android"
[platform.android]
application-id = "com.example.app"
namespace = "com.example"
compile-sdk = 34
min-sdk = 26
target-sdk = 33
version-code = 7
version-name = "1.2.3"
sdk-path = "/opt/android-sdk"
`)
			v, err := a.View()
			So(err, ShouldBeNil)
			So(cmp.Diff(v, &ViewAndroid{
				ApplicationID: "com.example.app",
				Namespace:     "com.example",
				CompileSDK:    34,
				MinSDK:        26,
				TargetSDK:     33,
				VersionCode:   7,
				VersionName:   "1.2.3",
				SDKPath:       "/opt/android-sdk",
			}), ShouldBeEmpty)
		})
	})
}
