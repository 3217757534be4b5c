// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emerge

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.chromium.org/luci/common/logging"

	"osiris/libs/manifest"
)

// gradleProperties is a key-value store read by Gradle before startup. It
// disables the Gradle daemon, sets JVM parameters for the build (2G memory
// and UTF-8 files), enables AndroidX, and makes `R` classes non-transitive to
// avoid pulling in resources from other modules.
const gradleProperties = `# Generated by osiris-platform
org.gradle.daemon=false
org.gradle.jvmargs=-Xmx2048m -Dfile.encoding=UTF-8
android.useAndroidX=true
android.nonTransitiveRClass=true
`

// settingsGradle is the root Gradle configuration. It pins the module
// registries and sources the root project name from the `osiris.system.name`
// system property, which the build operation supplies. The project name ends
// up in the file-names of build artifacts.
const settingsGradle = `// Generated by osiris-platform
pluginManagement {
    repositories {
        google()
        mavenCentral()
        gradlePluginPortal()
    }
}
dependencyResolutionManagement {
    repositoriesMode.set(RepositoriesMode.FAIL_ON_PROJECT_REPOS)
    repositories {
        google()
        mavenCentral()
    }
}
rootProject.name = System.getProperty('osiris.system.name')
`

// buildGradle is the root Gradle build file. All integration parameters are
// read from `osiris.android.*` project properties rather than baked into the
// file, so manifest changes do not require re-emerging the integration.
const buildGradle = `// Generated by osiris-platform
plugins {
    id 'com.android.application' version '8.0.2'
}

android {
    compileSdk Integer.parseInt(project.property('osiris.android.compileSdk'))
    namespace project.property('osiris.android.namespace')

    defaultConfig {
        applicationId project.property('osiris.android.applicationId')
        minSdk Integer.parseInt(project.property('osiris.android.minSdk'))
        targetSdk Integer.parseInt(project.property('osiris.android.targetSdk'))
        versionCode Integer.parseInt(project.property('osiris.android.versionCode'))
        versionName project.property('osiris.android.versionName')

        testInstrumentationRunner 'androidx.test.runner.AndroidJUnitRunner'
    }

    buildTypes {
        release {
            minifyEnabled false
        }
    }

    compileOptions {
        sourceCompatibility JavaVersion.VERSION_1_8
        targetCompatibility JavaVersion.VERSION_1_8
    }
}

dependencies {
    implementation 'androidx.appcompat:appcompat:1.6.1'
    implementation 'com.google.android.material:material:1.9.0'
    implementation 'androidx.constraintlayout:constraintlayout:2.1.4'
    testImplementation 'junit:junit:4.13.2'
    androidTestImplementation 'androidx.test.ext:junit:1.1.5'
    androidTestImplementation 'androidx.test.espresso:espresso-core:3.5.1'
}
`

// androidManifestXML is the root application manifest, referring to the
// embedded resources and the entry-point activity.
const androidManifestXML = `<?xml version="1.0" encoding="utf-8"?>
<!-- Generated by osiris-platform -->
<manifest
    xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:tools="http://schemas.android.com/tools">

    <application
        android:allowBackup="true"
        android:label="@string/app_name"
        android:supportsRtl="true"
        android:theme="@style/Theme.Main">
        <activity
            android:name=".MainActivity"
            android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>
</manifest>
`

// activityMainXML is the layout of the main activity, a full-widget layout
// with a text-box showing "Hello World!".
const activityMainXML = `<?xml version="1.0" encoding="utf-8"?>
<!-- Generated by osiris-platform -->
<androidx.constraintlayout.widget.ConstraintLayout
    xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:app="http://schemas.android.com/apk/res-auto"
    xmlns:tools="http://schemas.android.com/tools"
    android:layout_width="match_parent"
    android:layout_height="match_parent"
    tools:context=".MainActivity">

    <TextView
        android:layout_width="wrap_content"
        android:layout_height="wrap_content"
        android:text="Hello World!"
        app:layout_constraintBottom_toBottomOf="parent"
        app:layout_constraintEnd_toEndOf="parent"
        app:layout_constraintStart_toStartOf="parent"
        app:layout_constraintTop_toTopOf="parent" />
</androidx.constraintlayout.widget.ConstraintLayout>
`

// stringsXML is the default string registry of the application, keeping the
// application name out of the code-base for simple localization.
const stringsXML = `<!-- Generated by osiris-platform -->
<resources>
    <string name="app_name">%s</string>
</resources>
`

// themesXML defines the base theme referenced from the application manifest.
// No custom styles, just the inherited default theme.
const themesXML = `<!-- Generated by osiris-platform -->
<resources xmlns:tools="http://schemas.android.com/tools">
    <style name="Theme.Main" parent="Theme.Material3.DayNight.NoActionBar">
    </style>
</resources>
`

// mainActivityJava is the entry-point activity. It sets `activity_main` as
// the content-view and recreates the base class from the saved state, if any.
const mainActivityJava = `// Generated by osiris-platform
package %s;

import androidx.appcompat.app.AppCompatActivity;

import android.os.Bundle;

public class MainActivity extends AppCompatActivity {
    @Override
    protected void onCreate(Bundle savedInstanceState) {
        super.onCreate(savedInstanceState);
        setContentView(R.layout.activity_main);
    }
}
`

// emergeAndroid writes the Android Gradle project into dir.
func emergeAndroid(ctx context.Context, m *manifest.Manifest, android *manifest.Android, dir string) error {
	app, err := m.ViewApplication()
	if err != nil {
		return err
	}
	view, err := android.View()
	if err != nil {
		return err
	}

	type file struct {
		path    string
		content string
	}
	nsDir := strings.ReplaceAll(view.Namespace, ".", string(filepath.Separator))
	files := []file{
		{"gradle.properties", gradleProperties},
		{"settings.gradle", settingsGradle},
		{"build.gradle", buildGradle},
		{filepath.Join("src", "main", "AndroidManifest.xml"), androidManifestXML},
		{filepath.Join("src", "main", "res", "layout", "activity_main.xml"), activityMainXML},
		{filepath.Join("src", "main", "res", "values", "strings.xml"), fmt.Sprintf(stringsXML, escapeXMLPCData(app.Name))},
		{filepath.Join("src", "main", "res", "values", "themes.xml"), themesXML},
		{filepath.Join("src", "main", "java", nsDir, "MainActivity.java"), fmt.Sprintf(mainActivityJava, view.Namespace)},
	}

	// `local.properties` is reserved for local configuration not committed
	// to the code base. It is not generated anymore, so stale copies are
	// removed.
	if err := unlinkFile(filepath.Join(dir, "local.properties")); err != nil {
		return err
	}

	for _, f := range files {
		path := filepath.Join(dir, f.path)
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return err
		}
		changed, err := updateFile(path, f.content)
		if err != nil {
			return err
		}
		if changed {
			logging.Infof(ctx, "Updated %s", path)
		}
	}
	return nil
}
