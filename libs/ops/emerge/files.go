// Copyright 2024 The Osiris Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package emerge

import (
	"os"
	"strings"

	"go.chromium.org/luci/common/errors"
)

// ensureDir makes sure the directory at the given path exists, creating it
// and its parents if necessary.
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Annotate(err, "cannot create directory %q", path).Err()
	}
	return nil
}

// updateFile writes content to the file at path, but only if the current
// content differs. This keeps file timestamps stable across repeated runs, so
// build systems watching them do not trigger spurious rebuilds. The file is
// synced before returning so write errors surface here. Reports whether the
// file was modified.
//
// The entire file is read into memory, so use this on trusted content only.
func updateFile(path, content string) (bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return false, errors.Annotate(err, "cannot update %q", path).Err()
	}
	defer f.Close()

	old, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Annotate(err, "cannot update %q", path).Err()
	}

	changed := string(old) != content
	if changed {
		if err := f.Truncate(0); err != nil {
			return false, errors.Annotate(err, "cannot update %q", path).Err()
		}
		if _, err := f.WriteString(content); err != nil {
			return false, errors.Annotate(err, "cannot update %q", path).Err()
		}
	}

	if err := f.Sync(); err != nil {
		return false, errors.Annotate(err, "cannot update %q", path).Err()
	}
	return changed, nil
}

// unlinkFile removes the file at path if it exists. A missing file is not an
// error.
func unlinkFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Annotate(err, "cannot remove %q", path).Err()
	}
	return nil
}

// escapeXMLPCData escapes data for verbatim use in XML PCDATA.
func escapeXMLPCData(data string) string {
	data = strings.ReplaceAll(data, "&", "&amp;")
	return strings.ReplaceAll(data, "<", "&lt;")
}
