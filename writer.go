// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "os"

// WriteImage opens path for binary write and writes image in one shot,
// following the remove-on-error policy spec.md section 4.5 and section
// 7 both call for: the core never leaves a partial file behind, so any
// failure after the file was created removes it again before
// returning.
func WriteImage(path string, image []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &IoError{Kind: IoOpenFailed, Path: path, Err: err}
	}

	n, werr := f.Write(image)
	cerr := f.Close()

	if werr != nil {
		os.Remove(path)
		return &IoError{Kind: IoWriteShort, Path: path, Err: werr}
	}
	if n != len(image) {
		os.Remove(path)
		return &IoError{Kind: IoWriteShort, Path: path}
	}
	if cerr != nil {
		os.Remove(path)
		return &IoError{Kind: IoOpenFailed, Path: path, Err: cerr}
	}
	return nil
}
