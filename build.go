// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import "github.com/go-kratos/kratos/v2/log"

// Compile drives the full pipeline described in spec.md section 2 over
// an already parsed, name-resolved tree: plan the layout, emit the
// image, and write it to outPath. It is the entry point cmd/entc uses;
// most tests call PlanLayout and Emit directly instead.
func Compile(spec *Node, outPath string, logger log.Logger) error {
	helper := helperOrDefault(logger)

	layout, err := PlanLayout(spec, logger)
	if err != nil {
		helper.Errorf("layout failed: %v", err)
		return err
	}

	image, err := Emit(spec, layout, logger)
	if err != nil {
		helper.Errorf("emission failed: %v", err)
		return err
	}

	if err := WriteImage(outPath, image); err != nil {
		helper.Errorf("write failed: %v", err)
		return err
	}

	helper.Infof("wrote %s (%d bytes)", outPath, layout.FileSize)
	return nil
}
