// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entidl

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// newDefaultLogger builds the same kind of level-filtered helper the
// teacher wires up in pe.New: a plain stderr logger filtered down to
// errors unless the caller supplies their own.
func newDefaultLogger() *log.Helper {
	base := log.NewStdLogger(os.Stderr)
	return log.NewHelper(log.NewFilter(base, log.FilterLevel(log.LevelError)))
}

func helperOrDefault(l log.Logger) *log.Helper {
	if l == nil {
		return newDefaultLogger()
	}
	return log.NewHelper(l)
}
