// Copyright 2024 The entidl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command entc builds an Ent binary image from a parsed, name-resolved
// IDL tree.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	entidl "github.com/nascent-os/entidl"
)

var (
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "entc <input.json> <output.ent>",
		Short: "Compile a resolved IDL tree into an Ent reflection image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return build(args[0], args[1])
		},
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "log layout and emission detail")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func build(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		err = &entidl.IoError{Kind: entidl.IoOpenFailed, Path: inPath, Err: err}
		os.Exit(entidl.ExitCode(err))
	}

	var spec entidl.Node
	if err := json.Unmarshal(data, &spec); err != nil {
		err = &entidl.IoError{Kind: entidl.IoOpenFailed, Path: inPath, Err: err}
		os.Exit(entidl.ExitCode(err))
	}
	entidl.LinkTree(&spec)

	level := log.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	logger := log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(level))

	if err := entidl.Compile(&spec, outPath, logger); err != nil {
		os.Exit(entidl.ExitCode(err))
	}
	return nil
}
