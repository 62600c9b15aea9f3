//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the storefront project using Mage.
//
// Usage:
//
//	mage build          Compile the storefront binary to bin/
//	mage test:all       Run every test
//	mage test:race      Run every test with the race detector
//	mage test:cover     Write coverage.out and print per-function coverage
//	mage lint           Run go vet and golangci-lint
//	mage fmt            Fail when a file needs gofmt
//	mage clean          Remove build artifacts
//	mage install        Install storefront to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "storefront"
	binaryDir  = "bin"
	cmdDir     = "./cmd/storefront"
	versionVar = "github.com/mesh-intelligence/storefront/internal/cli.Version"
)

// Build compiles the storefront binary to bin/. VERSION, when set, is
// stamped into the version command.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if v := os.Getenv("VERSION"); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
