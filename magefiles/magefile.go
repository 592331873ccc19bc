//go:build mage

// Package main provides build targets for smallany using Mage.
//
// Usage:
//
//	mage build       Compile anyinspect to bin/
//	mage test:all    Run all tests with the race detector
//	mage test:bench  Run the container benchmarks
//	mage lint        Run go vet and golangci-lint
//	mage clean       Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "anyinspect"
	binaryDir  = "bin"
	cmdDir     = "./cmd/anyinspect"
)

// Build compiles the anyinspect binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Test groups test targets.
type Test mg.Namespace

// All runs every package's tests with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Bench runs the root package benchmarks.
func (Test) Bench() error {
	return sh.RunV(binGo, "test", "-run", "^$", "-bench", ".", "-benchmem", ".")
}

// Lint runs go vet, then golangci-lint when it is installed.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}
