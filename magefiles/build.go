//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds every command into bin/.
func (Build) All() {
	mg.Deps(Build.Bench, Build.Tool)
}

// Builds the headless benchmark.
func (Build) Bench() error {
	return goBuild("grassbench")
}

// Builds the data utility.
func (Build) Tool() error {
	return goBuild("grasstool")
}

func goBuild(name string) error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/"+name, "./cmd/"+name), withStream())
	return err
}
