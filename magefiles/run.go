//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

const dataDir = "data"

// Generates synthetic terrain data and a matching config under data/.
func (Run) Synth() error {
	fmt.Println("Generating synthetic terrain...")
	_, err := executeCmd("go", withArgs("run", "./cmd/grasstool", "synth", "-layers", "2", "-config", dataDir+"/config.yaml", dataDir), withStream())
	return err
}

// Runs the benchmark against the synthetic terrain.
func (Run) Bench() error {
	mg.Deps(Run.Synth)
	_, err := executeCmd("go", withArgs("run", "./cmd/grassbench", "-config", dataDir+"/config.yaml"), withStream())
	return err
}
