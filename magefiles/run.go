//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the viewer and runs it against the testbed assets.
func (Run) Testbed() error {
	mg.Deps(Build.Viewer)
	fmt.Println("Run testbed...")
	if _, err := executeCmd("./bin/meshview", withArgs("-config", "assets/viewer.toml", "-primitives", "assets/primitives"), withDir("."), withStream()); err != nil {
		return err
	}
	return nil
}
