//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles the demo binary.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/scena", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and regenerates generated code.
func (Build) Tidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy"), withStream()); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("generate", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
