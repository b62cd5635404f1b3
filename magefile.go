//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

const binary = "phonetext"

// Build builds the phonetext binary
func Build() error {
	return sh.RunV("go", "build", "-o", binary, "./cmd/phonetext")
}

// Install installs phonetext into GOPATH/bin
func Install() error {
	return sh.RunV("go", "install", "./cmd/phonetext")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Integration runs the tests that talk to the OpenAI API
func Integration() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return mg.Fatal(1, "OPENAI_API_KEY must be set for integration tests")
	}
	return sh.RunV("go", "test", "-run", "Integration", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes the built binary
func Clean() error {
	return sh.Rm(binary)
}

// All vets, tests and builds
func All() {
	mg.SerialDeps(Vet, Test, Build)
}
