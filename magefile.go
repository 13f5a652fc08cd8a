//go:build mage
// +build mage

package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace
type Publish mg.Namespace

var Default = Build.App

const (
	appName       = "go-url-bundler"
	publishFolder = "dist"
	ldflags       = "-w -s"
)

var publishConf = map[string]map[string]string{
	"windows-amd64": {
		"GOOS":   "windows",
		"GOARCH": "amd64",
	},
	"macos-amd64": {
		"GOOS":   "darwin",
		"GOARCH": "amd64",
	},
	"macos-arm64": {
		"GOOS":   "darwin",
		"GOARCH": "arm64",
	},
	"linux-amd64": {
		"GOOS":   "linux",
		"GOARCH": "amd64",
	},
	"linux-arm64": {
		"GOOS":   "linux",
		"GOARCH": "arm64",
	},
}

// Build the bundler binary.
func (Build) App() error {
	mg.Deps(Build.InstallDeps)
	fmt.Println("Building...")
	return sh.RunV("go", "build", "-o", appName, ".")
}

// Download module dependencies.
func (Build) InstallDeps() error {
	fmt.Println("Installing Deps...")
	return sh.Run("go", "mod", "download")
}

// Run the unit tests with the race detector.
func (Build) Test() error {
	mg.Deps(Build.InstallDeps)
	fmt.Println("Testing...")
	return sh.RunV("go", "test", "-race", "./...")
}

// Remove the built binary and the default output folder.
func (Build) Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(appName)
	os.RemoveAll("build")
}

// Cross compile release binaries into dist/.
func (Publish) All() error {
	mg.Deps(Build.Test)
	fmt.Println("Publishing apps...")
	if err := os.RemoveAll(publishFolder); err != nil {
		return err
	}

	if err := os.Mkdir(publishFolder, 0770); err != nil {
		return err
	}

	for _, k := range slices.Sorted(maps.Keys(publishConf)) {
		fmt.Println("Publishing", k)

		var outputPath = filepath.Join(publishFolder, k)
		if err := os.Mkdir(outputPath, 0770); err != nil {
			return err
		}

		var outputName = appName
		if strings.HasPrefix(k, "windows") {
			outputName += ".exe"
		}

		env := map[string]string{"CGO_ENABLED": "0"}
		maps.Copy(env, publishConf[k])

		var output = filepath.Join(outputPath, outputName)
		if err := sh.RunWith(env, "go", "build", "-ldflags", ldflags, "-o", output, "."); err != nil {
			return err
		}
	}

	return nil
}
