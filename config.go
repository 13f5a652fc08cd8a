package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

// defaultConfigFile is read from the working directory when it exists.
const defaultConfigFile = ".urlbundle.ini"

// loadConfig applies an INI config file to p before the command line is
// parsed, so flags given on the command line still win. Global options live in
// the [Application Options] section, command options in a section named after
// the command, e.g. [build].
func loadConfig(p *flags.Parser, args []string) error {
	path, explicit := configPath(args)
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}

	if err := flags.NewIniParser(p).ParseFile(path); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// configPath finds the config file from --config, then URLBUNDLE_CONFIG, then
// the default file name. explicit is false only for the default.
func configPath(args []string) (path string, explicit bool) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--config="); ok {
			return v, true
		}
		if arg == "--config" && i+1 < len(args) {
			return args[i+1], true
		}
	}

	if v := os.Getenv("URLBUNDLE_CONFIG"); v != "" {
		return v, true
	}
	return defaultConfigFile, false
}
