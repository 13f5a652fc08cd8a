package main

import (
	"errors"
	"os"

	"github.com/go-sharp/color"
	"github.com/jessevdk/go-flags"
)

const version = "1.1.0"

var commonOpts CommonOpts

var parser = flags.NewParser(&commonOpts, flags.HelpFlag|flags.PassDoubleDash)

var (
	buildCmd   BuildCmd
	resolveCmd ResolveCmd
	fetchCmd   FetchCmd
)

func init() {
	parser.Usage = "[OPTIONS] build [FILE1] [FILE2] .."
	parser.AddCommand("build", "Bundle JS entry points, including https:// imports.", "Bundle and minify one or more JS entry points in a single esbuild run. Fully-qualified URL imports are downloaded and bundled too. The whole build is retried when it fails.", &buildCmd)
	parser.AddCommand("resolve", "Print the URL an import resolves to.", "Resolve a URL import, or a relative import against the URL of the module containing it.", &resolveCmd)
	parser.AddCommand("fetch", "Download a URL import and print it.", "Download a URL import with the same upgrades and patches a build applies and print the result to stdout.", &fetchCmd)
}

func main() {
	if err := loadConfig(parser, os.Args[1:]); err != nil {
		color.Red("%s", err)
		os.Exit(1)
	}

	if _, err := parser.Parse(); err != nil {
		var t *flags.Error
		if errors.As(err, &t) && t.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		color.Red("%s", err)
		os.Exit(1)
	}
}
