package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/go-sharp/color"
)

// regeneratorURL serves the raw ES5 source of the regenerator runtime.
const regeneratorURL = "https://cdn.jsdelivr.net/npm/regenerator-runtime@0.13.9/runtime.js"

var errNoEntryPoints = errors.New("no entry points given")

type BuildCmd struct {
	OutDir        string        `short:"o" long:"outdir" env:"URLBUNDLE_OUTDIR" default:"build" description:"Directory for built files."`
	Format        string        `short:"f" long:"format" default:"iife" choice:"iife" choice:"cjs" choice:"esm" choice:"es6" description:"Output format. es6 is an iife targeting ES2015, esm implies es6."`
	Banner        string        `long:"banner" description:"Banner (eg: license info) to put at the head of each built JS file."`
	Footer        string        `long:"footer" description:"Footer (eg: license info) to put at the tail of each built JS file."`
	NoMinify      bool          `long:"no-minify" description:"Do not minify built files."`
	NoRegenerator bool          `long:"no-regenerator-inline" description:"Do not inline regeneratorRuntime at the top of each built file."`
	NoMinSuffix   bool          `long:"no-min-suffix" description:"Keep esbuild's .js names instead of renaming outputs to .min.js."`
	Retries       int           `long:"retries" default:"5" description:"Attempts before the build is reported as failed."`
	RetryDelay    time.Duration `long:"retry-delay" default:"15s" description:"Wait between attempts."`

	PosArgs struct {
		Files []string `positional-arg-name:"FILE" description:"JS entry points to bundle."`
	} `positional-args:"yes"`
}

// Execute will be called for the last active (sub)command. The
// args argument contains the remaining command line arguments. The
// error that Execute returns will be eventually passed out of the
// Parse method of the Parser.
func (b *BuildCmd) Execute(args []string) error {
	logger := newLogger("build")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	entryPoints := slices.Concat(b.PosArgs.Files, args)
	if len(entryPoints) == 0 {
		return errNoEntryPoints
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	regenerator := ""
	if !b.NoRegenerator {
		res, err := commonOpts.fetcher().Get(ctx, regeneratorURL)
		if err != nil {
			return fmt.Errorf("fetching regenerator runtime: %w", err)
		}
		regenerator = res.Body + "\n"
	}

	logger.Info("building", "entryPoints", entryPoints)

	notify := func(err error, next time.Duration) {
		fmt.Fprintln(os.Stderr)
		logger.Warn(fmt.Sprintf("sleeping %s and retrying", next), "err", err)
	}
	err = retryBuild(ctx, b.Retries, b.RetryDelay, func(attempt int) error {
		logger.Debug("build attempt", "attempt", attempt)
		return b.run(ctx, cwd, entryPoints, regenerator, logger)
	}, notify)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintln(os.Stderr, "\n[esbuild]", color.GreenString("done"))
	return nil
}

// run is a single build attempt.
func (b *BuildCmd) run(ctx context.Context, cwd string, entryPoints []string, regenerator string, logger *log.Logger) error {
	resolver := commonOpts.newResolver(logger)

	result := api.Build(b.options(cwd, entryPoints, regenerator, resolver.Plugin(ctx)))
	if len(result.Errors) > 0 {
		return buildError(result.Errors)
	}
	logger.Debug("build finished", "downloaded", resolver.Session().Downloaded())

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		return err
	}
	return finalizeOutputs(cwd, b.OutDir, meta, !b.NoMinSuffix, logger)
}

// options maps the command line onto esbuild. ES5 output is not supported,
// every format targets ES2015.
func (b *BuildCmd) options(cwd string, entryPoints []string, regenerator string, plugin api.Plugin) api.BuildOptions {
	minify := !b.NoMinify

	opts := api.BuildOptions{
		EntryPoints:       entryPoints,
		AbsWorkingDir:     cwd,
		Bundle:            true,
		Outdir:            b.OutDir,
		Write:             true,
		Sourcemap:         api.SourceMapLinked,
		Loader:            map[string]api.Loader{".js": api.LoaderJSX},
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		Format:            outputFormat(b.Format),
		Target:            api.ES2015,
		Metafile:          true,
		LogLevel:          api.LogLevelWarning,
		Plugins:           []api.Plugin{plugin},
	}
	if commonOpts.Verbose {
		opts.LogLevel = api.LogLevelVerbose
	}

	var banner []string
	for _, part := range []string{b.Banner, strings.TrimRight(regenerator, "\n")} {
		if part != "" {
			banner = append(banner, part)
		}
	}
	if len(banner) > 0 {
		opts.Banner = map[string]string{"js": strings.Join(banner, "\n")}
	}
	if b.Footer != "" {
		opts.Footer = map[string]string{"js": b.Footer}
	}
	return opts
}

func outputFormat(format string) api.Format {
	switch format {
	case "cjs":
		return api.FormatCommonJS
	case "esm":
		return api.FormatESModule
	default:
		return api.FormatIIFE
	}
}

func buildError(msgs []api.Message) error {
	errs := make([]error, 0, len(msgs))
	for _, m := range msgs {
		if m.Location != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %s", m.Location.File, m.Location.Line, m.Text))
			continue
		}
		errs = append(errs, errors.New(m.Text))
	}
	return errors.Join(errs...)
}
