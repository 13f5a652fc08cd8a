package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-sharp/color"
	"github.com/jessevdk/go-flags"
	"github.com/spf13/afero"

	"github.com/go-sharp/go-url-bundler/internal/httpimport"
)

// CommonOpts are accepted by every command.
type CommonOpts struct {
	Verbose      bool           `short:"v" long:"verbose" env:"URLBUNDLE_VERBOSE" description:"Verbose information to stderr."`
	Stash        bool           `long:"stash" env:"URLBUNDLE_STASH" description:"Debug mode: write downloaded imports to the stash directory for inspection."`
	StashDir     string         `long:"stash-dir" env:"URLBUNDLE_STASH_DIR" default:"/tmp/estash" description:"Directory used by --stash."`
	TrustHosts   []string       `long:"trust-host" description:"Also fetch http:// imports from this exact host over https (repeatable)."`
	TrustSuffix  []string       `long:"trust-suffix" description:"Also fetch http:// imports from hosts ending in this suffix over https, e.g. .example.org (repeatable)."`
	UserAgent    string         `long:"user-agent" env:"URLBUNDLE_USER_AGENT" description:"User-Agent sent when downloading imports."`
	Timeout      time.Duration  `long:"timeout" env:"URLBUNDLE_TIMEOUT" default:"0s" description:"Timeout of a single download, 0 disables it."`
	Config       flags.Filename `long:"config" env:"URLBUNDLE_CONFIG" description:"INI file with option defaults (default: .urlbundle.ini when present)."`
	PrintVersion func()         `long:"version" description:"Print the version and exit."`
}

var errorRedPrefix = color.RedString("error:")

func init() {
	commonOpts.PrintVersion = func() {
		fmt.Println(version)
		os.Exit(0)
	}
}

// newLogger returns the diagnostic logger of a command. Diagnostics go to
// stderr so stdout stays usable for content.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix})
	if commonOpts.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// upgrader is the default trusted host list extended by --trust-host and
// --trust-suffix. Suffixes always match on a label boundary.
func (o *CommonOpts) upgrader() httpimport.Upgrader {
	u := httpimport.DefaultUpgrader
	u.Hosts = append(append([]string{}, u.Hosts...), o.TrustHosts...)
	u.Suffixes = slices.Clone(u.Suffixes)
	for _, s := range o.TrustSuffix {
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		u.Suffixes = append(u.Suffixes, s)
	}
	return u
}

func (o *CommonOpts) fetcher() *httpimport.Fetcher {
	return httpimport.NewFetcher(
		httpimport.WithUserAgent(o.UserAgent),
		httpimport.WithTimeout(o.Timeout),
	)
}

// newResolver builds the Resolver of one build attempt. Every attempt gets
// its own Session so the download counter starts over.
func (o *CommonOpts) newResolver(logger *log.Logger) *httpimport.Resolver {
	opts := []httpimport.ResolverOption{
		httpimport.WithUpgrader(o.upgrader()),
		httpimport.WithFetcher(o.fetcher()),
		httpimport.WithLogger(logger),
	}
	if o.Stash {
		opts = append(opts, httpimport.WithStash(httpimport.NewStash(afero.NewOsFs(), o.StashDir)))
	}
	return httpimport.NewResolver(httpimport.NewSession(os.Stderr, o.Verbose), opts...)
}
