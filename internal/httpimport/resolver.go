package httpimport

import (
	"context"
	"io"
	"net/url"
	"regexp"

	"github.com/charmbracelet/log"
)

// Tag tells whether a resolved module is loaded from the network or left to the bundler.
type Tag int

const (
	TagLocal Tag = iota
	TagRemote
)

// remotePrefix is a prefix test only. Malformed URLs fail later in Normalize.
var remotePrefix = regexp.MustCompile(`^https?://`)

type (
	// Resolution is a resolved import: its canonical URL and where it loads from.
	Resolution struct {
		URL string
		Tag Tag
	}

	// Resolver resolves and loads URL imports for one build attempt.
	Resolver struct {
		upgrader Upgrader
		fetcher  *Fetcher
		patches  []PatchRule
		stash    *Stash // nil unless stashing is enabled
		session  *Session
		logger   *log.Logger
	}

	// ResolverOption configures a Resolver during construction.
	ResolverOption func(*Resolver)
)

func (t Tag) String() string {
	if t == TagRemote {
		return "remote"
	}
	return "local"
}

// WithUpgrader replaces DefaultUpgrader.
func WithUpgrader(u Upgrader) ResolverOption {
	return func(r *Resolver) {
		r.upgrader = u
	}
}

// WithFetcher replaces the default Fetcher.
func WithFetcher(f *Fetcher) ResolverOption {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

// WithPatches replaces the Patches table.
func WithPatches(rules []PatchRule) ResolverOption {
	return func(r *Resolver) {
		r.patches = rules
	}
}

// WithStash enables debug capture of every download.
func WithStash(s *Stash) ResolverOption {
	return func(r *Resolver) {
		r.stash = s
	}
}

// WithLogger sets the diagnostic logger. Defaults to a logger that discards everything.
func WithLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver reporting progress to session.
func NewResolver(session *Session, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		upgrader: DefaultUpgrader,
		patches:  Patches,
		session:  session,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fetcher == nil {
		r.fetcher = NewFetcher()
	}
	if r.session == nil {
		r.session = NewSession(io.Discard, false)
	}
	return r
}

// ClassifyRoot claims import paths starting with http:// or https://. The bool
// is false when the path is not a URL and the bundler should resolve it itself.
func (r *Resolver) ClassifyRoot(path string) (Resolution, bool, error) {
	if !remotePrefix.MatchString(path) {
		return Resolution{}, false, nil
	}
	u, err := r.upgrader.Normalize(path)
	if err != nil {
		return Resolution{}, true, err
	}
	return Resolution{URL: u, Tag: TagRemote}, true, nil
}

// ResolveNested resolves path, found inside the remote module importer, against
// importer's URL. The result is always remote so the whole subtree is fetched.
func (r *Resolver) ResolveNested(path, importer string) (Resolution, error) {
	base, err := url.Parse(importer)
	if err != nil {
		return Resolution{}, &InvalidURLError{Raw: importer, Err: err}
	}
	if !base.IsAbs() {
		return Resolution{}, &InvalidURLError{Raw: importer}
	}
	ref, err := url.Parse(path)
	if err != nil {
		return Resolution{}, &InvalidURLError{Raw: path, Err: err}
	}

	u, err := r.upgrader.Normalize(base.ResolveReference(ref).String())
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{URL: u, Tag: TagRemote}, nil
}

// Load downloads a remote module, patches it and returns its source.
func (r *Resolver) Load(ctx context.Context, mod Resolution) (string, error) {
	if mod.Tag != TagRemote {
		return "", ErrNotRemote
	}
	moduleURL, err := r.upgrader.Normalize(mod.URL)
	if err != nil {
		return "", err
	}
	if r.session.Verbose() {
		r.logger.Info("downloading", "url", moduleURL)
	}

	res, body, err := r.fetcher.Open(ctx, moduleURL)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only response body

	// Metadata is kept even for failed downloads, it is what explains them.
	if r.stash != nil {
		if err := r.stash.WriteMeta(moduleURL, res); err != nil {
			r.logger.Warn("stash failed", "url", moduleURL, "err", err)
		}
	}

	if err := checkStatus(moduleURL, res); err != nil {
		r.logger.Error("download not ok", "url", moduleURL, "status", res.StatusText)
		return "", err
	}
	if err := readBody(moduleURL, res, body); err != nil {
		return "", err
	}

	content := ApplyPatches(r.patches, moduleURL, res.Body, r.logger)

	if r.stash != nil {
		if err := r.stash.WriteContents(moduleURL, content); err != nil {
			r.logger.Warn("stash failed", "url", moduleURL, "err", err)
		}
	}

	r.session.Tick()
	return content, nil
}

// Fetcher returns the Fetcher used by Load.
func (r *Resolver) Fetcher() *Fetcher {
	return r.fetcher
}

// Session returns the Session downloads are counted in.
func (r *Resolver) Session() *Session {
	return r.session
}
