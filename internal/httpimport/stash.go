package httpimport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// DefaultStashDir is where --stash writes downloaded modules.
const DefaultStashDir = "/tmp/estash"

var encodedCaret = regexp.MustCompile(`(?i)%5E`)

type (
	// Stash writes debug copies of downloaded modules. It is never read back.
	Stash struct {
		fs   afero.Fs
		root string
	}

	// StashMeta is the serializable part of a response, written as <key>.res.
	StashMeta struct {
		URL        string      `json:"url"`
		Status     int         `json:"status"`
		StatusText string      `json:"statusText"`
		OK         bool        `json:"ok"`
		Redirected bool        `json:"redirected"`
		Headers    http.Header `json:"headers"`
	}
)

// NewStash creates a Stash rooted at root on fs.
func NewStash(fs afero.Fs, root string) *Stash {
	if root == "" {
		root = DefaultStashDir
	}
	return &Stash{fs: fs, root: root}
}

// StashKey turns a module URL into a relative file name: encoded carets are
// decoded and the query string marker is dropped.
func StashKey(moduleURL string) string {
	key := encodedCaret.ReplaceAllString(moduleURL, "^")
	return strings.Replace(key, "?", "", 1)
}

// Path returns the stash path of moduleURL without any extension. Dot
// segments are cleaned against the stash root, so the result never leaves it.
func (s *Stash) Path(moduleURL string) string {
	key := path.Clean("/" + StashKey(moduleURL))
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// WriteMeta stores the response metadata of moduleURL.
func (s *Stash) WriteMeta(moduleURL string, res *Response) error {
	data, err := json.MarshalIndent(StashMeta{
		URL:        res.URL,
		Status:     res.Status,
		StatusText: res.StatusText,
		OK:         res.OK,
		Redirected: res.Redirected,
		Headers:    res.Header,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding stash metadata: %w", err)
	}
	return s.write(s.Path(moduleURL)+".res", data)
}

// WriteContents stores the final, patched content of moduleURL.
func (s *Stash) WriteContents(moduleURL, content string) error {
	return s.write(s.Path(moduleURL)+".contents", []byte(content))
}

func (s *Stash) write(name string, data []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(name), 0o775); err != nil {
		return fmt.Errorf("creating stash directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, name, data, 0o664); err != nil {
		return fmt.Errorf("writing stash file: %w", err)
	}
	return nil
}
