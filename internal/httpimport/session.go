package httpimport

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/go-sharp/color"
	"github.com/mattn/go-isatty"
)

// ProgressMarker is written before the first download dot.
const ProgressMarker = "[esbuild] Downloading https:// import(s) "

// Session tracks downloads of a single build attempt. Start a new one for every
// retry so the progress marker is printed again.
type Session struct {
	out        io.Writer
	verbose    bool // downloads are logged one per line instead of as dots
	downloaded atomic.Int64
	mu         sync.Mutex
	marker     *color.Color
}

// NewSession creates a Session writing progress to out. The marker is colored
// only when out is a terminal.
func NewSession(out io.Writer, verbose bool) *Session {
	marker := color.New(color.FgCyan)
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		marker.DisableColor()
	}
	return &Session{
		out:     out,
		verbose: verbose,
		marker:  marker,
	}
}

// Tick records one finished download: the marker on the first one, then a dot each.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.downloaded.Add(1)
	if s.verbose {
		return
	}
	if n == 1 {
		_, _ = s.marker.Fprint(s.out, ProgressMarker)
	}
	_, _ = io.WriteString(s.out, ".")
}

// Verbose reports whether downloads should be logged individually.
func (s *Session) Verbose() bool {
	return s.verbose
}

// Downloaded reports how many modules were downloaded so far.
func (s *Session) Downloaded() int64 {
	return s.downloaded.Load()
}
