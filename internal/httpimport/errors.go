package httpimport

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is matched by every *InvalidURLError.
	ErrInvalidURL = errors.New("invalid url")

	// ErrFetchFailed is matched by every *FetchError.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNotRemote is returned when Load is asked for a module that was not resolved remotely.
	ErrNotRemote = errors.New("module is not remote")
)

type (
	// InvalidURLError reports an import specifier that cannot be used as an absolute URL.
	InvalidURLError struct {
		Raw string
		Err error
	}

	// FetchError reports a download that did not answer with HTTP 200.
	// Status is 0 when the request failed before a response arrived.
	FetchError struct {
		URL    string
		Status int
		Err    error
	}
)

func (e *InvalidURLError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid url %q: %v", e.Raw, e.Err)
	}
	return fmt.Sprintf("invalid url %q: not absolute", e.Raw)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidURL) match.
func (e *InvalidURLError) Is(target error) bool { return target == ErrInvalidURL }

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s failed, status: %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrFetchFailed) match.
func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }
