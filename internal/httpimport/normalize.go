package httpimport

import (
	"net/url"
	"strings"
)

// Upgrader decides which hosts are fetched over https even when imported as http.
type Upgrader struct {
	Hosts    []string // exact host names, e.g. "esm.sh"
	Suffixes []string // domain suffixes including the leading dot, e.g. ".archive.org"
}

// DefaultUpgrader trusts the esm.sh CDN and every archive.org subdomain.
// Fetching them over https avoids a 308 round trip and intermittent failures
// seen with concurrent http imports of the same package.
var DefaultUpgrader = Upgrader{
	Hosts:    []string{"esm.sh"},
	Suffixes: []string{".archive.org"},
}

// Normalize upgrades rawURL with DefaultUpgrader.
func Normalize(rawURL string) (string, error) {
	return DefaultUpgrader.Normalize(rawURL)
}

// Normalize returns rawURL with its scheme switched to https when it is an
// http URL on a trusted host. Any other absolute URL is returned unchanged.
func (u Upgrader) Normalize(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", &InvalidURLError{Raw: rawURL, Err: err}
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", &InvalidURLError{Raw: rawURL}
	}

	if parsed.Scheme != "http" || !u.trusted(parsed.Hostname()) {
		return rawURL, nil
	}

	// Scheme is already known to be http, only its case may differ.
	return "https" + rawURL[len("http"):], nil
}

func (u Upgrader) trusted(host string) bool {
	host = strings.ToLower(host)
	for _, h := range u.Hosts {
		if host == strings.ToLower(h) {
			return true
		}
	}
	for _, s := range u.Suffixes {
		if strings.HasSuffix(host, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
