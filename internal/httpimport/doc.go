// Package httpimport lets esbuild bundle modules imported by fully-qualified URL.
//
// The package is organized into a few concerns:
//   - normalize.go: http to https upgrade for trusted CDN hosts
//   - resolver.go: root classification, nested resolution against the importer, and loading
//   - fetch.go: HTTP client used by the loader
//   - patch.go: content fixes for known-broken upstream responses
//   - stash.go: optional debug capture of fetched responses
//   - session.go: per-build download progress
//   - plugin.go: adapter onto the esbuild plugin API
package httpimport
