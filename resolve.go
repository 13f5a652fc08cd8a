package main

import (
	"fmt"
	"io"
	"os"

	"github.com/go-sharp/go-url-bundler/internal/httpimport"
)

type ResolveCmd struct {
	PosArgs struct {
		Import   string `positional-arg-name:"IMPORT" description:"Import specifier, a URL unless IMPORTER is given."`
		Importer string `positional-arg-name:"IMPORTER" description:"URL of the module containing the import."`
	} `positional-args:"yes" required:"1"`

	out io.Writer
}

func (r *ResolveCmd) Execute(args []string) error {
	resolver := commonOpts.newResolver(newLogger("resolve"))

	mod, err := resolveImport(resolver, r.PosArgs.Import, r.PosArgs.Importer)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(writerOr(r.out, os.Stdout), mod.URL)
	return err
}

// resolveImport resolves path the way the build plugin does: against importer
// when it is set, otherwise as a root import that must be a URL.
func resolveImport(resolver *httpimport.Resolver, path, importer string) (httpimport.Resolution, error) {
	if importer != "" {
		return resolver.ResolveNested(path, importer)
	}

	mod, ok, err := resolver.ClassifyRoot(path)
	if err != nil {
		return httpimport.Resolution{}, err
	}
	if !ok {
		return httpimport.Resolution{}, fmt.Errorf("%q is not a URL import, esbuild resolves it from disk", path)
	}
	return mod, nil
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
