package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

type FetchCmd struct {
	PosArgs struct {
		Import   string `positional-arg-name:"IMPORT" description:"URL import to download."`
		Importer string `positional-arg-name:"IMPORTER" description:"URL of the module containing the import, for relative imports."`
	} `positional-args:"yes" required:"1"`

	out io.Writer
}

func (f *FetchCmd) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	resolver := commonOpts.newResolver(newLogger("fetch"))

	mod, err := resolveImport(resolver, f.PosArgs.Import, f.PosArgs.Importer)
	if err != nil {
		return err
	}

	content, err := resolver.Load(ctx, mod)
	if err != nil {
		return err
	}
	if !commonOpts.Verbose {
		// Progress dots went to stderr without a line break.
		fmt.Fprintln(os.Stderr)
	}

	_, err = io.WriteString(writerOr(f.out, os.Stdout), content)
	return err
}
