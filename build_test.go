package main

import (
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCmd_Options(t *testing.T) {
	b := BuildCmd{OutDir: "build", Format: "es6", Banner: "/* MIT */", Footer: "/* end */"}
	plugin := api.Plugin{Name: "http"}

	opts := b.options("/work", []string{"index.js"}, "var regeneratorRuntime;\n", plugin)

	assert.Equal(t, []string{"index.js"}, opts.EntryPoints)
	assert.Equal(t, "/work", opts.AbsWorkingDir)
	assert.Equal(t, "build", opts.Outdir)
	assert.True(t, opts.Bundle)
	assert.True(t, opts.Metafile)
	assert.True(t, opts.MinifyWhitespace && opts.MinifyIdentifiers && opts.MinifySyntax)
	assert.Equal(t, api.FormatIIFE, opts.Format)
	assert.Equal(t, api.ES2015, opts.Target)
	assert.Equal(t, api.SourceMapLinked, opts.Sourcemap)
	assert.Equal(t, api.LoaderJSX, opts.Loader[".js"])
	assert.Equal(t, map[string]string{"js": "/* MIT */\nvar regeneratorRuntime;"}, opts.Banner)
	assert.Equal(t, map[string]string{"js": "/* end */"}, opts.Footer)
	require.Len(t, opts.Plugins, 1)
	assert.Equal(t, "http", opts.Plugins[0].Name)
}

func TestBuildCmd_OptionsWithoutExtras(t *testing.T) {
	b := BuildCmd{OutDir: "out", Format: "esm", NoMinify: true}

	opts := b.options("/work", []string{"a.js", "b.js"}, "", api.Plugin{})

	assert.False(t, opts.MinifyWhitespace || opts.MinifyIdentifiers || opts.MinifySyntax)
	assert.Equal(t, api.FormatESModule, opts.Format)
	assert.Nil(t, opts.Banner)
	assert.Nil(t, opts.Footer)
}

func TestOutputFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, api.FormatIIFE, outputFormat("iife"))
	assert.Equal(t, api.FormatIIFE, outputFormat("es6"))
	assert.Equal(t, api.FormatCommonJS, outputFormat("cjs"))
	assert.Equal(t, api.FormatESModule, outputFormat("esm"))
}

func TestBuildError(t *testing.T) {
	t.Parallel()

	err := buildError([]api.Message{
		{Text: "GET https://esm.sh/x.js failed, status: 404"},
		{Text: `Could not resolve "./y.js"`, Location: &api.Location{File: "src/index.js", Line: 3}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 404")
	assert.Contains(t, err.Error(), `src/index.js:3: Could not resolve "./y.js"`)
}

func TestBuildCmd_NoEntryPoints(t *testing.T) {
	b := BuildCmd{NoRegenerator: true}
	assert.ErrorIs(t, b.Execute(nil), errNoEntryPoints)
}
