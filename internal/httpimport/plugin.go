package httpimport

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Namespace routes esbuild resolve and load callbacks for remote modules back to the Resolver.
const Namespace = "https-url"

// Plugin returns an esbuild plugin that bundles URL imports. ctx bounds every
// download the plugin makes.
func (r *Resolver) Plugin(ctx context.Context) api.Plugin {
	return api.Plugin{
		Name: "http",
		Setup: func(build api.PluginBuild) {
			// Claim http:// and https:// imports so esbuild does not look for them on disk.
			build.OnResolve(api.OnResolveOptions{Filter: `^https?://`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					mod, ok, err := r.ClassifyRoot(args.Path)
					if err != nil || !ok {
						return api.OnResolveResult{}, err
					}
					return api.OnResolveResult{Path: mod.URL, Namespace: Namespace}, nil
				})

			// Every import inside a downloaded file resolves against that file's URL
			// and stays in the namespace, so nested imports recurse through here.
			build.OnResolve(api.OnResolveOptions{Filter: `.*`, Namespace: Namespace},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					mod, err := r.ResolveNested(args.Path, args.Importer)
					if err != nil {
						return api.OnResolveResult{}, err
					}
					return api.OnResolveResult{Path: mod.URL, Namespace: Namespace}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: Namespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					contents, err := r.Load(ctx, Resolution{URL: args.Path, Tag: TagRemote})
					if err != nil {
						return api.OnLoadResult{}, err
					}
					return api.OnLoadResult{Contents: &contents, Loader: LoaderFor(args.Path)}, nil
				})
		},
	}
}

// LoaderFor picks the esbuild loader from the extension of the URL path.
func LoaderFor(moduleURL string) api.Loader {
	p := moduleURL
	if u, err := url.Parse(moduleURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".css":
		return api.LoaderCSS
	case ".json":
		return api.LoaderJSON
	case ".jsx":
		return api.LoaderJSX
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	case ".tsx":
		return api.LoaderTSX
	default:
		return api.LoaderJS
	}
}
