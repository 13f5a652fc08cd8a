package main

import (
	"encoding/json"
	"fmt"
)

// Metafile is the part of esbuild's metafile the output finalizer needs.
type Metafile struct {
	Outputs map[string]MetafileOutput `json:"outputs"`
}

type MetafileOutput struct {
	Bytes      int                      `json:"bytes"`
	EntryPoint string                   `json:"entryPoint"` // source entry point, empty for chunks and maps
	Inputs     map[string]MetafileInput `json:"inputs"`     // keyed by path, remote inputs as "https-url:<url>"
}

type MetafileInput struct {
	BytesInOutput int `json:"bytesInOutput"`
}

func parseMetafile(data string) (Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return Metafile{}, fmt.Errorf("decoding esbuild metafile: %w", err)
	}
	return meta, nil
}
