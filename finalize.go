package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-sharp/color"

	"github.com/go-sharp/go-url-bundler/internal/httpimport"
)

const (
	finalizeWorkers  = 8
	sourceMapComment = "//# sourceMappingURL="
)

// finalizeOutputs renames every built X.js (and its X.js.map) to X.min.js
// when minSuffix is set, then removes directories left empty under outDir.
// Output paths in meta are relative to root, outDir is too unless absolute.
func finalizeOutputs(root, outDir string, meta Metafile, minSuffix bool, logger *log.Logger) error {
	var scripts []string
	remote := 0
	for path, out := range meta.Outputs {
		for input := range out.Inputs {
			if strings.HasPrefix(input, httpimport.Namespace+":") {
				remote++
			}
		}
		if strings.HasSuffix(path, ".js") {
			scripts = append(scripts, path)
		}
	}
	slices.Sort(scripts)
	logger.Debug("outputs", "scripts", len(scripts), "remoteInputs", remote)

	if minSuffix && len(scripts) > 0 {
		if err := renameAll(root, scripts, logger); err != nil {
			return err
		}
	}

	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(root, outDir)
	}
	return removeEmptyDirs(outDir)
}

func renameAll(root string, scripts []string, logger *log.Logger) error {
	producer := make(chan string)
	go func() {
		defer close(producer)
		for _, s := range scripts {
			producer <- s
		}
	}()

	var errs []error
	reporterCh := make(chan func())
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		for fn := range reporterCh {
			fn()
		}
	}()

	var wg sync.WaitGroup
	for range finalizeWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range producer {
				dst, err := renameToMin(filepath.Join(root, s))
				if err != nil {
					reporterCh <- func() {
						logger.Error(errorRedPrefix+" renaming output", "file", s, "err", err)
						errs = append(errs, err)
					}
					continue
				}
				reporterCh <- func() { logger.Debug("renamed output", "from", s, "to", color.BlueString(dst)) }
			}
		}()
	}

	wg.Wait()
	close(reporterCh)
	<-reporterDone

	return errors.Join(errs...)
}

// renameToMin moves src to its .min.js name, pointing its source map comment
// at the renamed map and the map's "file" field at the renamed script. Files
// already ending in .min.js are left alone.
func renameToMin(src string) (string, error) {
	if strings.HasSuffix(src, ".min.js") {
		return src, nil
	}
	dst := strings.TrimSuffix(src, ".js") + ".min.js"

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", src, err)
	}

	mapSrc, mapDst := src+".map", dst+".map"
	hasMap := fileExists(mapSrc)
	if hasMap {
		data = rewriteSourceMapURL(data, filepath.Base(mapSrc), filepath.Base(mapDst))
	}

	if err := os.WriteFile(dst, data, 0o664); err != nil {
		return "", fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return "", fmt.Errorf("removing %s: %w", src, err)
	}
	if hasMap {
		if err := renameSourceMap(mapSrc, mapDst, filepath.Base(dst)); err != nil {
			return "", err
		}
	}
	return dst, nil
}

// renameSourceMap moves a source map to dst and updates its "file" field to
// file. Maps without that field, or that fail to decode, are moved unchanged.
func renameSourceMap(src, dst, file string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) == nil {
		if _, ok := fields["file"]; ok {
			fields["file"], _ = json.Marshal(file)
			if out, err := json.Marshal(fields); err == nil {
				data = out
			}
		}
	}

	if err := os.WriteFile(dst, data, 0o664); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("removing %s: %w", src, err)
	}
	return nil
}

// rewriteSourceMapURL replaces the last sourceMappingURL comment naming oldMap.
func rewriteSourceMapURL(data []byte, oldMap, newMap string) []byte {
	s := string(data)
	old := sourceMapComment + oldMap
	i := strings.LastIndex(s, old)
	if i < 0 {
		return data
	}
	return []byte(s[:i] + sourceMapComment + newMap + s[i+len(old):])
}

// removeEmptyDirs deletes every empty directory below dir, deepest first.
// dir itself is kept.
func removeEmptyDirs(dir string) error {
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cleaning %s: %w", dir, err)
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			return fmt.Errorf("removing empty directory: %w", err)
		}
	}
	return nil
}

func fileExists(name string) bool {
	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		return false
	}

	return true
}
