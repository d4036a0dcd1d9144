package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

// skipDirs are directories never listed by Dir.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var skipDirs = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"target",
	"__pycache__",
	".cache",
}

const streamBufferSize = 64

func expandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPath expands a leading tilde and environment variables.
func expandPath(path string) (string, error) {
	var err error

	if runtime.GOOS != "windows" {
		path, err = expandTilde(path)
		if err != nil {
			return "", err
		}
	}

	path = os.ExpandEnv(path)

	return filepath.Clean(path), nil
}

func isYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isJSONFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

func isTOMLFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".toml"
}

func isStructuredFile(path string) bool {
	return isJSONFile(path) || isYAMLFile(path) || isTOMLFile(path)
}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// streamFiles walks root and streams regular files over a channel. The
// channel is closed when walking completes or ctx is canceled.
func streamFiles(ctx context.Context, root string) <-chan string {
	out := make(chan string, streamBufferSize)
	go func() {
		defer close(out)
		conf := fastwalk.DefaultConfig
		_ = fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // Skip unreadable entries.
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if d.IsDir() {
				if path != root && isSkippedDir(d.Name()) {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			select {
			case out <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}()
	return out
}

// Dir lists the regular files below root as sorted, slash separated paths
// relative to root.
func Dir(ctx context.Context, root string) (*List, error) {
	var items []string
	for path := range streamFiles(ctx, root) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			logrus.Debugf("skipping %s: %v", path, err)
			continue
		}
		items = append(items, filepath.ToSlash(rel))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, root)
	}
	sort.Strings(items)
	logrus.Debugf("listed %d files under %s", len(items), root)
	return NewList(Name(root), items), nil
}
