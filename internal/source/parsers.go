package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	maxSourceSize = 10 * 1024 * 1024 // 10MB
	itemsKey      = "items"
)

// readFile reads a file, refusing anything over maxSourceSize.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSourceSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), maxSourceSize)
	}

	return io.ReadAll(io.LimitReader(file, maxSourceSize))
}

// Lines reads path as one item per non-blank line.
func Lines(path string) (*List, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var items []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxSourceSize)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		items = append(items, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	logrus.Debugf("read %d lines from %s", len(items), path)
	return NewList(Name(path), items), nil
}

// Structured decodes path as a list of items, either a top-level array or a
// table with an "items" array.
func Structured(path string) (*List, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	raw, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	items, err := itemsOf(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	logrus.Debugf("decoded %d items from %s", len(items), path)
	return NewList(Name(path), items), nil
}

func decode(path string, data []byte) (any, error) {
	switch {
	case isJSONFile(path):
		if err := detectCaseInsensitiveKeyCollisions(data); err != nil {
			return nil, fmt.Errorf("case-insensitive key collision detected: %w", err)
		}
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case isYAMLFile(path):
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	case isTOMLFile(path):
		// TOML documents are always tables.
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown source file extension: %s", path)
}

func itemsOf(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, itemString(item))
		}
		return out, nil
	case map[string]any:
		list, ok := v[itemsKey]
		if !ok {
			return nil, fmt.Errorf("missing %q list", itemsKey)
		}
		if _, ok := list.([]any); !ok {
			return nil, fmt.Errorf("%q is not a list", itemsKey)
		}
		return itemsOf(list)
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("expected a list or a table with %q, got %T", itemsKey, raw)
}

// itemString renders one decoded item. Tables print as sorted key=value
// pairs so the same file renders the same way in every format.
func itemString(item any) string {
	switch v := item.(type) {
	case string:
		return v
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, itemString(v[k])))
		}
		return strings.Join(parts, " ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, itemString(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return ""
	}
	return fmt.Sprint(item)
}

// detectCaseInsensitiveKeyCollisions rejects JSON objects holding keys that
// differ only by case.
// see: https://blog.trailofbits.com/2025/06/17/unexpected-security-footguns-in-gos-parsers/
func detectCaseInsensitiveKeyCollisions(data []byte) error {
	var res any
	// Syntax errors are left for the real decode to report.
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&res); err != nil {
		return nil
	}
	return checkCaseInsensitiveKeys(res, "")
}

func checkCaseInsensitiveKeys(obj any, path string) error {
	switch v := obj.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		seen := make(map[string]string, len(v))
		for _, key := range keys {
			lower := strings.ToLower(key)
			keyPath := joinKeyPath(path, key)
			if first, ok := seen[lower]; ok {
				return fmt.Errorf("case-insensitive key collision at '%s': '%s' and '%s'", keyPath, key, first)
			}
			seen[lower] = key
			if err := checkCaseInsensitiveKeys(v[key], keyPath); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range v {
			if err := checkCaseInsensitiveKeys(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinKeyPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
